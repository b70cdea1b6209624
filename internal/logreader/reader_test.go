package logreader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const sampleLog = `199.72.81.55 - - [01/Jul/1995:00:00:01 -0400] "GET /history/apollo/ HTTP/1.0" 200 6245
unicomp6.unicomp.net - - [01/Jul/1995:00:00:06 -0400] "GET /shuttle/countdown/ HTTP/1.0" 200 3985
not a log line
199.120.110.21 - - [01/Jul/1995:00:00:09 -0400] "GET /shuttle/missions/sts-73/mission-sts-73.html HTTP/1.0" 200 4085
burger.letters.com - - [01/Jul/1995:00:00:11 -0400] "GET /shuttle/countdown/liftoff.html HTTP/1.0" 304 0
`

func checkSample(t *testing.T, records, rawLines int, skipped int) {
	t.Helper()
	if records != 4 || rawLines != 4 {
		t.Errorf("got %d records and %d raw lines, want 4 and 4", records, rawLines)
	}
	if skipped != 1 {
		t.Errorf("Skipped = %d, want 1", skipped)
	}
}

func TestReadKeepsRecordsAndLinesAligned(t *testing.T) {
	ds, err := NewLogReader(nil).Read(context.Background(), strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	checkSample(t, len(ds.Records), len(ds.RawLines), ds.Skipped)

	for i, rec := range ds.Records {
		if !strings.HasPrefix(ds.RawLines[i], rec.Host+" ") {
			t.Errorf("raw line %d = %q does not belong to host %q", i, ds.RawLines[i], rec.Host)
		}
	}
	if ds.RawLines[2] != strings.Split(sampleLog, "\n")[3] {
		t.Errorf("raw line 2 = %q, want the original text", ds.RawLines[2])
	}
}

func TestReadEmpty(t *testing.T) {
	ds, err := NewLogReader(nil).Read(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if ds.Len() != 0 || ds.Skipped != 0 {
		t.Fatalf("got %d records, %d skipped, want none", ds.Len(), ds.Skipped)
	}
}

func TestReadFilePlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := NewLogReader(nil).ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	checkSample(t, len(ds.Records), len(ds.RawLines), ds.Skipped)
}

func TestReadFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(sampleLog)); err != nil {
		t.Fatal(err)
	}
	gz.Close()
	f.Close()

	ds, err := NewLogReader(nil).ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	checkSample(t, len(ds.Records), len(ds.RawLines), ds.Skipped)
}

func TestReadFileZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte(sampleLog)); err != nil {
		t.Fatal(err)
	}
	enc.Close()
	f.Close()

	ds, err := NewLogReader(nil).ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	checkSample(t, len(ds.Records), len(ds.RawLines), ds.Skipped)
}

func TestReadFileMissing(t *testing.T) {
	_, err := NewLogReader(nil).ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.log"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFileBadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.gz")
	if err := os.WriteFile(path, []byte("not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLogReader(nil).ReadFile(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt gzip file")
	}
}
