package logreader

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/parser"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
	"go.uber.org/zap"
)

const maxLineSize = 1024 * 1024

// LogReader loads access logs into memory
type LogReader struct {
	parser *parser.LogParser
	logger *zap.Logger
}

// NewLogReader creates a new log reader
func NewLogReader(logger *zap.Logger) *LogReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogReader{
		parser: parser.NewLogParser(),
		logger: logger,
	}
}

// ReadFile reads a whole log file. Files ending in .gz or .zst are decompressed.
func (r *LogReader) ReadFile(ctx context.Context, path string) (*models.Dataset, error) {
	file, err := openFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	dataset, err := r.Read(ctx, file)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}
	return dataset, nil
}

// Read parses every line of src in order. Lines that fail to parse are
// counted in Skipped and leave no trace in Records or RawLines.
func (r *LogReader) Read(ctx context.Context, src io.Reader) (*models.Dataset, error) {
	dataset := &models.Dataset{}

	scanner := bufio.NewScanner(src)
	// Increase buffer size for long request lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := scanner.Text()
		record, err := r.parser.ParseLine(line)
		if err != nil {
			dataset.Skipped++
			r.logger.Debug("skipping line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		dataset.Append(*record, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return dataset, nil
}

// openFile opens a file, handling gzip and zstd compression
func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrap(err, "failed to create gzip reader")
		}
		return &decompressReadCloser{gzReader, gzReader.Close, file}, nil
	case strings.HasSuffix(path, ".zst"):
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrap(err, "failed to create zstd reader")
		}
		return &decompressReadCloser{zstdReader, func() error {
			zstdReader.Close()
			return nil
		}, file}, nil
	}

	return file, nil
}

// decompressReadCloser wraps a decompressor and the underlying file
type decompressReadCloser struct {
	reader io.Reader
	close  func() error
	file   *os.File
}

func (d *decompressReadCloser) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decompressReadCloser) Close() error {
	d.close()
	return d.file.Close()
}
