package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
)

// ResetStatus describes what happened to a previous blocked report
type ResetStatus int

const (
	// ResetRemoved means an old report was deleted
	ResetRemoved ResetStatus = iota
	// ResetAbsent means there was nothing to delete
	ResetAbsent
	// ResetFailed means an old report exists and could not be deleted
	ResetFailed
)

func (s ResetStatus) String() string {
	switch s {
	case ResetRemoved:
		return "removed"
	case ResetAbsent:
		return "absent"
	default:
		return "failed"
	}
}

// ResetResult is the outcome of ResetBlocked
type ResetResult struct {
	Status ResetStatus
	Err    error
}

// OK reports whether the blocked report is known to be gone
func (r ResetResult) OK() bool {
	return r.Status != ResetFailed
}

// ReportWriter writes the analysis reports
type ReportWriter struct{}

// NewReportWriter creates a new report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteHosts writes host,count lines
func (w *ReportWriter) WriteHosts(filename string, hosts []models.HostCount) error {
	records := make([][]string, 0, len(hosts))
	for _, h := range hosts {
		records = append(records, []string{h.Host, strconv.FormatInt(h.Count, 10)})
	}
	return writeCSV(filename, records)
}

// WriteHours writes key,count lines for the busiest windows
func (w *ReportWriter) WriteHours(filename string, windows []models.WindowCount) error {
	records := make([][]string, 0, len(windows))
	for _, wc := range windows {
		records = append(records, []string{wc.Key, strconv.Itoa(wc.Count)})
	}
	return writeCSV(filename, records)
}

// WriteResources writes one path per line
func (w *ReportWriter) WriteResources(filename string, resources []models.ResourceBytes) error {
	lines := make([]string, 0, len(resources))
	for _, r := range resources {
		lines = append(lines, r.Path)
	}
	return writeLines(filename, lines)
}

// ResetBlocked deletes a blocked report left by an earlier run
func (w *ReportWriter) ResetBlocked(filename string) ResetResult {
	err := os.Remove(filename)
	switch {
	case err == nil:
		return ResetResult{Status: ResetRemoved}
	case os.IsNotExist(err):
		return ResetResult{Status: ResetAbsent}
	default:
		return ResetResult{Status: ResetFailed, Err: errors.Wrap(err, "failed to remove blocked report")}
	}
}

// WriteBlocked writes the raw lines of blocked requests in the order given
func (w *ReportWriter) WriteBlocked(filename string, blocked []models.BlockedRequest) error {
	lines := make([]string, 0, len(blocked))
	for _, b := range blocked {
		lines = append(lines, b.Line)
	}
	return writeLines(filename, lines)
}

// ExportJSON writes the full run report as indented JSON
func (w *ReportWriter) ExportJSON(report *models.Report, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}

	return nil
}

func writeCSV(filename string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return errors.Wrapf(err, "failed to write %s", filename)
	}

	return file.Close()
}

func writeLines(filename string, lines []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return errors.Wrapf(err, "failed to write %s", filename)
		}
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "failed to write %s", filename)
	}

	return file.Close()
}
