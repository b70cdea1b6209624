package models

import (
	"time"
)

// LogRecord represents one accepted line of a common log format access log
type LogRecord struct {
	Host          string
	Timestamp     time.Time
	TimestampText string
	Request       string
	Status        int
	Bytes         int64
}

// Dataset holds the parsed records and the raw lines they came from.
// Records[i] was parsed from RawLines[i]; lines that failed to parse appear in neither.
type Dataset struct {
	Records  []LogRecord
	RawLines []string
	Skipped  int
}

// Len returns the number of accepted records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Append adds a record together with the raw line it was parsed from
func (d *Dataset) Append(record LogRecord, raw string) {
	d.Records = append(d.Records, record)
	d.RawLines = append(d.RawLines, raw)
}

// TimeRange represents a time range
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// HostCount is a row of the most active hosts report
type HostCount struct {
	Host  string `json:"host"`
	Count int64  `json:"count"`
}

// ResourceBytes is a row of the bandwidth report
type ResourceBytes struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// WindowCount is a row of the busiest windows report.
// Key is the literal timestamp text of the anchor record.
type WindowCount struct {
	Key   string    `json:"key"`
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// BlockedRequest is a request emitted by the login abuse detector
type BlockedRequest struct {
	Index     int       `json:"index"`
	Host      string    `json:"host"`
	Timestamp time.Time `json:"timestamp"`
	Line      string    `json:"line"`
}

// TrafficStats contains run-wide statistics
type TrafficStats struct {
	TotalRequests  int64            `json:"total_requests"`
	UniqueHosts    int              `json:"unique_hosts"`
	TotalBytes     int64            `json:"total_bytes"`
	FailedLogins   int64            `json:"failed_logins"`
	StatusClasses  map[string]int64 `json:"status_classes"`
	AvgBytesPerReq float64          `json:"avg_bytes_per_request"`
	MedianBytes    float64          `json:"median_bytes"`
	P95Bytes       float64          `json:"p95_bytes"`
	TimeRange      *TimeRange       `json:"time_range,omitempty"`
}

// Report contains the full result of one analysis run
type Report struct {
	RunID        string           `json:"run_id"`
	Input        string           `json:"input"`
	SkippedLines int              `json:"skipped_lines"`
	Stats        *TrafficStats    `json:"stats"`
	TopHosts     []HostCount      `json:"top_hosts"`
	TopResources []ResourceBytes  `json:"top_resources"`
	BusiestHours []WindowCount    `json:"busiest_hours"`
	Blocked      []BlockedRequest `json:"blocked"`
}
