package aggregators

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/config"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
)

// HostCounter counts requests per host
type HostCounter struct {
	counts map[string]int64
}

// NewHostCounter creates a new host counter
func NewHostCounter() *HostCounter {
	return &HostCounter{
		counts: make(map[string]int64),
	}
}

// AddRecord counts a record against its host
func (h *HostCounter) AddRecord(record *models.LogRecord) {
	h.counts[record.Host]++
}

// Top returns the n most active hosts ordered by count, then host name
func (h *HostCounter) Top(n int) []models.HostCount {
	hosts := make([]models.HostCount, 0, len(h.counts))
	for host, count := range h.counts {
		hosts = append(hosts, models.HostCount{Host: host, Count: count})
	}

	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Count != hosts[j].Count {
			return hosts[i].Count > hosts[j].Count
		}
		return hosts[i].Host < hosts[j].Host
	})

	if n < len(hosts) {
		return hosts[:n]
	}
	return hosts
}

// ResourceAggregator sums bytes served per resource path
type ResourceAggregator struct {
	bytes map[string]int64
}

// NewResourceAggregator creates a new resource aggregator
func NewResourceAggregator() *ResourceAggregator {
	return &ResourceAggregator{
		bytes: make(map[string]int64),
	}
}

// AddRecord adds the record's bytes to its path. Requests with fewer than
// three tokens carry no usable path and are ignored.
func (r *ResourceAggregator) AddRecord(record *models.LogRecord) {
	tokens := strings.Fields(record.Request)
	if len(tokens) < 3 {
		return
	}
	r.bytes[tokens[1]] += record.Bytes
}

// Top returns the n paths with the most bytes, equal totals ordered by path
func (r *ResourceAggregator) Top(n int) []models.ResourceBytes {
	paths := make([]models.ResourceBytes, 0, len(r.bytes))
	for path, total := range r.bytes {
		paths = append(paths, models.ResourceBytes{Path: path, Bytes: total})
	}

	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Bytes != paths[j].Bytes {
			return paths[i].Bytes > paths[j].Bytes
		}
		return paths[i].Path < paths[j].Path
	})

	if n < len(paths) {
		return paths[:n]
	}
	return paths
}

// TrafficSummary aggregates run-wide statistics
type TrafficSummary struct {
	failureStatus int
	totalRequests int64
	totalBytes    int64
	failedLogins  int64
	hosts         map[string]bool
	statusClasses map[string]int64
	bytesPerReq   []float64
	timeRange     *models.TimeRange
}

// NewTrafficSummary creates a summary that counts failureStatus as a failed login
func NewTrafficSummary(failureStatus int) *TrafficSummary {
	return &TrafficSummary{
		failureStatus: failureStatus,
		hosts:         make(map[string]bool),
		statusClasses: make(map[string]int64),
		bytesPerReq:   make([]float64, 0),
	}
}

// AddRecord adds a record to the summary
func (t *TrafficSummary) AddRecord(record *models.LogRecord) {
	t.totalRequests++
	t.totalBytes += record.Bytes
	t.hosts[record.Host] = true
	t.statusClasses[config.StatusGroup(record.Status)]++
	t.bytesPerReq = append(t.bytesPerReq, float64(record.Bytes))

	if record.Status == t.failureStatus {
		t.failedLogins++
	}

	// Track time range
	if t.timeRange == nil {
		t.timeRange = &models.TimeRange{Start: record.Timestamp, End: record.Timestamp}
		return
	}
	if record.Timestamp.Before(t.timeRange.Start) {
		t.timeRange.Start = record.Timestamp
	}
	if record.Timestamp.After(t.timeRange.End) {
		t.timeRange.End = record.Timestamp
	}
}

// GetSummary returns the aggregated statistics
func (t *TrafficSummary) GetSummary() *models.TrafficStats {
	summary := &models.TrafficStats{
		TotalRequests: t.totalRequests,
		UniqueHosts:   len(t.hosts),
		TotalBytes:    t.totalBytes,
		FailedLogins:  t.failedLogins,
		StatusClasses: t.statusClasses,
		TimeRange:     t.timeRange,
	}

	if len(t.bytesPerReq) > 0 {
		summary.AvgBytesPerReq, _ = stats.Mean(t.bytesPerReq)
		summary.MedianBytes, _ = stats.Median(t.bytesPerReq)

		if p95, err := stats.Percentile(t.bytesPerReq, 95); err == nil {
			summary.P95Bytes = p95
		}
	}

	return summary
}
