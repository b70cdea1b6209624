package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/sachinmurali/fansite-analytics-challenge/internal/config"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
)

// LoginAbuseDetector blocks clients that fail to log in repeatedly in a short
// burst. Once a host completes a burst, every request it makes within the
// block duration of its last counted failure is blocked.
type LoginAbuseDetector struct {
	cfg     config.DetectorConfig
	clients map[string]*clientLoginState
	blocked []models.BlockedRequest
}

// clientLoginState tracks the failed logins of one host
type clientLoginState struct {
	lastTimestamp  time.Time
	count          int
	accumulatedGap time.Duration
}

func (s *clientLoginState) restart(ts time.Time) {
	s.lastTimestamp = ts
	s.count = 1
	s.accumulatedGap = 0
}

// NewLoginAbuseDetector creates a new detector
func NewLoginAbuseDetector(cfg config.DetectorConfig) *LoginAbuseDetector {
	return &LoginAbuseDetector{
		cfg:     cfg,
		clients: make(map[string]*clientLoginState),
		blocked: make([]models.BlockedRequest, 0),
	}
}

// Analyze runs the detector over a whole log and returns the blocked requests
// in log order. records and rawLines must be index-aligned.
func (d *LoginAbuseDetector) Analyze(records []models.LogRecord, rawLines []string) ([]models.BlockedRequest, error) {
	if len(records) != len(rawLines) {
		return nil, fmt.Errorf("records and raw lines are not aligned: %d records, %d lines", len(records), len(rawLines))
	}

	d.clients = make(map[string]*clientLoginState)
	d.blocked = make([]models.BlockedRequest, 0)

	for i := range records {
		d.AnalyzeEntry(i, &records[i], rawLines[i])
	}

	return d.blocked, nil
}

// AnalyzeEntry feeds one record to the detector. Entries must arrive in log order.
func (d *LoginAbuseDetector) AnalyzeEntry(index int, record *models.LogRecord, raw string) {
	state, tracked := d.clients[record.Host]

	if record.Status != d.cfg.FailureStatus {
		if tracked && d.flagged(state) && record.Timestamp.Sub(state.lastTimestamp) <= d.cfg.BlockDuration {
			d.block(index, record, raw)
		}
		return
	}

	if !tracked {
		state = &clientLoginState{}
		state.restart(record.Timestamp)
		d.clients[record.Host] = state
		return
	}

	delta := record.Timestamp.Sub(state.lastTimestamp)

	switch {
	case d.flagged(state):
		if delta <= d.cfg.BlockDuration {
			d.block(index, record, raw)
		} else {
			state.restart(record.Timestamp)
		}
	case delta+state.accumulatedGap <= d.cfg.BurstGap:
		state.count++
		state.accumulatedGap += delta
		state.lastTimestamp = record.Timestamp
	case delta > d.cfg.BurstGap:
		state.restart(record.Timestamp)
	default:
		// The gap alone fits the budget but not on top of the earlier ones
		state.accumulatedGap = delta
		state.lastTimestamp = record.Timestamp
	}
}

func (d *LoginAbuseDetector) flagged(state *clientLoginState) bool {
	return state.count >= d.cfg.BurstAttempts
}

func (d *LoginAbuseDetector) block(index int, record *models.LogRecord, raw string) {
	d.blocked = append(d.blocked, models.BlockedRequest{
		Index:     index,
		Host:      record.Host,
		Timestamp: record.Timestamp,
		Line:      raw,
	})
}

// FlaggedHosts returns the hosts currently holding a completed burst, sorted
func (d *LoginAbuseDetector) FlaggedHosts() []string {
	hosts := make([]string, 0)
	for host, state := range d.clients {
		if d.flagged(state) {
			hosts = append(hosts, host)
		}
	}
	sort.Strings(hosts)
	return hosts
}

// BlockedCounts returns the number of blocked requests per host
func BlockedCounts(blocked []models.BlockedRequest) []models.HostCount {
	counts := make(map[string]int64)
	for _, b := range blocked {
		counts[b.Host]++
	}

	hosts := make([]models.HostCount, 0, len(counts))
	for host, count := range counts {
		hosts = append(hosts, models.HostCount{Host: host, Count: count})
	}

	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Count != hosts[j].Count {
			return hosts[i].Count > hosts[j].Count
		}
		return hosts[i].Host < hosts[j].Host
	})

	return hosts
}
