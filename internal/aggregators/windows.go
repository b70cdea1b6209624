package aggregators

import (
	"sort"
	"time"

	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
)

// WindowFinder finds the busiest windows of a fixed length. Each window is
// anchored at a record and extends forward from its timestamp.
type WindowFinder struct {
	window time.Duration
	counts map[string]*windowCount
	order  []string
}

type windowCount struct {
	start time.Time
	count int
}

// NewWindowFinder creates a finder for windows of the given length
func NewWindowFinder(window time.Duration) *WindowFinder {
	return &WindowFinder{
		window: window,
	}
}

// Find returns the n busiest windows, keyed by the anchor's timestamp text.
// Records must be in ascending timestamp order; anchors sharing a timestamp
// text collapse into one entry holding the highest count.
func (f *WindowFinder) Find(records []models.LogRecord, n int) []models.WindowCount {
	f.counts = make(map[string]*windowCount)
	f.order = make([]string, 0)

	if len(records) == 0 {
		return []models.WindowCount{}
	}

	// count is always end-start+1: the record at end is counted before it
	// has been checked against the anchor at start.
	last := len(records) - 1
	count, start, end := 1, 0, 0

	for end < last && start < last {
		if f.within(&records[start], &records[end]) {
			count++
			end++
		} else {
			count--
			f.observe(&records[start], count)
			start++
		}
	}

	// Drain the windows still open at the tail of the log
	for start <= end {
		if f.within(&records[start], &records[end]) {
			f.observe(&records[start], count)
		} else {
			f.observe(&records[start], count-1)
		}
		count--
		start++
	}

	return f.top(n)
}

func (f *WindowFinder) within(anchor, other *models.LogRecord) bool {
	return other.Timestamp.Sub(anchor.Timestamp) < f.window
}

func (f *WindowFinder) observe(anchor *models.LogRecord, count int) {
	wc, exists := f.counts[anchor.TimestampText]
	if !exists {
		f.counts[anchor.TimestampText] = &windowCount{start: anchor.Timestamp, count: count}
		f.order = append(f.order, anchor.TimestampText)
		return
	}
	if count > wc.count {
		wc.count = count
	}
}

// top orders windows by count, equal counts keeping the order anchors were first seen
func (f *WindowFinder) top(n int) []models.WindowCount {
	windows := make([]models.WindowCount, 0, len(f.order))
	for _, key := range f.order {
		wc := f.counts[key]
		windows = append(windows, models.WindowCount{Key: key, Start: wc.start, Count: wc.count})
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Count > windows[j].Count
	})

	if n < len(windows) {
		return windows[:n]
	}
	return windows
}
