package availability

import (
	"context"
	"sync"
	"time"
)

// fakeReader serves a fixed set of events and records every query.
type fakeReader struct {
	mu      sync.Mutex
	events  []TimeRange
	calls   []TimeRange
	failErr error
	failIf  func(start, end time.Time) bool
}

func newFakeReader(events ...TimeRange) *fakeReader {
	return &fakeReader{events: events}
}

func (f *fakeReader) ListBusyIntervals(_ context.Context, start, end time.Time) ([]TimeRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, TimeRange{Start: start, End: end})
	if f.failErr != nil && (f.failIf == nil || f.failIf(start, end)) {
		return nil, f.failErr
	}

	window := TimeRange{Start: start, End: end}
	var out []TimeRange
	for _, event := range f.events {
		if event.Overlaps(window) {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// at returns the given wall-clock time on a day of January 2025 in UTC.
// January 6 2025 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.January, day, hour, minute, 0, 0, time.UTC)
}

func rangeOf(start, end time.Time) TimeRange {
	return TimeRange{Start: start, End: end}
}

func slotAt(start time.Time, d time.Duration) Slot {
	return Slot{Start: start, End: start.Add(d), Duration: d}
}
