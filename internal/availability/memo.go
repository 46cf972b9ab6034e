package availability

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// memoReader de-duplicates identical lookups within one pipeline run. Many
// candidates share a calendar day, so the per-day density query would
// otherwise be repeated for every slot on that day. A memoReader must not
// outlive the run it was created for.
type memoReader struct {
	reader BusyReader
	group  singleflight.Group

	mu      sync.Mutex
	results map[string][]TimeRange
}

func newMemoReader(reader BusyReader) *memoReader {
	return &memoReader{
		reader:  reader,
		results: make(map[string][]TimeRange),
	}
}

func (m *memoReader) ListBusyIntervals(ctx context.Context, start, end time.Time) ([]TimeRange, error) {
	key := start.UTC().Format(time.RFC3339Nano) + "/" + end.UTC().Format(time.RFC3339Nano)

	m.mu.Lock()
	if cached, ok := m.results[key]; ok {
		m.mu.Unlock()
		return cached, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		m.mu.Lock()
		cached, ok := m.results[key]
		m.mu.Unlock()
		if ok {
			return cached, nil
		}

		ranges, err := m.reader.ListBusyIntervals(ctx, start, end)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.results[key] = ranges
		m.mu.Unlock()
		return ranges, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]TimeRange), nil
}
