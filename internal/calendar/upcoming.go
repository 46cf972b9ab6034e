package calendar

import (
	"context"
	"sort"
	"time"
)

// UpcomingWindow is how far ahead Upcoming searches sources that cannot list
// upcoming events themselves.
const UpcomingWindow = 30 * 24 * time.Hour

// UpcomingLister is implemented by sources that can list the next events
// directly, such as the Google client.
type UpcomingLister interface {
	UpcomingEvents(ctx context.Context, n int) ([]EventSummary, error)
}

// Upcoming returns at most n events that have not ended by now, ordered by
// start. n <= 0 means 10.
func Upcoming(ctx context.Context, src EventSource, now time.Time, n int) ([]EventSummary, error) {
	if n <= 0 {
		n = 10
	}
	if lister, ok := src.(UpcomingLister); ok {
		return lister.UpcomingEvents(ctx, n)
	}

	events, err := src.EventsInRange(ctx, now, now.Add(UpcomingWindow))
	if err != nil {
		return nil, err
	}
	upcoming := make([]EventSummary, 0, len(events))
	for _, ev := range events {
		if ev.End.After(now) {
			upcoming = append(upcoming, ev)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	if len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming, nil
}
