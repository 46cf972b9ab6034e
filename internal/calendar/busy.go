package calendar

import (
	"context"
	"time"

	"github.com/teemow/timewise/internal/availability"
)

// BusyReader exposes src as an availability.BusyReader. Timed events are
// busy. All-day events are only busy when allDayBusy is set, so holidays and
// working-location markers do not block whole days.
func BusyReader(src EventSource, allDayBusy bool) availability.BusyReader {
	return availability.BusyReaderFunc(func(ctx context.Context, start, end time.Time) ([]availability.TimeRange, error) {
		events, err := src.EventsInRange(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return BusyIntervals(events, allDayBusy), nil
	})
}

// BusyIntervals converts events to busy ranges. Events without a usable time
// span are dropped, and so are all-day events unless allDayBusy is set.
func BusyIntervals(events []EventSummary, allDayBusy bool) []availability.TimeRange {
	busy := make([]availability.TimeRange, 0, len(events))
	for _, event := range events {
		if event.AllDay && !allDayBusy {
			continue
		}
		r := availability.TimeRange{Start: event.Start, End: event.End}
		if event.Start.IsZero() || !r.Valid() {
			continue
		}
		busy = append(busy, r)
	}
	return busy
}
