package availability

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/timewise/internal/logging"
)

// FindAvailableSlots returns every free slot of req.Duration inside req.Range,
// in chronological order. Busy intervals are fetched once for the whole range.
func (e *Engine) FindAvailableSlots(ctx context.Context, req SlotRequest) ([]Slot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	busy, err := fetchBusy(ctx, e.reader, req.Range.Start, req.Range.End)
	if err != nil {
		return nil, err
	}

	slots := findSlots(req, busy, e.loc)
	e.logger.Debug("found available slots",
		logging.Operation("availability.find"),
		slog.Int("busy_intervals", len(busy)),
		slog.Int("slots", len(slots)),
		slog.Duration(logging.KeyDuration, req.Duration))
	return slots, nil
}

// findSlots walks the candidate grid for req against a fixed busy set.
//
// Only the slot start is checked against working hours, so a slot starting
// shortly before closing time may run past it. When the cursor leaves working
// hours (or lands on a weekend) it jumps to the start of the next day rather
// than stepping through the night.
func findSlots(req SlotRequest, busy []TimeRange, loc *time.Location) []Slot {
	hours := req.workingHours()
	cursor := firstCursor(req.Range.Start.In(loc), hours.Start)

	var slots []Slot
	for cursor.Before(req.Range.End) {
		if (!req.IncludeWeekends && isWeekend(cursor)) || !hours.Contains(cursor.Hour()) {
			cursor = nextDayAt(cursor, hours.Start)
			continue
		}

		candidate := TimeRange{Start: cursor, End: cursor.Add(req.Duration)}
		if !candidate.End.After(req.Range.End) && !candidate.overlapsAny(busy) {
			slots = append(slots, Slot{
				Start:    candidate.Start,
				End:      candidate.End,
				Duration: req.Duration,
			})
		}

		cursor = cursor.Add(SlotStep)
	}

	return slots
}

// firstCursor anchors the grid at startHour:00 on the local day of from and
// advances it to the first grid point not before from. Grid points earlier
// than from are skipped on purpose, so past slots are never emitted.
func firstCursor(from time.Time, startHour int) time.Time {
	cursor := time.Date(from.Year(), from.Month(), from.Day(), startHour, 0, 0, 0, from.Location())
	for cursor.Before(from) {
		cursor = cursor.Add(SlotStep)
	}
	return cursor
}

// nextDayAt returns hour:00 on the calendar day after t.
func nextDayAt(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, hour, 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}
