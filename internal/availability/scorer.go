package availability

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const baseScore = 100

// Reason texts emitted by the scorer.
const (
	ReasonPeakHours        = "Peak productivity hours (9-11 AM)"
	ReasonAfternoon        = "Good afternoon slot"
	ReasonLateAfternoon    = "Late afternoon (less ideal)"
	ReasonLunch            = "During typical lunch hours"
	ReasonMonday           = "Monday (busy start of week)"
	ReasonFriday           = "Friday (good for wrap-ups)"
	ReasonClearBlock       = "Clear block of time (no adjacent meetings)"
	ReasonNoBuffer         = "No buffer time before/after"
	ReasonBuffer           = "Good buffer time available"
	ReasonOutsidePreferred = "Outside preferred hours"
	ReasonWithinPreferred  = "Within preferred hours"
)

// highDensityThreshold is the number of same-day events above which a slot
// is penalized.
const highDensityThreshold = 3

func reasonHighDensity(count int) string {
	return fmt.Sprintf("High meeting density (%d meetings nearby)", count)
}

// SlotContext is what the scorer knows about a slot's surroundings.
type SlotContext struct {
	// DayEventCount is the number of events on the slot's local calendar day.
	DayEventCount int

	// Nearby holds the events within the buffer window around the slot. It is
	// only consulted when Preferences.BufferBetweenMeetings is set.
	Nearby []TimeRange
}

// Scorer scores candidate slots, looking up density and buffer information
// through a BusyReader.
type Scorer struct {
	reader BusyReader
	loc    *time.Location
}

// NewScorer returns a Scorer that evaluates wall-clock rules in loc.
// A nil loc means time.Local.
func NewScorer(reader BusyReader, loc *time.Location) *Scorer {
	if loc == nil {
		loc = time.Local
	}
	return &Scorer{reader: reader, loc: loc}
}

// Score fetches the slot's context and scores it. The density and buffer
// lookups run concurrently; the score is computed once both have resolved.
func (s *Scorer) Score(ctx context.Context, slot Slot, prefs Preferences) (ScoredSlot, error) {
	slotCtx, err := s.lookup(ctx, slot, prefs)
	if err != nil {
		return ScoredSlot{}, err
	}
	return ScoreSlot(slot, prefs, slotCtx, s.loc), nil
}

func (s *Scorer) lookup(ctx context.Context, slot Slot, prefs Preferences) (SlotContext, error) {
	var slotCtx SlotContext

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dayStart := startOfDay(slot.Start.In(s.loc))
		events, err := fetchBusy(gctx, s.reader, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		slotCtx.DayEventCount = len(events)
		return nil
	})

	if buffer := prefs.BufferBetweenMeetings; buffer > 0 {
		g.Go(func() error {
			events, err := fetchBusy(gctx, s.reader, slot.Start.Add(-buffer), slot.End.Add(buffer))
			if err != nil {
				return err
			}
			slotCtx.Nearby = events
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SlotContext{}, err
	}
	return slotCtx, nil
}

// ScoreSlot applies the scoring rules to slot. It is deterministic and never
// fails; preferences that are unset simply do not contribute.
func ScoreSlot(slot Slot, prefs Preferences, slotCtx SlotContext, loc *time.Location) ScoredSlot {
	if loc == nil {
		loc = time.Local
	}

	local := slot.Start.In(loc)
	hour := local.Hour()

	score := baseScore
	reasons := []string{}
	apply := func(delta int, reason string) {
		score += delta
		reasons = append(reasons, reason)
	}

	// Time of day
	switch {
	case hour >= 9 && hour < 11:
		apply(20, ReasonPeakHours)
	case hour >= 14 && hour < 16:
		apply(10, ReasonAfternoon)
	case hour >= 16:
		apply(-10, ReasonLateAfternoon)
	}

	if prefs.AvoidLunchTime && hour >= 12 && hour < 13 {
		apply(-30, ReasonLunch)
	}

	// Day of week
	switch local.Weekday() {
	case time.Monday:
		apply(-5, ReasonMonday)
	case time.Friday:
		apply(5, ReasonFriday)
	}

	// Meeting density
	switch {
	case slotCtx.DayEventCount > highDensityThreshold:
		apply(-15, reasonHighDensity(slotCtx.DayEventCount))
	case slotCtx.DayEventCount == 0:
		apply(10, ReasonClearBlock)
	}

	if buffer := prefs.BufferBetweenMeetings; buffer > 0 {
		if HasBuffer(slot, buffer, slotCtx.Nearby) {
			apply(10, ReasonBuffer)
		} else {
			apply(-20, ReasonNoBuffer)
		}
	}

	if preferred := prefs.PreferredHours; preferred != nil {
		if preferred.Contains(hour) {
			apply(5, ReasonWithinPreferred)
		} else {
			apply(-25, ReasonOutsidePreferred)
		}
	}

	if score < 0 {
		score = 0
	}

	return ScoredSlot{Slot: slot, Score: score, Reasons: reasons}
}

// HasBuffer reports whether every event leaves at least buffer between itself
// and the slot. An event overlapping the slot always fails the check.
func HasBuffer(slot Slot, buffer time.Duration, events []TimeRange) bool {
	slotRange := slot.TimeRange()
	for _, event := range events {
		switch {
		case slotRange.Overlaps(event):
			return false
		case !event.End.After(slot.Start):
			if slot.Start.Sub(event.End) < buffer {
				return false
			}
		case !event.Start.Before(slot.End):
			if event.Start.Sub(slot.End) < buffer {
				return false
			}
		}
	}
	return true
}
