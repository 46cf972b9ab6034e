package availability

import (
	"context"
	"time"
)

const (
	// SlotStep is the spacing of the candidate grid.
	SlotStep = 30 * time.Minute

	// DefaultDaysAhead is the search horizon used when an OptimalRequest
	// leaves DaysAhead unset.
	DefaultDaysAhead = 7
)

// DefaultWorkingHours is the admissible window for slot start times when a
// request does not specify one.
var DefaultWorkingHours = HourRange{Start: 9, End: 17}

// BusyReader provides the busy intervals of a calendar. Implementations
// return every interval overlapping [start, end] in any order.
type BusyReader interface {
	ListBusyIntervals(ctx context.Context, start, end time.Time) ([]TimeRange, error)
}

// BusyReaderFunc adapts a plain function to BusyReader.
type BusyReaderFunc func(ctx context.Context, start, end time.Time) ([]TimeRange, error)

// ListBusyIntervals calls f.
func (f BusyReaderFunc) ListBusyIntervals(ctx context.Context, start, end time.Time) ([]TimeRange, error) {
	return f(ctx, start, end)
}

// HourRange is a daily window of whole hours, [Start, End).
type HourRange struct {
	Start int
	End   int
}

// IsZero reports whether the range is unset.
func (h HourRange) IsZero() bool {
	return h.Start == 0 && h.End == 0
}

// Contains reports whether hour falls inside [Start, End).
func (h HourRange) Contains(hour int) bool {
	return hour >= h.Start && hour < h.End
}

func (h HourRange) validate() error {
	if h.Start < 0 || h.End > 24 || h.Start >= h.End {
		return invalidRangef("working hours %d-%d must satisfy 0 <= start < end <= 24", h.Start, h.End)
	}
	return nil
}

// Slot is a free candidate interval of exactly the requested duration.
type Slot struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// TimeRange returns the slot as a half-open range.
func (s Slot) TimeRange() TimeRange {
	return TimeRange{Start: s.Start, End: s.End}
}

// ScoredSlot is a slot with its productivity score and the reasons, in rule
// evaluation order, that produced the score.
type ScoredSlot struct {
	Slot    Slot
	Score   int
	Reasons []string
}

// Preferences tune the scorer. Zero values mean "rule not applicable".
type Preferences struct {
	// PreferredHours rewards slots starting inside the range and penalizes
	// those starting outside. FindOptimalSlots also uses it as working hours.
	PreferredHours *HourRange

	// AvoidLunchTime penalizes slots starting between 12:00 and 13:00.
	AvoidLunchTime bool

	// PreferMornings and MinimizeMeetingDays are accepted but not scored yet.
	PreferMornings      bool
	MinimizeMeetingDays bool

	// BufferBetweenMeetings is the minimum gap wanted between a slot and its
	// neighbouring events.
	BufferBetweenMeetings time.Duration
}

// SlotRequest describes a FindAvailableSlots call.
type SlotRequest struct {
	Duration time.Duration
	Range    TimeRange

	// WorkingHours defaults to DefaultWorkingHours when zero.
	WorkingHours HourRange

	// IncludeWeekends keeps Saturday and Sunday in the search. Weekends are
	// skipped by default.
	IncludeWeekends bool
}

func (r SlotRequest) workingHours() HourRange {
	if r.WorkingHours.IsZero() {
		return DefaultWorkingHours
	}
	return r.WorkingHours
}

// Validate checks the request without touching the calendar.
func (r SlotRequest) Validate() error {
	if r.Duration <= 0 {
		return invalidRangef("duration must be positive, got %s", r.Duration)
	}
	if !r.Range.Valid() {
		return invalidRangef("range start %s must be before end %s",
			r.Range.Start.Format(time.RFC3339), r.Range.End.Format(time.RFC3339))
	}
	return r.workingHours().validate()
}

// OptimalRequest describes a FindOptimalSlots call.
type OptimalRequest struct {
	Duration    time.Duration
	DaysAhead   int
	Preferences Preferences
}

func (r OptimalRequest) daysAhead() int {
	if r.DaysAhead == 0 {
		return DefaultDaysAhead
	}
	return r.DaysAhead
}
