package availability

import "time"

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether r and other share any instant. Ranges that only
// touch (one ends exactly where the other starts) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Valid reports whether the range starts strictly before it ends.
func (r TimeRange) Valid() bool {
	return r.Start.Before(r.End)
}

// overlapsAny reports whether r overlaps any of the given ranges.
func (r TimeRange) overlapsAny(ranges []TimeRange) bool {
	for _, other := range ranges {
		if r.Overlaps(other) {
			return true
		}
	}
	return false
}
