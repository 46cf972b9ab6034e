package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a request has a non-positive duration, an
// empty or inverted date range, or unusable working hours. It is reported
// before any calendar fetch happens.
var ErrInvalidRange = errors.New("invalid range")

func invalidRangef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRange, fmt.Sprintf(format, args...))
}

// UpstreamFetchError is returned when the BusyReader fails. The engine does
// not retry and returns no partial results.
type UpstreamFetchError struct {
	Start time.Time
	End   time.Time
	Err   error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("failed to fetch busy intervals for %s to %s: %v",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// IsUpstreamFetchError reports whether err (or anything it wraps) is an
// UpstreamFetchError.
func IsUpstreamFetchError(err error) bool {
	var fetchErr *UpstreamFetchError
	return errors.As(err, &fetchErr)
}
