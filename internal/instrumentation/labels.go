package instrumentation

import "strings"

// NormalizeSource maps a calendar source name onto the fixed label set so
// that a misconfigured source cannot create unbounded metric series.
func NormalizeSource(source string) string {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceGoogle:
		return SourceGoogle
	case SourceICS:
		return SourceICS
	default:
		return SourceUnknown
	}
}

// StatusFor returns StatusError for a non-nil err and StatusSuccess otherwise.
func StatusFor(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
