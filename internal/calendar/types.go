package calendar

import (
	"context"
	"errors"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// ErrReadOnly is returned when writing to a source that only supports reads.
var ErrReadOnly = errors.New("calendar source is read-only")

// EventSource lists the events of one calendar.
type EventSource interface {
	// EventsInRange returns every event overlapping [start, end], including
	// expanded occurrences of recurring events.
	EventsInRange(ctx context.Context, start, end time.Time) ([]EventSummary, error)
}

// EventWriter creates events.
type EventWriter interface {
	CreateEvent(ctx context.Context, input EventInput) (*EventSummary, error)
}

// EventInput represents the input for creating a calendar event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string

	// Event type: "default" or "focusTime"
	EventType string
}

// EventSummary is a simplified calendar event.
type EventSummary struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Organizer   string
	Status      string
	EventType   string
	Attendees   int
}

// Duration returns the length of the event.
func (e EventSummary) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// toEventSummary converts a Google Calendar event. All-day dates are read as
// midnight in loc.
func toEventSummary(event *calendar.Event, loc *time.Location) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
		EventType:   event.EventType,
		Attendees:   len(event.Attendees),
	}

	summary.Start, summary.AllDay = parseEventTime(event.Start, loc)
	summary.End, _ = parseEventTime(event.End, loc)

	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	return summary
}

func parseEventTime(t *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed, false
		}
		return time.Time{}, false
	}
	if t.Date != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", t.Date, loc); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
