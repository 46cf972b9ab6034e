package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/timewise/internal/google"
)

// DefaultCalendarID is the calendar used when none is configured.
const DefaultCalendarID = "primary"

const pageSize = 250

// Client wraps the Google Calendar service for one calendar of one account.
type Client struct {
	svc        *calendar.Service
	account    string
	calendarID string
	loc        *time.Location
}

// NewClient creates a Client authenticated with the stored token of account.
func NewClient(ctx context.Context, account, calendarID string, provider google.TokenProvider, creds google.Credentials) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	token, err := provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	httpClient := google.NewHTTPClient(ctx, google.OAuthConfig(creds), token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return NewClientWithService(svc, account, calendarID), nil
}

// NewClientWithService wraps an existing service.
func NewClientWithService(svc *calendar.Service, account, calendarID string) *Client {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &Client{svc: svc, account: account, calendarID: calendarID, loc: time.Local}
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// CalendarID returns the calendar this client reads and writes.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// SetLocation sets the zone all-day events are anchored in.
func (c *Client) SetLocation(loc *time.Location) {
	if loc != nil {
		c.loc = loc
	}
}

// EventsInRange lists every event overlapping [start, end], following all
// result pages. Recurring events are expanded into single occurrences.
func (c *Client) EventsInRange(ctx context.Context, start, end time.Time) ([]EventSummary, error) {
	return c.ListEvents(ctx, start, end, "")
}

// ListEvents lists events in [timeMin, timeMax] ordered by start time,
// optionally filtered by a free text query.
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time, query string) ([]EventSummary, error) {
	call := c.svc.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(pageSize)

	if query != "" {
		call = call.Q(query)
	}

	var summaries []EventSummary
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, event := range page.Items {
			if event.Status == "cancelled" {
				continue
			}
			summaries = append(summaries, toEventSummary(event, c.loc))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return summaries, nil
}

// UpcomingEvents returns at most n events starting from now, sorted by start.
func (c *Client) UpcomingEvents(ctx context.Context, n int) ([]EventSummary, error) {
	if n <= 0 {
		n = 10
	}

	events, err := c.svc.Events.List(c.calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(n)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	summaries := make([]EventSummary, 0, len(events.Items))
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event, c.loc))
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Start.Before(summaries[j].Start)
	})
	return summaries, nil
}

// CreateEvent creates a timed event.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*EventSummary, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("event summary is required")
	}
	if !input.Start.Before(input.End) {
		return nil, fmt.Errorf("event start must be before end")
	}

	timeZone := input.TimeZone
	if timeZone == "" {
		timeZone = input.Start.Location().String()
		if timeZone == "Local" {
			timeZone = "UTC"
		}
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		EventType:   input.EventType,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: timeZone,
		},
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created, c.loc)
	return &summary, nil
}
