package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	client := NewClientWithService(svc, "default", "")
	client.SetLocation(time.UTC)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestToEventSummary(t *testing.T) {
	tests := []struct {
		name     string
		event    *calendar.Event
		expected EventSummary
	}{
		{
			name:     "nil event",
			expected: EventSummary{},
		},
		{
			name: "timed event",
			event: &calendar.Event{
				Id:        "evt1",
				Summary:   "Standup",
				Status:    "confirmed",
				Start:     &calendar.EventDateTime{DateTime: "2025-01-07T09:00:00Z"},
				End:       &calendar.EventDateTime{DateTime: "2025-01-07T09:15:00Z"},
				Organizer: &calendar.EventOrganizer{Email: "lead@example.com"},
				Attendees: []*calendar.EventAttendee{{Email: "a@example.com"}, {Email: "b@example.com"}},
			},
			expected: EventSummary{
				ID:        "evt1",
				Summary:   "Standup",
				Status:    "confirmed",
				Start:     time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC),
				End:       time.Date(2025, 1, 7, 9, 15, 0, 0, time.UTC),
				Organizer: "lead@example.com",
				Attendees: 2,
			},
		},
		{
			name: "all day event",
			event: &calendar.Event{
				Id:      "evt2",
				Summary: "Offsite",
				Start:   &calendar.EventDateTime{Date: "2025-01-08"},
				End:     &calendar.EventDateTime{Date: "2025-01-09"},
			},
			expected: EventSummary{
				ID:      "evt2",
				Summary: "Offsite",
				Start:   time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
				End:     time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC),
				AllDay:  true,
			},
		},
		{
			name: "unparsable times",
			event: &calendar.Event{
				Id:    "evt3",
				Start: &calendar.EventDateTime{DateTime: "tomorrow"},
			},
			expected: EventSummary{ID: "evt3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toEventSummary(tt.event, time.UTC)
			assert.Equal(t, tt.expected.ID, got.ID)
			assert.Equal(t, tt.expected.Summary, got.Summary)
			assert.Equal(t, tt.expected.Organizer, got.Organizer)
			assert.Equal(t, tt.expected.Attendees, got.Attendees)
			assert.Equal(t, tt.expected.AllDay, got.AllDay)
			assert.True(t, tt.expected.Start.Equal(got.Start), "start %s != %s", got.Start, tt.expected.Start)
			assert.True(t, tt.expected.End.Equal(got.End), "end %s != %s", got.End, tt.expected.End)
		})
	}
}

func TestClient_EventsInRange_FollowsPages(t *testing.T) {
	var requests []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		assert.Equal(t, "2025-01-07T00:00:00Z", q.Get("timeMin"))
		requests = append(requests, q.Get("pageToken"))

		switch q.Get("pageToken") {
		case "":
			writeJSON(t, w, map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "1", "summary": "A", "start": map[string]string{"dateTime": "2025-01-07T09:00:00Z"}, "end": map[string]string{"dateTime": "2025-01-07T10:00:00Z"}},
					{"id": "x", "status": "cancelled"},
				},
				"nextPageToken": "page2",
			})
		case "page2":
			writeJSON(t, w, map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "2", "summary": "B", "start": map[string]string{"dateTime": "2025-01-07T13:00:00Z"}, "end": map[string]string{"dateTime": "2025-01-07T14:00:00Z"}},
				},
			})
		default:
			t.Errorf("unexpected page token %q", q.Get("pageToken"))
		}
	})

	start := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	events, err := client.EventsInRange(context.Background(), start, start.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []string{"", "page2"}, requests)
	require.Len(t, events, 2, "cancelled events are dropped")
	assert.Equal(t, "A", events[0].Summary)
	assert.Equal(t, "B", events[1].Summary)
}

func TestClient_EventsInRange_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"rate limit"}}`, http.StatusForbidden)
	})

	start := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	_, err := client.EventsInRange(context.Background(), start, start.Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list events")
}

func TestClient_CreateEvent(t *testing.T) {
	var received calendar.Event
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		received.Id = "created"
		writeJSON(t, w, received)
	})

	start := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)
	created, err := client.CreateEvent(context.Background(), EventInput{
		Summary:   "Focus Time - Do Not Book",
		Location:  "Room 2",
		Start:     start,
		End:       start.Add(2 * time.Hour),
		EventType: "focusTime",
	})
	require.NoError(t, err)

	assert.Equal(t, "created", created.ID)
	assert.Equal(t, "focusTime", received.EventType)
	assert.Equal(t, "Room 2", received.Location)
	assert.Equal(t, "2025-01-07T09:00:00Z", received.Start.DateTime)
	assert.Equal(t, "UTC", received.Start.TimeZone)
	assert.True(t, created.End.Equal(start.Add(2*time.Hour)))
}

func TestClient_CreateEvent_Validation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid input must not reach the API")
	})
	start := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)

	_, err := client.CreateEvent(context.Background(), EventInput{Start: start, End: start.Add(time.Hour)})
	assert.Error(t, err)

	_, err = client.CreateEvent(context.Background(), EventInput{Summary: "x", Start: start, End: start})
	assert.Error(t, err)
}

func TestNewClientWithService_Defaults(t *testing.T) {
	client := NewClientWithService(nil, "work", "")
	assert.Equal(t, "work", client.Account())
	assert.Equal(t, DefaultCalendarID, client.CalendarID())
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), "default", "", nil, googleCreds())
	assert.Error(t, err)
}
