package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	body := ics(
		"BEGIN:VEVENT",
		"UID:lunch@example.com",
		"SUMMARY:Lunch\\, team",
		"LOCATION:Cafe",
		"ORGANIZER:mailto:boss@example.com",
		"SEQUENCE:2",
		"DTSTART:20250107T120000Z",
		"DTEND:20250107T130000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:holiday@example.com",
		"SUMMARY:Holiday",
		"DTSTART;VALUE=DATE:20250110",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:broken@example.com",
		"SUMMARY:No start",
		"END:VEVENT",
	)

	events, err := Parse(body, time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 2)

	lunch := events[0]
	assert.Equal(t, "lunch@example.com", lunch.UID)
	assert.Equal(t, "Lunch, team", lunch.Summary)
	assert.Equal(t, "Cafe", lunch.Location)
	assert.Equal(t, "boss@example.com", lunch.Organizer)
	assert.Equal(t, 2, lunch.Sequence)
	assert.True(t, lunch.Start.Equal(utc(7, 12, 0)))
	assert.True(t, lunch.End.Equal(utc(7, 13, 0)))
	assert.False(t, lunch.AllDay)

	holiday := events[1]
	assert.True(t, holiday.AllDay)
	assert.True(t, holiday.Start.Equal(utc(10, 0, 0)))
	assert.True(t, holiday.End.Equal(utc(11, 0, 0)), "missing DTEND on a date is one day")
}

func TestParse_FloatingTimesUseLocation(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	body := ics(
		"BEGIN:VEVENT",
		"UID:floating@example.com",
		"DTSTART:20250107T090000",
		"DTEND:20250107T093000",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:allday@example.com",
		"DTSTART;VALUE=DATE:20250108",
		"DTEND;VALUE=DATE:20250109",
		"END:VEVENT",
	)

	events, err := Parse(body, zone)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.True(t, events[0].Start.Equal(utc(7, 7, 0)))
	assert.True(t, events[0].End.Equal(utc(7, 7, 30)))
	assert.True(t, events[1].Start.Equal(utc(7, 22, 0)), "all-day starts at local midnight")
}

func TestParse_RecurrenceFields(t *testing.T) {
	events, err := Parse(ics(weeklyStandup...), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 2)

	base := events[0]
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", base.RRule)
	require.Len(t, base.ExDates, 1)
	assert.True(t, base.ExDates[0].Equal(utc(13, 9, 0)))
	assert.False(t, base.IsOverride)

	override := events[1]
	assert.True(t, override.IsOverride)
	assert.True(t, override.RecurrenceID.Equal(utc(20, 9, 0)))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("not a calendar"), time.UTC)
	assert.Error(t, err)
}

func TestParseTimeValue(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		params map[string][]string
		want   time.Time
		allDay bool
	}{
		{name: "utc", raw: "20250106T090000Z", want: utc(6, 9, 0)},
		{name: "floating", raw: "20250106T090000", want: utc(6, 9, 0)},
		{name: "date", raw: "20250106", want: utc(6, 0, 0), allDay: true},
		{name: "value date", raw: "20250106", params: map[string][]string{"VALUE": {"DATE"}}, want: utc(6, 0, 0), allDay: true},
		{name: "unknown tzid falls back", raw: "20250106T090000", params: map[string][]string{"TZID": {"Nowhere/Special"}}, want: utc(6, 9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, allDay, err := parseTimeValue(tt.raw, tt.params, time.UTC)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s", got)
			assert.Equal(t, tt.allDay, allDay)
		})
	}
}
