package ics

import (
	"strings"
	"time"
)

func ics(lines ...string) []byte {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//timewise//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR")
	return []byte(strings.Join(all, "\r\n") + "\r\n")
}

func utc(day, hour, minute int) time.Time {
	return time.Date(2025, time.January, day, hour, minute, 0, 0, time.UTC)
}

var weeklyStandup = []string{
	"BEGIN:VEVENT",
	"UID:standup@example.com",
	"SUMMARY:Team standup",
	"DTSTART:20250106T090000Z",
	"DTEND:20250106T100000Z",
	"RRULE:FREQ=WEEKLY;COUNT=4",
	"EXDATE:20250113T090000Z",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:standup@example.com",
	"SUMMARY:Team standup (moved)",
	"RECURRENCE-ID:20250120T090000Z",
	"DTSTART:20250120T140000Z",
	"DTEND:20250120T150000Z",
	"END:VEVENT",
}
