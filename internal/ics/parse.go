package ics

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Event is one VEVENT as read from a feed, before recurrence expansion.
type Event struct {
	UID          string
	Sequence     int
	Summary      string
	Description  string
	Location     string
	Organizer    string
	Status       string
	Start        time.Time
	End          time.Time
	AllDay       bool
	RRule        string
	ExDates      []time.Time
	RecurrenceID time.Time
	IsOverride   bool
}

func (e Event) duration() time.Duration {
	if e.End.After(e.Start) {
		return e.End.Sub(e.Start)
	}
	if e.AllDay {
		return 24 * time.Hour
	}
	return 0
}

// Parse reads every VEVENT in body. Floating times and all-day dates are
// placed in loc. Events without a usable DTSTART are skipped.
func Parse(body []byte, loc *time.Location) ([]Event, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ics: %w", err)
	}

	var out []Event
	for _, ve := range cal.Events() {
		ev, ok := parseEvent(ve, loc)
		if ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

func parseEvent(ve *ical.VEvent, loc *time.Location) (Event, bool) {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return Event{}, false
	}
	start, allDay, err := parseTimeProp(dtStart, loc)
	if err != nil {
		return Event{}, false
	}

	ev := Event{
		UID:         propValue(ve, ical.ComponentPropertyUniqueId),
		Summary:     unescapeText(propValue(ve, ical.ComponentPropertySummary)),
		Description: unescapeText(propValue(ve, ical.ComponentPropertyDescription)),
		Location:    unescapeText(propValue(ve, ical.ComponentPropertyLocation)),
		Organizer:   strings.TrimPrefix(strings.TrimPrefix(propValue(ve, ical.ComponentPropertyOrganizer), "mailto:"), "MAILTO:"),
		Status:      strings.ToLower(propValue(ve, ical.ComponentPropertyStatus)),
		Start:       start,
		AllDay:      allDay,
		RRule:       propValue(ve, ical.ComponentPropertyRrule),
	}
	if seq := propValue(ve, ical.ComponentPropertySequence); seq != "" {
		ev.Sequence, _ = strconv.Atoi(seq)
	}

	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
		if end, _, err := parseTimeProp(dtEnd, loc); err == nil {
			ev.End = end
		}
	}
	if ev.End.IsZero() {
		if allDay {
			ev.End = ev.Start.AddDate(0, 0, 1)
		} else {
			ev.End = ev.Start
		}
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, raw := range strings.Split(p.Value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if t, _, err := parseTimeValue(raw, p.ICalParameters, loc); err == nil {
				ev.ExDates = append(ev.ExDates, t)
			}
		}
	}

	if rid := ve.GetProperty(propRecurrenceID); rid != nil {
		if t, _, err := parseTimeProp(rid, loc); err == nil {
			ev.RecurrenceID = t
			ev.IsOverride = true
		}
	}

	return ev, true
}

const propRecurrenceID ical.ComponentProperty = "RECURRENCE-ID"

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

func parseTimeProp(p *ical.IANAProperty, loc *time.Location) (time.Time, bool, error) {
	return parseTimeValue(strings.TrimSpace(p.Value), p.ICalParameters, loc)
}

// parseTimeValue handles DATE, UTC DATE-TIME, DATE-TIME with TZID and
// floating DATE-TIME values.
func parseTimeValue(raw string, params map[string][]string, loc *time.Location) (time.Time, bool, error) {
	if isDateValue(raw, params) {
		t, err := time.ParseInLocation("20060102", raw, loc)
		return t, true, err
	}
	if strings.HasSuffix(raw, "Z") {
		t, err := time.Parse("20060102T150405Z", raw)
		return t, false, err
	}
	zone := loc
	if tzid := params["TZID"]; len(tzid) > 0 && tzid[0] != "" {
		if l, err := time.LoadLocation(tzid[0]); err == nil {
			zone = l
		}
	}
	t, err := time.ParseInLocation("20060102T150405", raw, zone)
	return t, false, err
}

func isDateValue(raw string, params map[string][]string) bool {
	for _, v := range params["VALUE"] {
		if strings.EqualFold(v, "DATE") {
			return true
		}
	}
	return !strings.Contains(raw, "T")
}

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}
