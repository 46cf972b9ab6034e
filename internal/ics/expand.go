package ics

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/teemow/timewise/internal/calendar"
)

// maxOccurrences bounds the expansion of a single recurring event.
const maxOccurrences = 5000

const statusCancelled = "cancelled"

// Expand turns parsed events into the occurrences that overlap [start, end).
// Recurring events are expanded with their RRULE and EXDATE values. An
// instance replaced by a RECURRENCE-ID override is dropped from the series
// and the override is reported in its place; cancelled instances disappear.
// The result is sorted by start time.
func Expand(events []Event, start, end time.Time) []calendar.EventSummary {
	overridden := make(map[string][]time.Time)
	for _, ev := range events {
		if ev.IsOverride {
			overridden[ev.UID] = append(overridden[ev.UID], ev.RecurrenceID)
		}
	}

	var out []calendar.EventSummary
	for _, ev := range events {
		switch {
		case ev.Status == statusCancelled:
			continue
		case ev.IsOverride || ev.RRule == "":
			if overlaps(ev.Start, ev.End, start, end) {
				out = append(out, toSummary(ev, ev.Start, ev.End, ev.UID))
			}
		default:
			out = append(out, expandRecurring(ev, overridden[ev.UID], start, end)...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func expandRecurring(ev Event, overridden []time.Time, start, end time.Time) []calendar.EventSummary {
	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		// Treat an unreadable rule as a single occurrence.
		if overlaps(ev.Start, ev.End, start, end) {
			return []calendar.EventSummary{toSummary(ev, ev.Start, ev.End, ev.UID)}
		}
		return nil
	}
	r.DTStart(ev.Start)

	set := &rrule.Set{}
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex)
	}
	for _, rid := range overridden {
		set.ExDate(rid)
	}

	dur := ev.duration()
	days := int(dur / (24 * time.Hour))

	var out []calendar.EventSummary
	for _, occStart := range set.Between(start.Add(-dur), end, true) {
		occEnd := occStart.Add(dur)
		if ev.AllDay && days > 0 {
			occEnd = occStart.AddDate(0, 0, days)
		}
		if !overlaps(occStart, occEnd, start, end) {
			continue
		}
		id := ev.UID + "_" + occStart.UTC().Format("20060102T150405Z")
		out = append(out, toSummary(ev, occStart, occEnd, id))
		if len(out) >= maxOccurrences {
			break
		}
	}
	return out
}

func toSummary(ev Event, start, end time.Time, id string) calendar.EventSummary {
	status := ev.Status
	if status == "" {
		status = "confirmed"
	}
	return calendar.EventSummary{
		ID:          id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       start,
		End:         end,
		AllDay:      ev.AllDay,
		Organizer:   ev.Organizer,
		Status:      status,
		EventType:   "default",
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aEnd.After(aStart) {
		// Zero-length events count when they fall inside the window.
		return !aStart.Before(bStart) && aStart.Before(bEnd)
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
