// Package analytics summarizes meeting load from a calendar.EventSource:
// productivity patterns over the last 30 days, weekly and monthly reports,
// week-over-week comparison and protected focus time.
//
// All-day events are not meetings and are ignored. Week boundaries are
// Monday 00:00 in the reporter's location.
package analytics
