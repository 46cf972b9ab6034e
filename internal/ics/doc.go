// Package ics reads ICS (iCalendar) feeds as a read-only event source.
//
// Feeds come from local files or HTTP URLs. HTTP feeds use conditional
// requests and an optional on-disk cache keyed by a hash of the URL, so an
// unreachable server falls back to the last good copy. Recurring events are
// expanded with RRULE, EXDATE and RECURRENCE-ID within the requested window.
package ics
