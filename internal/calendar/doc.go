// Package calendar provides calendar event sources for timewise.
//
// An EventSource lists the events of one calendar; the Google Calendar
// Client is the read-write implementation and package ics provides a
// read-only one. BusyReader adapts any EventSource to the availability
// engine.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, "default", "primary", provider, creds)
//	if err != nil {
//	    return err
//	}
//	src := calendar.NewInstrumentedSource(client, "google", metrics, logger)
//	engine := availability.NewEngine(calendar.BusyReader(src, false))
package calendar
