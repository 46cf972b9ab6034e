// Package availability finds free time slots in a calendar and ranks them by
// how good they are for focused work.
//
// The engine is split into four parts:
//
//   - TimeRange: a half-open interval with overlap checks
//   - the finder, which walks a date range on a 30-minute grid and keeps the
//     slots that start inside working hours and overlap no busy interval
//   - the scorer, which assigns each slot a productivity score and the list
//     of reasons that produced it
//   - the ranking pipeline, which scores every candidate concurrently and
//     sorts the result by score, keeping chronological order for ties
//
// Busy intervals come from a BusyReader supplied by the caller. The engine
// keeps no state between calls.
//
// Example usage:
//
//	engine := availability.NewEngine(reader, availability.WithLocation(loc))
//	slots, err := engine.FindOptimalSlots(ctx, availability.OptimalRequest{
//	    Duration:  30 * time.Minute,
//	    DaysAhead: 7,
//	    Preferences: availability.Preferences{
//	        AvoidLunchTime:        true,
//	        BufferBetweenMeetings: 15 * time.Minute,
//	    },
//	})
package availability
