package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_RecurringWithExdateAndOverride(t *testing.T) {
	events, err := Parse(ics(weeklyStandup...), time.UTC)
	require.NoError(t, err)

	got := Expand(events, utc(1, 0, 0), utc(31, 0, 0))
	require.Len(t, got, 3)

	assert.True(t, got[0].Start.Equal(utc(6, 9, 0)))
	assert.True(t, got[0].End.Equal(utc(6, 10, 0)))
	assert.Equal(t, "standup@example.com_20250106T090000Z", got[0].ID)

	assert.Equal(t, "Team standup (moved)", got[1].Summary)
	assert.True(t, got[1].Start.Equal(utc(20, 14, 0)))

	assert.True(t, got[2].Start.Equal(utc(27, 9, 0)))
	for _, ev := range got {
		assert.Equal(t, "confirmed", ev.Status)
	}
}

func TestExpand_WindowClipping(t *testing.T) {
	events, err := Parse(ics(weeklyStandup...), time.UTC)
	require.NoError(t, err)

	t.Run("occurrence started before the window", func(t *testing.T) {
		got := Expand(events, utc(6, 9, 30), utc(7, 0, 0))
		require.Len(t, got, 1)
		assert.True(t, got[0].Start.Equal(utc(6, 9, 0)))
	})

	t.Run("touching window excludes", func(t *testing.T) {
		got := Expand(events, utc(6, 10, 0), utc(7, 0, 0))
		assert.Empty(t, got)
	})

	t.Run("override moved out of the window", func(t *testing.T) {
		got := Expand(events, utc(20, 8, 0), utc(20, 12, 0))
		assert.Empty(t, got)
	})
}

func TestExpand_SkipsCancelledAndSorts(t *testing.T) {
	events := []Event{
		{UID: "b", Summary: "Later", Start: utc(7, 15, 0), End: utc(7, 16, 0)},
		{UID: "a", Summary: "Earlier", Start: utc(7, 9, 0), End: utc(7, 10, 0)},
		{UID: "c", Summary: "Gone", Status: statusCancelled, Start: utc(7, 11, 0), End: utc(7, 12, 0)},
	}

	got := Expand(events, utc(7, 0, 0), utc(8, 0, 0))
	require.Len(t, got, 2)
	assert.Equal(t, "Earlier", got[0].Summary)
	assert.Equal(t, "Later", got[1].Summary)
}

func TestExpand_AllDayRecurring(t *testing.T) {
	events := []Event{{
		UID:    "gym",
		Start:  utc(6, 0, 0),
		End:    utc(7, 0, 0),
		AllDay: true,
		RRule:  "FREQ=DAILY;COUNT=3",
	}}

	got := Expand(events, utc(7, 12, 0), utc(20, 0, 0))
	require.Len(t, got, 2)
	assert.True(t, got[0].Start.Equal(utc(7, 0, 0)))
	assert.True(t, got[0].End.Equal(utc(8, 0, 0)))
	assert.True(t, got[0].AllDay)
}

func TestExpand_BadRuleIsSingleOccurrence(t *testing.T) {
	events := []Event{{UID: "x", Start: utc(7, 9, 0), End: utc(7, 10, 0), RRule: "FREQ=NONSENSE"}}

	got := Expand(events, utc(1, 0, 0), utc(31, 0, 0))
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ID)
}
