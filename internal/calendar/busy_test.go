package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/timewise/internal/availability"
)

func TestBusyIntervals(t *testing.T) {
	nine := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)

	events := []EventSummary{
		{Summary: "ok", Start: nine, End: nine.Add(time.Hour)},
		{Summary: "no times"},
		{Summary: "inverted", Start: nine, End: nine.Add(-time.Hour)},
		{Summary: "zero length", Start: nine, End: nine},
		{Summary: "all day", Start: nine.Add(-9 * time.Hour), End: nine.Add(15 * time.Hour), AllDay: true},
	}

	tests := []struct {
		name       string
		allDayBusy bool
		want       []availability.TimeRange
	}{
		{
			name: "all-day events are free",
			want: []availability.TimeRange{{Start: nine, End: nine.Add(time.Hour)}},
		},
		{
			name:       "all-day events are busy",
			allDayBusy: true,
			want: []availability.TimeRange{
				{Start: nine, End: nine.Add(time.Hour)},
				{Start: nine.Add(-9 * time.Hour), End: nine.Add(15 * time.Hour)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusyIntervals(events, tt.allDayBusy))
		})
	}
}

func TestBusyReader_AllDayEventDoesNotBlockDay(t *testing.T) {
	// Tuesday marked as working from home.
	day := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []EventSummary{{Summary: "WFH", Start: day, End: day.AddDate(0, 0, 1), AllDay: true}}}
	req := availability.SlotRequest{
		Duration: time.Hour,
		Range:    availability.TimeRange{Start: day.Add(9 * time.Hour), End: day.Add(12 * time.Hour)},
	}

	slots, err := availability.NewEngine(BusyReader(src, false), availability.WithLocation(time.UTC)).
		FindAvailableSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, slots, 5)

	slots, err = availability.NewEngine(BusyReader(src, true), availability.WithLocation(time.UTC)).
		FindAvailableSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestBusyReader(t *testing.T) {
	nine := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []EventSummary{{Start: nine, End: nine.Add(30 * time.Minute)}}}

	busy, err := BusyReader(src, false).ListBusyIntervals(context.Background(), nine, nine.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, busy, 1)

	src.err = errors.New("offline")
	_, err = BusyReader(src, false).ListBusyIntervals(context.Background(), nine, nine.Add(time.Hour))
	assert.ErrorIs(t, err, src.err)
}

func TestBusyReader_DrivesEngine(t *testing.T) {
	// Tuesday with a meeting from 10:00 to 11:00.
	ten := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []EventSummary{{Summary: "Review", Start: ten, End: ten.Add(time.Hour)}}}
	engine := availability.NewEngine(BusyReader(src, false), availability.WithLocation(time.UTC))

	slots, err := engine.FindAvailableSlots(context.Background(), availability.SlotRequest{
		Duration: time.Hour,
		Range:    availability.TimeRange{Start: ten.Add(-time.Hour), End: ten.Add(2 * time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, ten.Add(-time.Hour), slots[0].Start)
	assert.Equal(t, ten.Add(time.Hour), slots[1].Start)
}
