package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/timewise/internal/availability"
	"github.com/teemow/timewise/internal/calendar"
	"github.com/teemow/timewise/internal/config"
	"github.com/teemow/timewise/internal/ics"
)

type staticSource []calendar.EventSummary

func (s staticSource) EventsInRange(context.Context, time.Time, time.Time) ([]calendar.EventSummary, error) {
	return s, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Timezone:     "UTC",
		WorkingHours: config.HourRange{Start: 9, End: 17},
		Calendar:     config.CalendarConfig{Source: config.SourceGoogle},
	}
}

func TestNewServerContext(t *testing.T) {
	_, err := NewServerContext(context.Background(), nil)
	assert.Error(t, err)

	bad := testConfig()
	bad.Timezone = "Nowhere/Special"
	_, err = NewServerContext(context.Background(), bad)
	assert.Error(t, err)

	sc, err := NewServerContext(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, time.UTC, sc.Location())
	assert.Equal(t, config.SourceGoogle, sc.SourceName())
}

func TestServicesForAccount_CachesPerAccount(t *testing.T) {
	var opened atomic.Int32
	factory := func(_ context.Context, account string) (calendar.EventSource, error) {
		opened.Add(1)
		return staticSource{}, nil
	}

	sc, err := NewServerContext(context.Background(), testConfig(), WithSourceFactory("fake", factory))
	require.NoError(t, err)

	a, err := sc.ServicesForAccount(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAccount, a.Account)
	assert.NotNil(t, a.Engine)
	assert.NotNil(t, a.Reporter)
	assert.NotNil(t, a.Planner)

	again, err := sc.ServicesForAccount(context.Background(), DefaultAccount)
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = sc.ServicesForAccount(context.Background(), "work")
	require.NoError(t, err)

	assert.Equal(t, int32(2), opened.Load())
	assert.Equal(t, []string{"default", "work"}, sc.Accounts())
}

func TestServicesForAccount_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	sc, err := NewServerContext(context.Background(), testConfig(), WithSourceFactory("fake",
		func(context.Context, string) (calendar.EventSource, error) { return nil, boom }))
	require.NoError(t, err)

	_, err = sc.ServicesForAccount(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sc.Accounts())
}

func TestServicesForAccount_GoogleWithoutToken(t *testing.T) {
	cfg := testConfig()
	cfg.Calendar.TokenDir = t.TempDir()

	sc, err := NewServerContext(context.Background(), cfg)
	require.NoError(t, err)

	_, err = sc.ServicesForAccount(context.Background(), "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Google token")
}

func TestServicesForAccount_EngineUsesSource(t *testing.T) {
	now := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)
	src := staticSource{{
		ID:    "busy",
		Start: time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.January, 6, 16, 0, 0, 0, time.UTC),
	}}
	sc, err := NewServerContext(context.Background(), testConfig(),
		WithClock(func() time.Time { return now }),
		WithSourceFactory("fake", func(context.Context, string) (calendar.EventSource, error) { return src, nil }))
	require.NoError(t, err)

	svc, err := sc.ServicesForAccount(context.Background(), "")
	require.NoError(t, err)

	slots, err := svc.Engine.FindAvailableSlots(context.Background(), availability.SlotRequest{
		Duration: time.Hour,
		Range:    availability.TimeRange{Start: now, End: now.Add(10 * time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, time.January, 6, 16, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2025, time.January, 6, 16, 30, 0, 0, time.UTC), slots[1].Start)
}

func TestServicesForAccount_AllDayBusy(t *testing.T) {
	now := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)
	src := staticSource{{
		ID:     "holiday",
		Start:  time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC),
		AllDay: true,
	}}

	tests := []struct {
		name       string
		allDayBusy bool
		wantSlots  int
	}{
		{name: "all-day events are free", wantSlots: 5},
		{name: "all-day events block the day", allDayBusy: true, wantSlots: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Calendar.AllDayBusy = tt.allDayBusy
			sc, err := NewServerContext(context.Background(), cfg,
				WithClock(func() time.Time { return now }),
				WithSourceFactory("fake", func(context.Context, string) (calendar.EventSource, error) { return src, nil }))
			require.NoError(t, err)
			defer func() { _ = sc.Shutdown() }()

			svc, err := sc.ServicesForAccount(context.Background(), "")
			require.NoError(t, err)

			slots, err := svc.Engine.FindAvailableSlots(context.Background(), availability.SlotRequest{
				Duration: time.Hour,
				Range:    availability.TimeRange{Start: now, End: now.Add(4 * time.Hour)},
			})
			require.NoError(t, err)
			assert.Len(t, slots, tt.wantSlots)
		})
	}
}

func TestServerContext_ICSBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Calendar.Source = config.SourceICS
	cfg.ICS.Sources = []ics.Source{{ID: "team", Path: "/does/not/matter.ics"}}

	sc, err := NewServerContext(context.Background(), cfg)
	require.NoError(t, err)

	a, err := sc.ServicesForAccount(context.Background(), "a")
	require.NoError(t, err)
	b, err := sc.ServicesForAccount(context.Background(), "b")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestServerContext_Shutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig(), WithSourceFactory("fake",
		func(context.Context, string) (calendar.EventSource, error) { return staticSource{}, nil }))
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	_, err = sc.ServicesForAccount(context.Background(), "")
	assert.Error(t, err)
}
