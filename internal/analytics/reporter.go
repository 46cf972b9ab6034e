package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/teemow/timewise/internal/calendar"
	"github.com/teemow/timewise/internal/logging"
)

// Work hours used for the share of time spent in meetings.
const (
	WeeklyWorkHours  = 40
	MonthlyWorkHours = 160
)

// Reporter builds analytics from events read through an EventSource.
type Reporter struct {
	source calendar.EventSource
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLocation sets the time zone for day and week boundaries.
func WithLocation(loc *time.Location) Option {
	return func(r *Reporter) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReporter creates a Reporter.
func NewReporter(source calendar.EventSource, opts ...Option) *Reporter {
	r := &Reporter{
		source: source,
		loc:    time.Local,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.WithOperation(r.logger, "analytics")
	return r
}

// meetings returns the timed events in [start, end).
func (r *Reporter) meetings(ctx context.Context, start, end time.Time) ([]calendar.EventSummary, error) {
	events, err := r.source.EventsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	out := events[:0:0]
	for _, ev := range events {
		if ev.AllDay {
			continue
		}
		out = append(out, ev)
	}
	r.logger.Debug("loaded meetings", logging.Range(start, end), slog.Int("count", len(out)))
	return out, nil
}

// weekStart returns Monday 00:00 of the week containing t.
func (r *Reporter) weekStart(t time.Time) time.Time {
	t = t.In(r.loc)
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, r.loc)
}

func (r *Reporter) monthStart(t time.Time) time.Time {
	t = t.In(r.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, r.loc)
}

func minutes(ev calendar.EventSummary) int {
	d := ev.Duration()
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
