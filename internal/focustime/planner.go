package focustime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/teemow/timewise/internal/calendar"
	"github.com/teemow/timewise/internal/logging"
)

const (
	// BlockSummary is the title of every created block.
	BlockSummary     = "Focus Time - Do Not Book"
	blockDescription = "Protected time for deep work."

	DefaultWeeksAhead = 4
	MaxWeeksAhead     = 12
)

// ErrInvalidConfig is returned for unusable hours, weekdays or horizons.
var ErrInvalidConfig = errors.New("invalid focus time config")

// Config describes the daily block and the days it repeats on.
type Config struct {
	StartHour  int
	EndHour    int
	DaysOfWeek []time.Weekday
}

// Validate checks 0 <= start < end <= 24 and a non-empty set of weekdays.
func (c Config) Validate() error {
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("%w: hours must satisfy 0 <= start < end <= 24, got %d-%d", ErrInvalidConfig, c.StartHour, c.EndHour)
	}
	if len(c.DaysOfWeek) == 0 {
		return fmt.Errorf("%w: at least one day of week is required", ErrInvalidConfig)
	}
	for _, d := range c.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: day of week %d out of range 0-6", ErrInvalidConfig, d)
		}
	}
	return nil
}

// Result reports what Setup did.
type Result struct {
	Created int                     `json:"created" yaml:"created"`
	Skipped int                     `json:"skipped" yaml:"skipped"`
	Events  []calendar.EventSummary `json:"events,omitempty" yaml:"events,omitempty"`
}

// Planner creates focus blocks where the calendar is still free.
type Planner struct {
	source calendar.EventSource
	writer calendar.EventWriter
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLocation sets the time zone the block hours are read in.
func WithLocation(loc *time.Location) Option {
	return func(p *Planner) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPlanner creates a Planner reading existing events from source and
// creating blocks through writer.
func NewPlanner(source calendar.EventSource, writer calendar.EventWriter, opts ...Option) *Planner {
	p := &Planner{
		source: source,
		writer: writer,
		loc:    time.Local,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.WithOperation(p.logger, "focus_time")
	return p
}

// Blocks lists the block windows for the next weeksAhead weeks, starting
// today. Blocks that already started are left out.
func (p *Planner) Blocks(cfg Config, weeksAhead int) ([]TimeWindow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if weeksAhead == 0 {
		weeksAhead = DefaultWeeksAhead
	}
	if weeksAhead < 1 || weeksAhead > MaxWeeksAhead {
		return nil, fmt.Errorf("%w: weeks ahead must be between 1 and %d, got %d", ErrInvalidConfig, MaxWeeksAhead, weeksAhead)
	}

	now := p.now().In(p.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc)

	days := make([]rrule.Weekday, 0, len(cfg.DaysOfWeek))
	for _, d := range cfg.DaysOfWeek {
		days = append(days, weekdays[d])
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   today,
		Byweekday: days,
		Until:     today.AddDate(0, 0, 7*weeksAhead).Add(-time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build block schedule: %w", err)
	}

	var blocks []TimeWindow
	for _, day := range r.All() {
		start := time.Date(day.Year(), day.Month(), day.Day(), cfg.StartHour, 0, 0, 0, p.loc)
		end := time.Date(day.Year(), day.Month(), day.Day(), cfg.EndHour, 0, 0, 0, p.loc)
		if start.Before(now) {
			continue
		}
		blocks = append(blocks, TimeWindow{Start: start, End: end})
	}
	return blocks, nil
}

// Setup creates a block in every free window. A window with any existing
// event is skipped.
func (p *Planner) Setup(ctx context.Context, cfg Config, weeksAhead int) (*Result, error) {
	blocks, err := p.Blocks(cfg, weeksAhead)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, b := range blocks {
		existing, err := p.source.EventsInRange(ctx, b.Start, b.End)
		if err != nil {
			return res, fmt.Errorf("failed to check %s: %w", b.Start.Format(time.RFC3339), err)
		}
		if len(existing) > 0 {
			p.logger.Debug("skipping focus block, window already has events",
				logging.Range(b.Start, b.End), slog.Int("events", len(existing)))
			res.Skipped++
			continue
		}

		created, err := p.writer.CreateEvent(ctx, calendar.EventInput{
			Summary:     BlockSummary,
			Description: blockDescription,
			Start:       b.Start,
			End:         b.End,
			TimeZone:    zoneName(p.loc),
		})
		if err != nil {
			return res, fmt.Errorf("failed to create focus block: %w", err)
		}
		res.Created++
		res.Events = append(res.Events, *created)
	}

	p.logger.Info("focus time set up", slog.Int("created", res.Created), slog.Int("skipped", res.Skipped))
	return res, nil
}

// TimeWindow is one block.
type TimeWindow struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

var weekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

func zoneName(loc *time.Location) string {
	if name := loc.String(); name != "Local" {
		return name
	}
	return ""
}
