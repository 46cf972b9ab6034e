package availability

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/timewise/internal/instrumentation"
	"github.com/teemow/timewise/internal/logging"
)

// DefaultConcurrency is the number of candidates scored in parallel.
const DefaultConcurrency = 8

// Engine finds and ranks free slots for one calendar.
type Engine struct {
	reader      BusyReader
	loc         *time.Location
	now         func() time.Time
	concurrency int
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the time zone used for working hours, weekdays and day
// boundaries. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock overrides the clock used by FindOptimalSlots.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithConcurrency limits how many candidates are scored in parallel.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records ranking metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an Engine reading busy intervals from reader.
func NewEngine(reader BusyReader, opts ...Option) *Engine {
	e := &Engine{
		reader:      reader,
		loc:         time.Local,
		now:         time.Now,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the engine's time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// FindOptimalSlots searches [now, now+DaysAhead days] for free slots and
// returns all of them ranked by score. Preferences.PreferredHours doubles as
// the working-hours window; weekends are excluded. Callers truncate the result.
func (e *Engine) FindOptimalSlots(ctx context.Context, req OptimalRequest) ([]ScoredSlot, error) {
	if req.DaysAhead < 0 {
		return nil, invalidRangef("daysAhead must not be negative, got %d", req.DaysAhead)
	}

	ctx, span := instrumentation.StartSpan(ctx, "availability.find_optimal_slots",
		attribute.Int("days_ahead", req.daysAhead()),
		attribute.String("duration", req.Duration.String()))
	defer span.End()

	now := e.now().In(e.loc)
	slotReq := SlotRequest{
		Duration: req.Duration,
		Range: TimeRange{
			Start: now,
			End:   now.AddDate(0, 0, req.daysAhead()),
		},
	}
	if req.Preferences.PreferredHours != nil {
		slotReq.WorkingHours = *req.Preferences.PreferredHours
	}

	slots, err := e.FindAvailableSlots(ctx, slotReq)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	ranked, err := e.Rank(ctx, slots, req.Preferences)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrSlots, len(ranked)))
	instrumentation.SetSpanSuccess(span)
	return ranked, nil
}

// Rank scores every slot and sorts the result by score, highest first. Slots
// with equal scores keep their input order.
func (e *Engine) Rank(ctx context.Context, slots []Slot, prefs Preferences) ([]ScoredSlot, error) {
	start := time.Now()
	scorer := NewScorer(newMemoReader(e.reader), e.loc)
	scored := make([]ScoredSlot, len(slots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, slot := range slots {
		g.Go(func() error {
			result, err := scorer.Score(gctx, slot, prefs)
			if err != nil {
				return err
			}
			scored[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("failed to rank slots",
			logging.Operation("availability.rank"),
			logging.Err(err))
		return nil, err
	}

	e.metrics.RecordSlotsEvaluated(ctx, len(scored))

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	e.logger.Debug("ranked slots",
		logging.Operation("availability.rank"),
		slog.Int("slots", len(scored)),
		slog.Duration(logging.KeyDuration, time.Since(start)))
	return scored, nil
}

// fetchBusy wraps collaborator failures in UpstreamFetchError. Cancellation
// of the caller's context is passed through as is.
func fetchBusy(ctx context.Context, reader BusyReader, start, end time.Time) ([]TimeRange, error) {
	ranges, err := reader.ListBusyIntervals(ctx, start, end)
	if err != nil {
		if ctx.Err() != nil || IsUpstreamFetchError(err) {
			return nil, err
		}
		return nil, &UpstreamFetchError{Start: start, End: end, Err: err}
	}
	return ranges, nil
}
