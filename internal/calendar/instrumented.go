package calendar

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/timewise/internal/instrumentation"
	"github.com/teemow/timewise/internal/logging"
)

// InstrumentedSource records metrics, spans and debug logs around an
// EventSource and, when the wrapped source supports it, an EventWriter.
type InstrumentedSource struct {
	src     EventSource
	source  string
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewInstrumentedSource wraps src. source names the backend (google, ics).
// metrics may be nil.
func NewInstrumentedSource(src EventSource, source string, metrics *instrumentation.Metrics, logger *slog.Logger) *InstrumentedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedSource{
		src:     src,
		source:  source,
		metrics: metrics,
		logger:  logging.WithSource(logger, source),
	}
}

// EventsInRange implements EventSource.
func (s *InstrumentedSource) EventsInRange(ctx context.Context, start, end time.Time) ([]EventSummary, error) {
	ctx, span := instrumentation.StartCalendarSpan(ctx, s.source, instrumentation.OperationList)
	defer span.End()

	began := time.Now()
	events, err := s.src.EventsInRange(ctx, start, end)
	duration := time.Since(began)

	s.metrics.RecordCalendarFetch(ctx, s.source, instrumentation.OperationList, instrumentation.StatusFor(err), len(events), duration)

	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logger.Warn("calendar fetch failed",
			logging.Operation("calendar.events_in_range"),
			logging.Range(start, end),
			logging.Err(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrEvents, len(events)))
	instrumentation.SetSpanSuccess(span)
	s.logger.Debug("fetched events",
		logging.Operation("calendar.events_in_range"),
		logging.Range(start, end),
		slog.Int("events", len(events)),
		slog.Duration(logging.KeyDuration, duration))
	return events, nil
}

// Upcoming returns the next n events of the wrapped source. See Upcoming.
func (s *InstrumentedSource) Upcoming(ctx context.Context, now time.Time, n int) ([]EventSummary, error) {
	ctx, span := instrumentation.StartCalendarSpan(ctx, s.source, instrumentation.OperationList)
	defer span.End()

	began := time.Now()
	events, err := Upcoming(ctx, s.src, now, n)
	s.metrics.RecordCalendarFetch(ctx, s.source, instrumentation.OperationList, instrumentation.StatusFor(err), len(events), time.Since(began))

	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logger.Warn("listing upcoming events failed",
			logging.Operation("calendar.upcoming"),
			logging.Err(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrEvents, len(events)))
	instrumentation.SetSpanSuccess(span)
	return events, nil
}

// CreateEvent implements EventWriter. It fails with ErrReadOnly when the
// wrapped source cannot write.
func (s *InstrumentedSource) CreateEvent(ctx context.Context, input EventInput) (*EventSummary, error) {
	writer, ok := s.src.(EventWriter)
	if !ok {
		return nil, ErrReadOnly
	}

	ctx, span := instrumentation.StartCalendarSpan(ctx, s.source, instrumentation.OperationCreate)
	defer span.End()

	began := time.Now()
	created, err := writer.CreateEvent(ctx, input)
	s.metrics.RecordCalendarFetch(ctx, s.source, instrumentation.OperationCreate, instrumentation.StatusFor(err), 1, time.Since(began))

	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logger.Warn("calendar event creation failed",
			logging.Operation("calendar.create_event"),
			logging.Err(err))
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	s.logger.Info("created event",
		logging.Operation("calendar.create_event"),
		logging.Range(created.Start, created.End))
	return created, nil
}
