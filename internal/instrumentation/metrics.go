package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrSource    = "source"
	attrTool      = "tool"
	attrAccount   = "account"
)

// Metrics records timewise metrics. The zero value is a valid no-op recorder.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	calendarFetchTotal    metric.Int64Counter
	calendarFetchDuration metric.Float64Histogram
	calendarEventsFetched metric.Int64Histogram

	slotsEvaluated metric.Int64Histogram

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	detailedLabels bool
}

// NewMetrics creates all instruments on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	var err error

	if m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	if m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	); err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	if m.calendarFetchTotal, err = meter.Int64Counter(
		"calendar_fetch_total",
		metric.WithDescription("Total number of calendar source operations"),
		metric.WithUnit("{operation}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create calendar_fetch_total counter: %w", err)
	}

	if m.calendarFetchDuration, err = meter.Float64Histogram(
		"calendar_fetch_duration_seconds",
		metric.WithDescription("Calendar source operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	); err != nil {
		return nil, fmt.Errorf("failed to create calendar_fetch_duration_seconds histogram: %w", err)
	}

	if m.calendarEventsFetched, err = meter.Int64Histogram(
		"calendar_events_fetched",
		metric.WithDescription("Number of events returned per calendar fetch"),
		metric.WithUnit("{event}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 25, 50, 100, 250, 500),
	); err != nil {
		return nil, fmt.Errorf("failed to create calendar_events_fetched histogram: %w", err)
	}

	if m.slotsEvaluated, err = meter.Int64Histogram(
		"availability_slots_evaluated",
		metric.WithDescription("Number of candidate slots scored per ranking run"),
		metric.WithUnit("{slot}"),
		metric.WithExplicitBucketBoundaries(0, 5, 10, 25, 50, 100, 200, 500),
	); err != nil {
		return nil, fmt.Errorf("failed to create availability_slots_evaluated histogram: %w", err)
	}

	if m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	if m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	); err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCalendarFetch records one calendar source operation.
//
// Parameters:
//   - source: calendar source (google, ics); other values are reported as unknown
//   - operation: list, create or fetch
//   - status: "success" or "error"
//   - events: number of events returned; ignored for failed operations
func (m *Metrics) RecordCalendarFetch(ctx context.Context, source, operation, status string, events int, duration time.Duration) {
	if m == nil || m.calendarFetchTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrSource, NormalizeSource(source)),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.calendarFetchTotal.Add(ctx, 1, attrs)
	m.calendarFetchDuration.Record(ctx, duration.Seconds(), attrs)
	if status == StatusSuccess {
		m.calendarEventsFetched.Record(ctx, int64(events),
			metric.WithAttributes(attribute.String(attrSource, NormalizeSource(source))))
	}
}

// RecordSlotsEvaluated records the number of candidates scored in one run.
func (m *Metrics) RecordSlotsEvaluated(ctx context.Context, count int) {
	if m == nil || m.slotsEvaluated == nil {
		return
	}
	m.slotsEvaluated.Record(ctx, int64(count))
}

// RecordToolInvocation records an MCP tool invocation. The account label is
// only attached when detailed labels are enabled.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
