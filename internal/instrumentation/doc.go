// Package instrumentation provides OpenTelemetry metrics and tracing for
// timewise.
//
// # Metrics
//
//   - http_requests_total, http_request_duration_seconds: streamable HTTP transport
//   - calendar_fetch_total, calendar_fetch_duration_seconds: calendar source
//     operations by source, operation and status
//   - calendar_events_fetched: events returned per successful fetch
//   - availability_slots_evaluated: candidates scored per ranking run
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: MCP tool calls
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>), calendar source
// calls (calendar.<source>.<operation>) and ranking runs.
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: timewise)
//   - METRICS_DETAILED_LABELS, AUDIT_LOGGING_ENABLED
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordCalendarFetch(ctx, "google", "list", "success", 12, time.Since(start))
package instrumentation
