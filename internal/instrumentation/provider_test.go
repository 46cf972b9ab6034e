package instrumentation

import (
	"context"
	"testing"
	"time"
)

func testConfig(metricsExporter, tracingExporter string) Config {
	return Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: metricsExporter,
		TracingExporter: tracingExporter,
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}
	if provider.ServesPrometheus() {
		t.Error("disabled provider must not claim the prometheus registry")
	}

	// No-op recorder must not panic.
	provider.Metrics().RecordCalendarFetch(context.Background(), SourceGoogle, OperationList, StatusSuccess, 3, time.Second)

	if provider.Tracer("test") == nil {
		t.Error("expected no-op tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name             string
		metricsExporter  string
		tracingExporter  string
		expectPrometheus bool
	}{
		{name: "prometheus", metricsExporter: ExporterPrometheus, tracingExporter: ExporterNone, expectPrometheus: true},
		{name: "default exporters", expectPrometheus: true},
		{name: "stdout", metricsExporter: ExporterStdout, tracingExporter: ExporterStdout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			provider, err := NewProvider(ctx, testConfig(tt.metricsExporter, tt.tracingExporter))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer func() { _ = provider.Shutdown(ctx) }()

			if !provider.Enabled() {
				t.Error("expected provider to be enabled")
			}
			if provider.ServesPrometheus() != tt.expectPrometheus {
				t.Errorf("ServesPrometheus() = %v, want %v", provider.ServesPrometheus(), tt.expectPrometheus)
			}
			if provider.Metrics() == nil {
				t.Error("expected metrics to be non-nil")
			}
		})
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "unknown metrics exporter", config: testConfig("invalid", ExporterNone)},
		{name: "unknown tracing exporter", config: testConfig(ExporterPrometheus, "invalid")},
		{name: "otlp without endpoint", config: testConfig(ExporterPrometheus, ExporterOTLP)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(context.Background(), tt.config); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
