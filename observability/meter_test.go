package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("unexpected aggregation %T", data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	ctx := context.Background()
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "POST", "/token", 401, 20*time.Millisecond)
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "GET", "/users/:id", 200, 5*time.Millisecond)
	m.RecordAuth(ctx, "login", 401)
	m.RecordAuth(ctx, "resolve", 200)
	m.RecordError(ctx, "INTERNAL_ERROR", "http")

	got := collect(t, reader)
	if n := sumOf(t, got["http.server.request.total"]); n != 2 {
		t.Errorf("request total = %d, want 2", n)
	}
	if n := sumOf(t, got["http.server.request.active"]); n != 0 {
		t.Errorf("active requests = %d, want 0", n)
	}
	if n := sumOf(t, got["auth.operation.total"]); n != 2 {
		t.Errorf("auth total = %d, want 2", n)
	}
	if n := sumOf(t, got["error.total"]); n != 1 {
		t.Errorf("error total = %d, want 1", n)
	}
	hist, ok := got["http.server.request.duration"].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 2 {
		t.Errorf("duration histogram = %#v", got["http.server.request.duration"])
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "GET", "/", 200, time.Millisecond)
	m.RecordAuth(ctx, "login", 200)
	m.RecordError(ctx, "INTERNAL_ERROR", "http")
}

func TestNewMetrics_Noop(t *testing.T) {
	if _, err := NewMetrics(noop.NewMeterProvider().Meter("test")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if DefaultMetrics() == nil {
		t.Error("expected default metrics on the global meter")
	}
}

func TestInitMeter_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitMeter(context.Background(), MeterConfig{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown returned %v", err)
	}
}

func TestMeterConfig_Defaults(t *testing.T) {
	cfg := MeterConfig{}
	cfg.ApplyDefaults()
	if cfg.Interval != 15*time.Second || cfg.Enabled() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
