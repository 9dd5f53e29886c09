package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/seqkit/errors"
)

// recordSpans installs a recording tracer provider for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func manualMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	return metrics, reader
}

// counterTotal sums every data point of the named int64 counter.
func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s has data %T, want Sum[int64]", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{2.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{-1, sdktrace.NeverSample().Description()},
		{0.5, sdktrace.TraceIDRatioBased(0.5).Description()},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.rate), func(t *testing.T) {
			if got := sampler(tc.rate).Description(); got != tc.want {
				t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
			}
		})
	}
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRunStart(ctx, "stage")
	metrics.RecordElement(ctx, "stage")
	metrics.RecordRunEnd(ctx, "stage", StatusOK, 100*time.Millisecond)
	metrics.RecordError(ctx, "stage", "INVALID_ARGUMENT")
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var metrics *Metrics
	ctx := context.Background()
	metrics.RecordRunStart(ctx, "stage")
	metrics.RecordElement(ctx, "stage")
	metrics.RecordRunEnd(ctx, "stage", StatusOK, time.Millisecond)
	metrics.RecordError(ctx, "stage", "x")
}

func TestMetricsRecorded(t *testing.T) {
	metrics, reader := manualMetrics(t)
	ctx := context.Background()

	metrics.RecordRunStart(ctx, "orders")
	metrics.RecordElement(ctx, "orders")
	metrics.RecordElement(ctx, "orders")
	metrics.RecordError(ctx, "orders", "NOT_FOUND")
	metrics.RecordRunEnd(ctx, "orders", StatusError, 10*time.Millisecond)

	if got := counterTotal(t, reader, "sequence.elements"); got != 2 {
		t.Errorf("sequence.elements = %d, want 2", got)
	}
	if got := counterTotal(t, reader, "sequence.runs"); got != 1 {
		t.Errorf("sequence.runs = %d, want 1", got)
	}
	if got := counterTotal(t, reader, "sequence.errors"); got != 1 {
		t.Errorf("sequence.errors = %d, want 1", got)
	}
	if got := counterTotal(t, reader, "sequence.runs.active"); got != 0 {
		t.Errorf("sequence.runs.active = %d, want 0", got)
	}
}

func TestRunSuccess(t *testing.T) {
	recorder := recordSpans(t)
	metrics, reader := manualMetrics(t)

	ctx, run := StartRun(context.Background(), "orders", metrics)
	if run.ID == "" {
		t.Fatal("expected a run id")
	}
	if RunFromContext(ctx) != run {
		t.Fatal("expected run in context")
	}
	run.Element(ctx)
	run.Element(ctx)
	run.Element(ctx)
	run.End(ctx, nil)
	run.End(ctx, fmt.Errorf("ignored"))

	if !run.Ended() {
		t.Error("expected run to be ended")
	}
	if run.Elements != 3 {
		t.Errorf("Elements = %d, want 3", run.Elements)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != SpanSequenceRun {
		t.Errorf("span name = %q, want %q", span.Name(), SpanSequenceRun)
	}
	if v, _ := spanAttr(span, AttrStage); v.AsString() != "orders" {
		t.Errorf("%s = %q, want orders", AttrStage, v.AsString())
	}
	if v, _ := spanAttr(span, AttrRunID); v.AsString() != run.ID {
		t.Errorf("%s = %q, want %q", AttrRunID, v.AsString(), run.ID)
	}
	if v, _ := spanAttr(span, AttrElements); v.AsInt64() != 3 {
		t.Errorf("%s = %d, want 3", AttrElements, v.AsInt64())
	}
	if v, _ := spanAttr(span, AttrStatus); v.AsString() != StatusOK {
		t.Errorf("%s = %q, want ok", AttrStatus, v.AsString())
	}
	if span.Status().Code == codes.Error {
		t.Error("expected span without error status")
	}

	if got := counterTotal(t, reader, "sequence.elements"); got != 3 {
		t.Errorf("sequence.elements = %d, want 3", got)
	}
	if got := counterTotal(t, reader, "sequence.runs"); got != 1 {
		t.Errorf("sequence.runs = %d, want 1", got)
	}
}

func TestRunError(t *testing.T) {
	recorder := recordSpans(t)
	metrics, reader := manualMetrics(t)

	ctx, run := StartRun(context.Background(), "lookup", metrics)
	run.End(ctx, errors.NotFound("first"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	span := spans[0]
	if span.Status().Code != codes.Error {
		t.Errorf("span status = %v, want error", span.Status().Code)
	}
	if v, _ := spanAttr(span, AttrErrorType); v.AsString() != string(errors.ErrCodeNotFound) {
		t.Errorf("%s = %q, want NOT_FOUND", AttrErrorType, v.AsString())
	}
	if v, _ := spanAttr(span, AttrStatus); v.AsString() != StatusError {
		t.Errorf("%s = %q, want error", AttrStatus, v.AsString())
	}
	if got := counterTotal(t, reader, "sequence.errors"); got != 1 {
		t.Errorf("sequence.errors = %d, want 1", got)
	}
}

func TestRunNilMetrics(t *testing.T) {
	ctx, run := StartRun(context.Background(), "stage", nil)
	run.Element(ctx)
	run.End(ctx, nil)
	if run.Elements != 1 {
		t.Errorf("Elements = %d, want 1", run.Elements)
	}
}

func TestRunFromContextNotSet(t *testing.T) {
	if RunFromContext(context.Background()) != nil {
		t.Error("expected nil run")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, StatusOK},
		{"canceled", context.Canceled, StatusCancelled},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), StatusCancelled},
		{"other", fmt.Errorf("boom"), StatusError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Status(tc.err); got != tc.want {
				t.Errorf("Status() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorType(t *testing.T) {
	if got := ErrorType(errors.OutOfBounds(3)); got != "OUT_OF_BOUNDS" {
		t.Errorf("ErrorType() = %q, want OUT_OF_BOUNDS", got)
	}
	if got := ErrorType(fmt.Errorf("plain")); got != "unknown" {
		t.Errorf("ErrorType() = %q, want unknown", got)
	}
}

func TestTracer(t *testing.T) {
	if Tracer("test-tracer") == nil {
		t.Fatal("expected non-nil tracer")
	}
}

func TestMeter(t *testing.T) {
	if Meter("test-meter") == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestSetSpanAttribute(t *testing.T) {
	recorder := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	span.End()

	ended := recorder.Ended()[0]
	if v, ok := spanAttr(ended, "int-key"); !ok || v.AsInt64() != 42 {
		t.Errorf("int-key = %v, want 42", v.AsInt64())
	}
	if _, ok := spanAttr(ended, "unsupported-key"); ok {
		t.Error("expected unsupported attribute to be ignored")
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
}

func TestSetSpanError(t *testing.T) {
	recorder := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "test-error")
	SetSpanError(ctx, fmt.Errorf("test error"))
	span.End()

	if got := recorder.Ended()[0].Status().Code; got != codes.Error {
		t.Errorf("status = %v, want error", got)
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(context.Background(), fmt.Errorf("no span error"))
}

func TestInitTracer(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	tp, err := InitTracer(context.Background(), DefaultTracerConfig("test-service"))
	if err != nil {
		t.Skipf("InitTracer failed (resource schema conflict): %v", err)
	}
	defer tp.Shutdown(context.Background())
}

func TestInitMeter(t *testing.T) {
	previous := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	cfg := DefaultMeterConfig("test-service")
	cfg.Insecure = false
	cfg.Interval = 0
	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Skipf("InitMeter failed (resource schema conflict): %v", err)
	}
	defer mp.Shutdown(context.Background())
}
