package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/seqkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// Enabled turns on the OTLP exporter when settings are applied.
	Enabled bool `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	// ServiceName is reported as service.name on every metric.
	ServiceName string `yaml:"service_name" mapstructure:"service_name" json:"service_name"`
	// ServiceVersion is reported as service.version.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version" json:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment" json:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
	// Insecure allows plain HTTP (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure" json:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" json:"interval" validate:"gte=0"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by instrumented sequences.
// A nil *Metrics records nothing.
type Metrics struct {
	elementTotal metric.Int64Counter
	runTotal     metric.Int64Counter
	runDuration  metric.Float64Histogram
	runActive    metric.Int64UpDownCounter
	errorTotal   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	elementTotal, err := meter.Int64Counter("sequence.elements",
		metric.WithDescription("Total number of elements yielded by instrumented stages"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sequence.elements counter: %w", err)
	}

	runTotal, err := meter.Int64Counter("sequence.runs",
		metric.WithDescription("Total number of completed runs by stage and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sequence.runs counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("sequence.run.duration",
		metric.WithDescription("Duration of runs from first pull to end in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sequence.run.duration histogram: %w", err)
	}

	runActive, err := meter.Int64UpDownCounter("sequence.runs.active",
		metric.WithDescription("Number of runs that have started and not ended"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sequence.runs.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("sequence.errors",
		metric.WithDescription("Total errors by stage and type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sequence.errors counter: %w", err)
	}

	return &Metrics{
		elementTotal: elementTotal,
		runTotal:     runTotal,
		runDuration:  runDuration,
		runActive:    runActive,
		errorTotal:   errorTotal,
	}, nil
}

// RecordRunStart increments the active run count.
func (m *Metrics) RecordRunStart(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.runActive.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordElement counts one element yielded by stage.
func (m *Metrics) RecordElement(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.elementTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRunEnd decrements active runs and records the completed run.
func (m *Metrics) RecordRunEnd(ctx context.Context, stage, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runActive.Add(ctx, -1, metric.WithAttributes(attribute.String("stage", stage)))
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// RecordError records an error by stage and type.
func (m *Metrics) RecordError(ctx context.Context, stage, errType string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("type", errType),
	))
}
