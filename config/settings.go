package config

import (
	"context"
	stderrors "errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/pipeline"
	"github.com/kbukum/seqkit/validation"
)

// DefaultName is the application name used when none is configured.
const DefaultName = "seqkit"

// EnvPrefix is the prefix of the environment variables Load binds.
const EnvPrefix = "SEQKIT"

// Settings is the configuration of an application built on seqkit.
//
// Example config.yml:
//
//	name: report-builder
//	environment: production
//	logging:
//	  level: debug
//	  format: json
//	pipeline:
//	  max_fused_steps: 8
//	tracing:
//	  enabled: true
//	  endpoint: otel-collector:4318
type Settings struct {
	Name        string                     `yaml:"name" mapstructure:"name" json:"name" validate:"required"`
	Environment string                     `yaml:"environment" mapstructure:"environment" json:"environment" validate:"oneof=development staging production"`
	Version     string                     `yaml:"version" mapstructure:"version" json:"version"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging" json:"logging"`
	Pipeline    pipeline.Settings          `yaml:"pipeline" mapstructure:"pipeline" json:"pipeline"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing" json:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics" json:"metrics"`
}

// ApplyDefaults fills unset fields. Service identity is propagated into the
// tracing and metrics settings.
func (c *Settings) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	c.Logging.ApplyDefaults()

	tracing := observability.DefaultTracerConfig(c.Name)
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = c.Version
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = tracing.Endpoint
		c.Tracing.Insecure = tracing.Insecure
	}
	if c.Tracing.Enabled && c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = tracing.SampleRate
	}

	metrics := observability.DefaultMeterConfig(c.Name)
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
	if c.Metrics.ServiceVersion == "" {
		c.Metrics.ServiceVersion = c.Version
	}
	if c.Metrics.Environment == "" {
		c.Metrics.Environment = c.Environment
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = metrics.Endpoint
		c.Metrics.Insecure = metrics.Insecure
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = metrics.Interval
	}
}

// Validate checks the struct tags of every section.
func (c *Settings) Validate() error {
	return validation.Validate(c)
}

// Load reads the named application's settings from its config file and
// SEQKIT_* environment variables, applies defaults and validates them.
func Load(name string, opts ...LoaderOption) (*Settings, error) {
	opts = append([]LoaderOption{WithEnvPrefix(EnvPrefix)}, opts...)

	cfg := &Settings{Name: name}
	if err := LoadConfig(name, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Runtime is what Apply installed. Shut it down on exit to flush telemetry.
type Runtime struct {
	// Metrics records sequence runs on the installed meter provider, or on
	// the global one when metrics export is disabled.
	Metrics *observability.Metrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Apply installs the settings: the global logger, the pipeline settings and,
// when enabled, the OTLP tracer and meter providers.
func (c *Settings) Apply(ctx context.Context) (*Runtime, error) {
	logger.Init(c.Logging)
	pipeline.Configure(c.Pipeline)

	rt := &Runtime{}
	if c.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, c.Tracing)
		if err != nil {
			return nil, err
		}
		rt.tracerProvider = tp
	}
	if c.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, c.Metrics)
		if err != nil {
			_ = rt.Shutdown(ctx)
			return nil, err
		}
		rt.meterProvider = mp
	}

	metrics, err := observability.NewMetrics(observability.Meter(c.Name))
	if err != nil {
		_ = rt.Shutdown(ctx)
		return nil, err
	}
	rt.Metrics = metrics

	logger.Get("config").Info("settings applied", logger.Fields(
		"name", c.Name,
		"environment", c.Environment,
		"tracing", c.Tracing.Enabled,
		"metrics", c.Metrics.Enabled,
	))
	return rt, nil
}

// Shutdown flushes and stops the providers Apply started.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	if r.tracerProvider != nil {
		errs = append(errs, r.tracerProvider.Shutdown(ctx))
	}
	if r.meterProvider != nil {
		errs = append(errs, r.meterProvider.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
