// Package config loads the settings of a seqkit application.
//
// Values come from a YAML file, overridden by environment variables, which
// may in turn come from a .env file. Nested keys are addressed with
// underscores:
//
//	SEQKIT_PIPELINE_MAX_FUSED_STEPS=4
//	SEQKIT_TRACING_ENABLED=true
//
// # Usage
//
//	cfg, err := config.Load("report-builder")
//	if err != nil {
//	    return err
//	}
//	rt, err := cfg.Apply(ctx)
//	if err != nil {
//	    return err
//	}
//	defer rt.Shutdown(context.Background())
//
//	seq := sequence.Of(rows...).Instrument("rows", rt.Metrics)
package config
