// Package observability provides OpenTelemetry tracing and metrics for
// instrumented sequences.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("my-service"))
//
// Runs:
//
//	ctx, run := observability.StartRun(ctx, "orders", metrics)
//	run.Element(ctx)
//	run.End(ctx, err)
package observability
