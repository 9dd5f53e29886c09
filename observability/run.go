package observability

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/errors"
)

// Run tracks one pass of an instrumented stage, from its first pull to the
// end of its input, an error or Close.
type Run struct {
	Stage     string
	ID        string
	StartTime time.Time
	Elements  int64
	Metrics   *Metrics

	span  trace.Span
	ended bool
}

// StartRun starts the span for stage and records the run start. If metrics
// is nil, metric recording is skipped.
func StartRun(ctx context.Context, stage string, metrics *Metrics) (context.Context, *Run) {
	r := &Run{
		Stage:     stage,
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		Metrics:   metrics,
	}
	ctx, r.span = StartSpan(ctx, SpanSequenceRun, trace.WithAttributes(
		attribute.String(AttrStage, stage),
		attribute.String(AttrRunID, r.ID),
	))
	metrics.RecordRunStart(ctx, stage)
	return WithRun(ctx, r), r
}

// Element counts one element yielded by the run.
func (r *Run) Element(ctx context.Context) {
	r.Elements++
	r.Metrics.RecordElement(ctx, r.Stage)
}

// End ends the span and records the run outcome. Calls after the first are ignored.
func (r *Run) End(ctx context.Context, err error) {
	if r.ended {
		return
	}
	r.ended = true
	duration := time.Since(r.StartTime)
	status := Status(err)

	if err != nil {
		errType := ErrorType(err)
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
		r.span.SetAttributes(
			attribute.String(AttrErrorMessage, err.Error()),
			attribute.String(AttrErrorType, errType),
		)
		r.Metrics.RecordError(ctx, r.Stage, errType)
	}

	r.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrElements, r.Elements),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	r.span.End()

	r.Metrics.RecordRunEnd(ctx, r.Stage, status, duration)
}

// Ended reports whether End has been called.
func (r *Run) Ended() bool { return r.ended }

// Duration returns the elapsed time since the run started.
func (r *Run) Duration() time.Duration {
	return time.Since(r.StartTime)
}

// Status maps a run error to a status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusError
	}
}

// ErrorType returns the seqkit error code of err, or "unknown".
func ErrorType(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return string(code)
	}
	return "unknown"
}

type runContextKey struct{}

// WithRun stores r in the context.
func WithRun(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, runContextKey{}, r)
}

// RunFromContext retrieves the Run from context, or nil.
func RunFromContext(ctx context.Context) *Run {
	if r, ok := ctx.Value(runContextKey{}).(*Run); ok {
		return r
	}
	return nil
}
