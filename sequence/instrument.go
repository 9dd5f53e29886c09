package sequence

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/pipeline"
)

// Log writes every element passing through at debug level, tagged with name
// and the element index. A nil l logs through the "sequence" component logger.
func (s *Sequence[T]) Log(l *logger.Logger, name string) *Sequence[T] {
	if l == nil {
		l = logger.Get("sequence")
	}
	return step(s, "log", func() func(context.Context, T) (T, pipeline.Verdict, error) {
		index := -1
		return func(ctx context.Context, v T) (T, pipeline.Verdict, error) {
			index++
			if l.Enabled(zerolog.DebugLevel) {
				l.WithContext(ctx).Debug("element", logger.Fields(
					logger.FieldStage, name,
					logger.FieldIndex, index,
					logger.FieldValue, v,
				))
			}
			return v, pipeline.Emit, nil
		}
	})
}

// Instrument traces and counts the elements passing through. The first pull
// starts a run span tagged with name and a fresh run id; the span ends when
// the input is exhausted, fails or is closed. Stages upstream of Instrument
// are pulled with the run context. A nil m records spans only.
func (s *Sequence[T]) Instrument(name string, m *observability.Metrics) *Sequence[T] {
	return stage(s, "instrument", func(_ context.Context, src pipeline.Iterator[T]) pipeline.Iterator[T] {
		return &instrumentIter[T]{source: src, name: name, metrics: m}
	})
}

type instrumentIter[T any] struct {
	source  pipeline.Iterator[T]
	name    string
	metrics *observability.Metrics
	ctx     context.Context
	run     *observability.Run
}

func (it *instrumentIter[T]) Next(ctx context.Context) (T, bool, error) {
	if it.run == nil {
		it.ctx, it.run = observability.StartRun(ctx, it.name, it.metrics)
		it.ctx = logger.ContextWithRunID(it.ctx, it.run.ID)
	}
	v, ok, err := it.source.Next(it.ctx)
	switch {
	case err != nil:
		it.end(err)
	case !ok:
		it.end(nil)
	default:
		it.run.Element(it.ctx)
	}
	return v, ok, err
}

func (it *instrumentIter[T]) Close() error {
	if it.run != nil {
		it.end(nil)
	}
	return it.source.Close()
}

func (it *instrumentIter[T]) end(err error) {
	if it.run.Ended() {
		return
	}
	it.run.End(it.ctx, err)
	log := logger.Get("sequence").WithContext(it.ctx)
	if err != nil {
		log.WithError(err).Warn("run failed", logger.Fields(
			logger.FieldStage, it.name,
			logger.FieldElements, it.run.Elements,
		))
		return
	}
	log.Debug("run completed", logger.DurationFields("instrument", it.run.Duration()), logger.Fields(
		logger.FieldStage, it.name,
		logger.FieldElements, it.run.Elements,
	))
}
