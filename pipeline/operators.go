package pipeline

import (
	"context"
)

// Map transforms each value using fn.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return AppendStep(p, "map", func() func(context.Context, I) (O, Verdict, error) {
		return func(ctx context.Context, v I) (O, Verdict, error) {
			out, err := fn(ctx, v)
			return out, Emit, err
		}
	})
}

// FlatMap transforms each value into an iterator and flattens the results.
func FlatMap[I, O any](p *Pipeline[I], fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return Append(p, "flat_map", func(_ context.Context, source Iterator[I]) Iterator[O] {
		return &flatMapIter[I, O]{source: source, fn: fn}
	})
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](p *Pipeline[T], fn func(T) bool) *Pipeline[T] {
	return AppendStep(p, "filter", func() func(context.Context, T) (T, Verdict, error) {
		return func(_ context.Context, v T) (T, Verdict, error) {
			if fn(v) {
				return v, Emit, nil
			}
			return v, Skip, nil
		}
	})
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return AppendStep(p, "tap", func() func(context.Context, T) (T, Verdict, error) {
		return func(ctx context.Context, v T) (T, Verdict, error) {
			return v, Emit, fn(ctx, v)
		}
	})
}

// Reduce accumulates all values into a single result.
// The pipeline yields exactly one value: the final accumulator.
func Reduce[T, R any](p *Pipeline[T], init R, fn func(R, T) R) *Pipeline[R] {
	return Append(p, "reduce", func(_ context.Context, source Iterator[T]) Iterator[R] {
		return &reduceIter[T, R]{source: source, acc: init, fn: fn}
	})
}

// Concat joins pipelines sequentially. The result extends first, so it
// shares first's realization; the rest are realized on their own when
// reached. All values from first are yielded before the second, etc.
func Concat[T any](first *Pipeline[T], rest ...*Pipeline[T]) *Pipeline[T] {
	return Append(first, "concat", func(_ context.Context, source Iterator[T]) Iterator[T] {
		iters := make([]Iterator[any], 0, len(rest)+1)
		iters = append(iters, box(source))
		for _, p := range rest {
			iters = append(iters, p.op.Iterator())
		}
		return unbox[T](&concatIter{iters: iters})
	})
}

// --- Iterator implementations ---

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (Iterator[O], error)
	current Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				var zero O
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero O
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			var zero O
			return zero, false, err
		}
		it.current = inner
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type reduceIter[T, R any] struct {
	source Iterator[T]
	acc    R
	fn     func(R, T) R
	done   bool
}

func (it *reduceIter[T, R]) Next(ctx context.Context) (result R, ok bool, err error) {
	if it.done {
		var zero R
		return zero, false, nil
	}
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			var zero R
			return zero, false, err
		}
		if !ok {
			it.done = true
			return it.acc, true, nil
		}
		it.acc = it.fn(it.acc, val)
	}
}

func (it *reduceIter[T, R]) Close() error { return it.source.Close() }

type concatIter struct {
	iters []Iterator[any]
	index int
}

func (it *concatIter) Next(ctx context.Context) (any, bool, error) {
	for it.index < len(it.iters) {
		val, ok, err := it.iters[it.index].Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return val, true, nil
		}
		it.index++
	}
	return nil, false, nil
}

func (it *concatIter) Close() error {
	var firstErr error
	for _, iter := range it.iters {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
