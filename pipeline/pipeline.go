package pipeline

import "context"

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline is a typed view of an Operation chain.
// No work happens until values are pulled via Iter, Collect, or ForEach.
type Pipeline[T any] struct {
	op *Operation
}

// --- Constructors ---

// From creates a pipeline from an existing Iterator. The iterator is shared:
// the pipeline can be realized once.
func From[T any](iter Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{op: NewOperation("source", func(context.Context, Iterator[any]) Iterator[any] {
		return box(iter)
	})}
}

// FromSlice creates a pipeline from a slice of values. Each realization
// iterates the slice from the start.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{op: NewOperation("slice", func(context.Context, Iterator[any]) Iterator[any] {
		return box[T](&sliceIter[T]{items: items})
	})}
}

// --- Extension ---

// Append adds a general stage that consumes the typed output of p.
// The source handed to work is opened on its first Next.
func Append[T, R any](p *Pipeline[T], name string, work func(ctx context.Context, source Iterator[T]) Iterator[R]) *Pipeline[R] {
	return &Pipeline[R]{op: p.op.Append(name, func(ctx context.Context, previous Iterator[any]) Iterator[any] {
		return box(work(ctx, unbox[T](previous)))
	})}
}

// AppendStep adds an element-wise stage. factory is called once per
// realization and the returned function once per element.
func AppendStep[T, R any](p *Pipeline[T], name string, factory func() func(ctx context.Context, v T) (R, Verdict, error)) *Pipeline[R] {
	return &Pipeline[R]{op: p.op.AppendStep(name, func() Step {
		fn := factory()
		return func(ctx context.Context, v any) (any, Verdict, error) {
			return fn(ctx, cast[T](v))
		}
	})}
}

// Operation returns the terminal stage of the chain.
func (p *Pipeline[T]) Operation() *Operation { return p.op }

// Describe returns the stage names from the source to the terminal stage.
func (p *Pipeline[T]) Describe() []string { return p.op.Describe() }

// Len returns the number of stages appended after the source.
func (p *Pipeline[T]) Len() int { return p.op.Len() }

// --- Terminals ---

// Collect runs the pipeline and returns all values as a slice.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	iter := p.Iter(ctx)
	defer iter.Close()
	var result []T
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ForEach runs the pipeline and calls fn for each value. The first error
// from the pipeline or fn stops the run.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	iter := p.Iter(ctx)
	defer iter.Close()
	return Each(ctx, iter, fn)
}

// Each pulls iter until it is exhausted and calls fn for each value. iter
// is left open.
func Each[T any](ctx context.Context, iter Iterator[T], fn func(context.Context, T) error) error {
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

// Iter realizes the chain and returns its typed Iterator. Nothing is opened
// until the first Next. The caller must Close() it.
func (p *Pipeline[T]) Iter(_ context.Context) Iterator[T] {
	return p.IterIn(NewRealization())
}

// IterIn returns the iterator over p's output within r. Pipelines that
// extend one another and are iterated in the same realization share the
// state of their common stages.
func (p *Pipeline[T]) IterIn(r *Realization) Iterator[T] {
	it := r.stage(p.op)
	it.trace = true
	return unbox[T](it)
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type emptyIter[T any] struct {
	closer interface{ Close() error }
}

func (it *emptyIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (it *emptyIter[T]) Close() error {
	if it.closer != nil {
		return it.closer.Close()
	}
	return nil
}

// boxIter exposes an Iterator[T] as an Iterator[any].
type boxIter[T any] struct {
	source Iterator[T]
}

func (it *boxIter[T]) Next(ctx context.Context) (any, bool, error) {
	v, ok, err := it.source.Next(ctx)
	if !ok {
		return nil, false, err
	}
	return v, true, err
}

func (it *boxIter[T]) Close() error { return it.source.Close() }

// unboxIter exposes an Iterator[any] carrying T values as an Iterator[T].
type unboxIter[T any] struct {
	source Iterator[any]
}

func (it *unboxIter[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := it.source.Next(ctx)
	return cast[T](v), ok, err
}

func (it *unboxIter[T]) Close() error { return it.source.Close() }

func box[T any](it Iterator[T]) Iterator[any] {
	switch it := any(it).(type) {
	case Iterator[any]:
		return it
	case *unboxIter[T]:
		return it.source
	}
	return &boxIter[T]{source: it}
}

func unbox[T any](it Iterator[any]) Iterator[T] {
	switch it := any(it).(type) {
	case Iterator[T]:
		return it
	case *boxIter[T]:
		return it.source
	}
	return &unboxIter[T]{source: it}
}

// cast converts a chain value back to T. A nil interface becomes T's zero value.
func cast[T any](v any) T {
	t, _ := v.(T)
	return t
}
