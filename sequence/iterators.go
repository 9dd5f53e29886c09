package sequence

import (
	"context"
	"fmt"
	"iter"

	"github.com/kbukum/seqkit/pipeline"
)

// seqIter pulls from a range-over-func iterator, started on the first Next.
type seqIter[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
}

func (it *seqIter[T]) Next(context.Context) (T, bool, error) {
	if it.next == nil {
		it.next, it.stop = iter.Pull(it.seq)
	}
	v, ok := it.next()
	return v, ok, nil
}

func (it *seqIter[T]) Close() error {
	if it.stop != nil {
		it.stop()
	} else {
		it.next = func() (T, bool) {
			var zero T
			return zero, false
		}
	}
	return nil
}

type seq2Iter[T any] struct {
	seq  iter.Seq2[T, error]
	next func() (T, error, bool)
	stop func()
}

func (it *seq2Iter[T]) Next(context.Context) (T, bool, error) {
	if it.next == nil {
		it.next, it.stop = iter.Pull2(it.seq)
	}
	v, err, ok := it.next()
	if !ok || err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

func (it *seq2Iter[T]) Close() error {
	if it.stop != nil {
		it.stop()
	} else {
		it.next = func() (T, error, bool) {
			var zero T
			return zero, nil, false
		}
	}
	return nil
}

type generateIter[T any] struct {
	value   T
	next    func(T) (T, bool)
	started bool
	done    bool
}

func (it *generateIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	if it.started {
		v, ok := it.next(it.value)
		if !ok {
			it.done = true
			return zero, false, nil
		}
		it.value = v
	}
	it.started = true
	return it.value, true, nil
}

func (it *generateIter[T]) Close() error {
	it.done = true
	return nil
}

type rangeIter struct {
	next, end int
}

func (it *rangeIter) Next(context.Context) (int, bool, error) {
	if it.next >= it.end {
		return 0, false, nil
	}
	v := it.next
	it.next++
	return v, true, nil
}

func (it *rangeIter) Close() error {
	it.next = it.end
	return nil
}

// errIter fails once, then reports exhaustion.
type errIter[T any] struct {
	err error
	src interface{ Close() error }
}

func (it *errIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	err := it.err
	it.err = nil
	return zero, false, err
}

func (it *errIter[T]) Close() error { return it.src.Close() }

// bufferIter drains its source on the first pull, lets fill reorder the
// buffer, and yields the result.
type bufferIter[T any] struct {
	source pipeline.Iterator[T]
	fill   func([]T) []T
	items  []T
	index  int
	loaded bool
}

func (it *bufferIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !it.loaded {
		for {
			v, ok, err := it.source.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if !ok {
				break
			}
			it.items = append(it.items, v)
		}
		it.loaded = true
		it.items = it.fill(it.items)
	}
	if it.index >= len(it.items) {
		return zero, false, nil
	}
	v := it.items[it.index]
	it.index++
	return v, true, nil
}

func (it *bufferIter[T]) Close() error { return it.source.Close() }

// windowIter yields sliding windows of size elements, advancing by step.
type windowIter[T any] struct {
	source  pipeline.Iterator[T]
	size    int
	step    int
	partial bool
	buf     []T
	skip    int
	done    bool
}

func (it *windowIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	for !it.done {
		v, ok, err := it.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		if it.skip > 0 {
			it.skip--
			continue
		}
		it.buf = append(it.buf, v)
		if len(it.buf) == it.size {
			return it.advance(), true, nil
		}
	}
	if it.partial && len(it.buf) > 0 {
		return it.advance(), true, nil
	}
	return nil, false, nil
}

// advance returns a copy of the current window and slides the buffer by step.
func (it *windowIter[T]) advance() []T {
	window := append([]T(nil), it.buf...)
	if it.step >= len(it.buf) {
		it.skip = it.step - len(it.buf)
		it.buf = it.buf[:0]
	} else {
		it.buf = append(it.buf[:0], it.buf[it.step:]...)
	}
	return window
}

func (it *windowIter[T]) Close() error { return it.source.Close() }

// zipIter pulls from a first, then from b, and ends as soon as either ends.
type zipIter[A, B, R any] struct {
	a    pipeline.Iterator[A]
	b    pipeline.Iterator[B]
	fn   func(A, B) R
	done bool
}

func (it *zipIter[A, B, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if it.done {
		return zero, false, nil
	}
	a, ok, err := it.a.Next(ctx)
	if err != nil || !ok {
		it.done = err == nil
		return zero, false, err
	}
	b, ok, err := it.b.Next(ctx)
	if err != nil || !ok {
		it.done = err == nil
		return zero, false, err
	}
	return it.fn(a, b), true, nil
}

func (it *zipIter[A, B, R]) Close() error {
	errA := it.a.Close()
	if errB := it.b.Close(); errA == nil {
		return errB
	}
	return errA
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
