package sequence

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-softwarelab/common/pkg/is"

	"github.com/kbukum/seqkit/iterable"
	"github.com/kbukum/seqkit/pipeline"
	"github.com/kbukum/seqkit/validation"
)

// Filter keeps the elements that satisfy pred.
func (s *Sequence[T]) Filter(pred func(T) bool) *Sequence[T] {
	return derive(s, pipeline.Filter(s.source(), pred))
}

// FilterIndexed keeps the elements for which pred(index, element) holds.
func (s *Sequence[T]) FilterIndexed(pred func(int, T) bool) *Sequence[T] {
	return step(s, "filter_indexed", func() func(context.Context, T) (T, pipeline.Verdict, error) {
		index := -1
		return func(_ context.Context, v T) (T, pipeline.Verdict, error) {
			index++
			if pred(index, v) {
				return v, pipeline.Emit, nil
			}
			return v, pipeline.Skip, nil
		}
	})
}

// FilterNot drops the elements that satisfy pred.
func (s *Sequence[T]) FilterNot(pred func(T) bool) *Sequence[T] {
	return s.Filter(is.Not(pred))
}

// FilterNotNil drops nil pointers, interfaces, maps, slices, channels and funcs.
func (s *Sequence[T]) FilterNotNil() *Sequence[T] {
	return s.Filter(is.NotNil[T])
}

// Take yields at most n elements and never pulls the source past the n-th.
func (s *Sequence[T]) Take(n int) *Sequence[T] {
	if err := checkCount(n); err != nil {
		return failed[T, T](s, "take", err)
	}
	return derive(s, pipeline.Take(s.source(), n))
}

// TakeWhile yields elements until pred first fails.
func (s *Sequence[T]) TakeWhile(pred func(T) bool) *Sequence[T] {
	return derive(s, pipeline.TakeWhile(s.source(), pred))
}

// Drop skips the first n elements.
func (s *Sequence[T]) Drop(n int) *Sequence[T] {
	if err := checkCount(n); err != nil {
		return failed[T, T](s, "drop", err)
	}
	return derive(s, pipeline.Drop(s.source(), n))
}

// DropWhile skips elements while pred holds.
func (s *Sequence[T]) DropWhile(pred func(T) bool) *Sequence[T] {
	return derive(s, pipeline.DropWhile(s.source(), pred))
}

// OnEach calls fn with every element as it passes through.
func (s *Sequence[T]) OnEach(fn func(T)) *Sequence[T] {
	return derive(s, pipeline.Tap(s.source(), func(_ context.Context, v T) error {
		fn(v)
		return nil
	}))
}

// OnEachIndexed calls fn with every element and its index as it passes through.
func (s *Sequence[T]) OnEachIndexed(fn func(int, T)) *Sequence[T] {
	return step(s, "on_each_indexed", func() func(context.Context, T) (T, pipeline.Verdict, error) {
		index := -1
		return func(_ context.Context, v T) (T, pipeline.Verdict, error) {
			index++
			fn(index, v)
			return v, pipeline.Emit, nil
		}
	})
}

// Plus appends elems after the elements of s.
func (s *Sequence[T]) Plus(elems ...T) *Sequence[T] {
	return derive(s, pipeline.Concat(s.source(), pipeline.From(iterable.FromSlice(elems))))
}

// PlusAll appends the elements of other after the elements of s.
func (s *Sequence[T]) PlusAll(other *Sequence[T]) *Sequence[T] {
	return derive(s, pipeline.Concat(s.source(), pipeline.From[T](other)))
}

// Reverse yields the elements in reverse order. The whole sequence is
// buffered on the first pull.
func (s *Sequence[T]) Reverse() *Sequence[T] {
	return s.buffered("reverse", func(items []T) []T {
		slices.Reverse(items)
		return items
	})
}

// SortedFunc yields the elements stably sorted by cmp. The whole sequence is
// buffered on the first pull.
func (s *Sequence[T]) SortedFunc(cmp func(a, b T) int) *Sequence[T] {
	return s.buffered("sorted", func(items []T) []T {
		slices.SortStableFunc(items, cmp)
		return items
	})
}

// DistinctFunc drops elements equal (by eq) to an earlier one. Membership is a
// linear scan over the kept elements; use Distinct or DistinctBy when
// elements or keys are comparable.
func (s *Sequence[T]) DistinctFunc(eq func(a, b T) bool) *Sequence[T] {
	return step(s, "distinct_func", func() func(context.Context, T) (T, pipeline.Verdict, error) {
		var seen []T
		return func(_ context.Context, v T) (T, pipeline.Verdict, error) {
			for _, prev := range seen {
				if eq(prev, v) {
					return v, pipeline.Skip, nil
				}
			}
			seen = append(seen, v)
			return v, pipeline.Emit, nil
		}
	})
}

// Chunked lazily groups elements into slices of size; the last may be smaller.
func Chunked[T any](s *Sequence[T], size int) *Sequence[[]T] {
	if err := checkChunkSize(size); err != nil {
		return failed[T, []T](s, "chunked", err)
	}
	return derive(s, pipeline.Batch(s.source(), size))
}

// Windowed yields sliding windows of size elements, each starting stride
// elements after the previous one. With partial, trailing windows smaller
// than size are yielded too.
func Windowed[T any](s *Sequence[T], size, stride int, partial bool) *Sequence[[]T] {
	if err := validation.New().Min("size", size, 1).Min("step", stride, 1).Err(); err != nil {
		return failed[T, []T](s, "windowed", err)
	}
	return stage(s, "windowed", func(_ context.Context, src pipeline.Iterator[T]) pipeline.Iterator[[]T] {
		return &windowIter[T]{source: src, size: size, step: stride, partial: partial}
	})
}

// WithIndex pairs every element with its index.
func WithIndex[T any](s *Sequence[T]) *Sequence[Indexed[T]] {
	return step(s, "with_index", func() func(context.Context, T) (Indexed[T], pipeline.Verdict, error) {
		index := -1
		return func(_ context.Context, v T) (Indexed[T], pipeline.Verdict, error) {
			index++
			return Indexed[T]{Index: index, Value: v}, pipeline.Emit, nil
		}
	})
}

func (s *Sequence[T]) buffered(name string, fill func([]T) []T) *Sequence[T] {
	return stage(s, name, func(_ context.Context, src pipeline.Iterator[T]) pipeline.Iterator[T] {
		return &bufferIter[T]{source: src, fill: fill}
	})
}

func checkCount(n int) error {
	return validation.New().
		Custom(n >= 0, "n", fmt.Sprintf("requested element count %d is less than zero", n)).
		Err()
}

func checkChunkSize(size int) error {
	return validation.New().
		Custom(size >= 1, "chunkSize", fmt.Sprintf("chunkSize must be > 0 but is %d", size)).
		Err()
}
