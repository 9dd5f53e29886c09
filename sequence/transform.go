package sequence

import (
	"cmp"
	"context"
	"slices"

	"github.com/go-softwarelab/common/pkg/types"

	"github.com/kbukum/seqkit/iterable"
	"github.com/kbukum/seqkit/pipeline"
)

// Map transforms every element with fn.
func Map[T, R any](s *Sequence[T], fn func(T) R) *Sequence[R] {
	return step(s, "map", func() func(context.Context, T) (R, pipeline.Verdict, error) {
		return func(_ context.Context, v T) (R, pipeline.Verdict, error) {
			return fn(v), pipeline.Emit, nil
		}
	})
}

// MapIndexed transforms every element with fn(index, element).
func MapIndexed[T, R any](s *Sequence[T], fn func(int, T) R) *Sequence[R] {
	return step(s, "map_indexed", func() func(context.Context, T) (R, pipeline.Verdict, error) {
		index := -1
		return func(_ context.Context, v T) (R, pipeline.Verdict, error) {
			index++
			return fn(index, v), pipeline.Emit, nil
		}
	})
}

// MapNotNull transforms every element with fn and keeps the results fn
// reports as present.
func MapNotNull[T, R any](s *Sequence[T], fn func(T) (R, bool)) *Sequence[R] {
	return step(s, "map_not_null", func() func(context.Context, T) (R, pipeline.Verdict, error) {
		return func(_ context.Context, v T) (R, pipeline.Verdict, error) {
			out, ok := fn(v)
			if !ok {
				return out, pipeline.Skip, nil
			}
			return out, pipeline.Emit, nil
		}
	})
}

// MapErr transforms every element with a fallible fn. The first error is
// returned by the pull that triggers it.
func MapErr[T, R any](s *Sequence[T], fn func(T) (R, error)) *Sequence[R] {
	return derive(s, pipeline.Map(s.source(), func(_ context.Context, v T) (R, error) {
		return fn(v)
	}))
}

// FlatMap replaces every element with the elements of the sequence fn
// returns. A nil sequence contributes nothing.
func FlatMap[T, R any](s *Sequence[T], fn func(T) *Sequence[R]) *Sequence[R] {
	return derive(s, pipeline.FlatMap(s.source(), func(_ context.Context, v T) (pipeline.Iterator[R], error) {
		if inner := fn(v); inner != nil {
			return inner, nil
		}
		return iterable.FromSlice[R](nil), nil
	}))
}

// FlatMapSlice replaces every element with the elements of the slice fn returns.
func FlatMapSlice[T, R any](s *Sequence[T], fn func(T) []R) *Sequence[R] {
	return derive(s, pipeline.FlatMap(s.source(), func(_ context.Context, v T) (pipeline.Iterator[R], error) {
		return iterable.FromSlice(fn(v)), nil
	}))
}

// Flatten expands every iterable element by one level. Strings and byte
// slices are kept whole, as are values that are not iterable.
func Flatten[T any](s *Sequence[T]) *Sequence[any] {
	return derive(s, pipeline.FlatMap(s.source(), func(_ context.Context, v T) (pipeline.Iterator[any], error) {
		if !iterable.IsAtomic(v) {
			if it, ok := iterable.Cursor(v); ok {
				return it, nil
			}
		}
		return iterable.FromSlice([]any{v}), nil
	}))
}

// FlattenSlices concatenates the slices of s.
func FlattenSlices[T any](s *Sequence[[]T]) *Sequence[T] {
	return FlatMapSlice(s, func(items []T) []T { return items })
}

// Zip pairs the elements of a and b in lockstep. It ends with the shorter
// side; a is pulled first, so b is not read past a's end.
func Zip[A, B any](a *Sequence[A], b *Sequence[B]) *Sequence[Pair[A, B]] {
	return ZipWith(a, b, types.NewTuple2[A, B])
}

// ZipWith combines the elements of a and b in lockstep with fn.
func ZipWith[A, B, R any](a *Sequence[A], b *Sequence[B], fn func(A, B) R) *Sequence[R] {
	return stage(a, "zip", func(_ context.Context, src pipeline.Iterator[A]) pipeline.Iterator[R] {
		return &zipIter[A, B, R]{a: src, b: b, fn: fn}
	})
}

// Distinct drops elements equal to an earlier one.
func Distinct[T comparable](s *Sequence[T]) *Sequence[T] {
	return DistinctBy(s, func(v T) T { return v })
}

// DistinctBy drops elements whose key equals the key of an earlier one.
func DistinctBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[T] {
	return step(s, "distinct", func() func(context.Context, T) (T, pipeline.Verdict, error) {
		seen := make(map[K]struct{})
		return func(_ context.Context, v T) (T, pipeline.Verdict, error) {
			k := key(v)
			if _, ok := seen[k]; ok {
				return v, pipeline.Skip, nil
			}
			seen[k] = struct{}{}
			return v, pipeline.Emit, nil
		}
	})
}

// Minus drops every occurrence of elems.
func Minus[T comparable](s *Sequence[T], elems ...T) *Sequence[T] {
	set := make(map[T]struct{}, len(elems))
	for _, e := range elems {
		set[e] = struct{}{}
	}
	return s.FilterNot(func(v T) bool {
		_, ok := set[v]
		return ok
	})
}

// MinusAll drops every element that occurs in other. other is read
// completely on the first pull.
func MinusAll[T comparable](s *Sequence[T], other *Sequence[T]) *Sequence[T] {
	return step(s, "minus", func() func(context.Context, T) (T, pipeline.Verdict, error) {
		var set map[T]struct{}
		return func(_ context.Context, v T) (T, pipeline.Verdict, error) {
			if set == nil {
				var err error
				if set, err = ToSet(other); err != nil {
					return v, pipeline.Stop, err
				}
			}
			if _, ok := set[v]; ok {
				return v, pipeline.Skip, nil
			}
			return v, pipeline.Emit, nil
		}
	})
}

// Sorted yields the elements in ascending order. The whole sequence is
// buffered on the first pull.
func Sorted[T cmp.Ordered](s *Sequence[T]) *Sequence[T] {
	return s.SortedFunc(cmp.Compare[T])
}

// SortedBy yields the elements ordered by key. The whole sequence is
// buffered on the first pull.
func SortedBy[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) *Sequence[T] {
	return s.SortedFunc(func(a, b T) int { return cmp.Compare(key(a), key(b)) })
}

// SortedDescending yields the elements in descending order.
func SortedDescending[T cmp.Ordered](s *Sequence[T]) *Sequence[T] {
	return s.buffered("sorted_descending", func(items []T) []T {
		slices.SortStableFunc(items, func(a, b T) int { return cmp.Compare(b, a) })
		return items
	})
}
