package pipeline

import (
	"context"
)

// Take yields at most n values. The source is never pulled past the n-th
// value, and not opened at all when n <= 0.
func Take[T any](p *Pipeline[T], n int) *Pipeline[T] {
	if n <= 0 {
		return Append(p, "take", func(_ context.Context, source Iterator[T]) Iterator[T] {
			return &emptyIter[T]{closer: source}
		})
	}
	return AppendStep(p, "take", func() func(context.Context, T) (T, Verdict, error) {
		taken := 0
		return func(_ context.Context, v T) (T, Verdict, error) {
			taken++
			if taken >= n {
				return v, EmitLast, nil
			}
			return v, Emit, nil
		}
	})
}

// TakeWhile yields values until fn first returns false. The failing value is dropped.
func TakeWhile[T any](p *Pipeline[T], fn func(T) bool) *Pipeline[T] {
	return AppendStep(p, "take_while", func() func(context.Context, T) (T, Verdict, error) {
		return func(_ context.Context, v T) (T, Verdict, error) {
			if fn(v) {
				return v, Emit, nil
			}
			return v, Stop, nil
		}
	})
}

// Drop skips the first n values.
func Drop[T any](p *Pipeline[T], n int) *Pipeline[T] {
	if n <= 0 {
		return p
	}
	return AppendStep(p, "drop", func() func(context.Context, T) (T, Verdict, error) {
		dropped := 0
		return func(_ context.Context, v T) (T, Verdict, error) {
			if dropped < n {
				dropped++
				return v, Skip, nil
			}
			return v, Emit, nil
		}
	})
}

// DropWhile skips values while fn returns true, then yields the rest.
func DropWhile[T any](p *Pipeline[T], fn func(T) bool) *Pipeline[T] {
	return AppendStep(p, "drop_while", func() func(context.Context, T) (T, Verdict, error) {
		dropping := true
		return func(_ context.Context, v T) (T, Verdict, error) {
			if dropping && fn(v) {
				return v, Skip, nil
			}
			dropping = false
			return v, Emit, nil
		}
	})
}
