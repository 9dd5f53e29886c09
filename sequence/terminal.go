package sequence

import (
	"context"
	"strings"

	"github.com/go-softwarelab/common/pkg/optional"
	"github.com/go-softwarelab/common/pkg/to"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/pipeline"
)

// Terminal operations pull from s until the answer is known and return the
// first source or stage error they encounter. They do not close s: a
// partially consumed sequence can be pulled from again.
//
// Optional predicates default to accepting every element. When several are
// given, an element must satisfy all of them.

// All reports whether every element satisfies pred. It stops at the first failure.
func (s *Sequence[T]) All(pred func(T) bool) (bool, error) {
	for {
		v, ok, err := s.next()
		if err != nil || !ok {
			return err == nil, err
		}
		if !pred(v) {
			return false, nil
		}
	}
}

// Any reports whether some element satisfies the predicates. It stops at the first match.
func (s *Sequence[T]) Any(preds ...func(T) bool) (bool, error) {
	_, found, err := s.find(preds)
	return found, err
}

// None reports whether no element satisfies the predicates.
func (s *Sequence[T]) None(preds ...func(T) bool) (bool, error) {
	_, found, err := s.find(preds)
	if err != nil {
		return false, err
	}
	return !found, nil
}

// Count returns the number of elements that satisfy the predicates.
func (s *Sequence[T]) Count(preds ...func(T) bool) (int, error) {
	pred := predicate(preds)
	n := 0
	for {
		v, ok, err := s.next()
		if err != nil || !ok {
			return n, err
		}
		if pred(v) {
			n++
		}
	}
}

// First returns the first element that satisfies the predicates, or a
// not-found error.
func (s *Sequence[T]) First(preds ...func(T) bool) (T, error) {
	v, found, err := s.find(preds)
	if err == nil && !found {
		err = errors.NotFound("first")
	}
	return v, err
}

// FirstOrNull returns the first element that satisfies the predicates, if any.
func (s *Sequence[T]) FirstOrNull(preds ...func(T) bool) (optional.Value[T], error) {
	v, found, err := s.find(preds)
	return present(v, found), err
}

// Find returns the first element that satisfies pred, if any.
func (s *Sequence[T]) Find(pred func(T) bool) (optional.Value[T], error) {
	return s.FirstOrNull(pred)
}

// Last returns the last element that satisfies the predicates, or a
// not-found error.
func (s *Sequence[T]) Last(preds ...func(T) bool) (T, error) {
	v, found, err := s.findLast(preds)
	if err == nil && !found {
		err = errors.NotFound("last")
	}
	return v, err
}

// LastOrNull returns the last element that satisfies the predicates, if any.
func (s *Sequence[T]) LastOrNull(preds ...func(T) bool) (optional.Value[T], error) {
	v, found, err := s.findLast(preds)
	return present(v, found), err
}

// FindLast returns the last element that satisfies pred, if any.
func (s *Sequence[T]) FindLast(pred func(T) bool) (optional.Value[T], error) {
	return s.LastOrNull(pred)
}

// Single returns the only element that satisfies the predicates. It fails
// with not-found when none does and with ambiguous-result as soon as a
// second one is seen.
func (s *Sequence[T]) Single(preds ...func(T) bool) (T, error) {
	v, count, err := s.single(preds)
	switch {
	case err != nil:
	case count == 0:
		err = errors.NotFound("single")
	case count > 1:
		err = errors.Ambiguous("single")
	}
	return v, err
}

// SingleOrNull returns the only element that satisfies the predicates, or
// an empty value when zero or several do.
func (s *Sequence[T]) SingleOrNull(preds ...func(T) bool) (optional.Value[T], error) {
	v, count, err := s.single(preds)
	return present(v, count == 1), err
}

// ElementAt returns the element at index, or an out-of-bounds error.
func (s *Sequence[T]) ElementAt(index int) (T, error) {
	v, found, err := s.elementAt(index)
	if err == nil && !found {
		err = errors.OutOfBounds(index)
	}
	return v, err
}

// ElementAtOrNull returns the element at index, if the sequence is long enough.
func (s *Sequence[T]) ElementAtOrNull(index int) (optional.Value[T], error) {
	v, found, err := s.elementAt(index)
	return present(v, found), err
}

// ElementAtOrElse returns the element at index, or fallback(index) when the
// sequence is too short.
func (s *Sequence[T]) ElementAtOrElse(index int, fallback func(int) T) (T, error) {
	v, found, err := s.elementAt(index)
	if err == nil && !found {
		v = fallback(index)
	}
	return v, err
}

// IndexOfFirst returns the index of the first element satisfying pred, or -1.
func (s *Sequence[T]) IndexOfFirst(pred func(T) bool) (int, error) {
	for index := 0; ; index++ {
		v, ok, err := s.next()
		if err != nil || !ok {
			return -1, err
		}
		if pred(v) {
			return index, nil
		}
	}
}

// IndexOfLast returns the index of the last element satisfying pred, or -1.
func (s *Sequence[T]) IndexOfLast(pred func(T) bool) (int, error) {
	result := -1
	for index := 0; ; index++ {
		v, ok, err := s.next()
		if err != nil {
			return -1, err
		}
		if !ok {
			return result, nil
		}
		if pred(v) {
			result = index
		}
	}
}

// ForEach calls fn with every element.
func (s *Sequence[T]) ForEach(fn func(T)) error {
	return s.ForEachIndexed(func(_ int, v T) { fn(v) })
}

// ForEachIndexed calls fn with every element and its index.
func (s *Sequence[T]) ForEachIndexed(fn func(int, T)) error {
	index := -1
	return pipeline.Each(s.ctx, s.iter(), func(_ context.Context, v T) error {
		index++
		fn(index, v)
		return nil
	})
}

// ToSlice collects the remaining elements into a new slice.
func (s *Sequence[T]) ToSlice() ([]T, error) {
	result := make([]T, 0)
	for {
		v, ok, err := s.next()
		if err != nil || !ok {
			return result, err
		}
		result = append(result, v)
	}
}

// Reduce folds the elements with fn, seeded with the first element. An
// empty sequence is a not-found error.
func (s *Sequence[T]) Reduce(fn func(acc, v T) T) (T, error) {
	return s.ReduceIndexed(func(_ int, acc, v T) T { return fn(acc, v) })
}

// ReduceIndexed is Reduce with the index of v passed to fn. The first call
// receives index 1.
func (s *Sequence[T]) ReduceIndexed(fn func(index int, acc, v T) T) (T, error) {
	acc, err := s.First()
	if err != nil {
		if errors.IsNotFound(err) {
			err = errors.NotFound("reduce")
		}
		return acc, err
	}
	for index := 1; ; index++ {
		v, ok, err := s.next()
		if err != nil || !ok {
			return acc, err
		}
		acc = fn(index, acc, v)
	}
}

// Chunk splits the elements into slices of size in order; the last may be
// smaller. size < 1 is an invalid-argument error and nothing is read.
func (s *Sequence[T]) Chunk(size int) ([][]T, error) {
	if err := checkChunkSize(size); err != nil {
		return nil, err
	}
	result := make([][]T, 0)
	for {
		v, ok, err := s.next()
		if err != nil || !ok {
			return result, err
		}
		if n := len(result); n == 0 || len(result[n-1]) == size {
			result = append(result, make([]T, 0, size))
		}
		result[len(result)-1] = append(result[len(result)-1], v)
	}
}

// Partition splits the elements into those that satisfy pred and the rest.
func (s *Sequence[T]) Partition(pred func(T) bool) (matched, rest []T, err error) {
	matched, rest = make([]T, 0), make([]T, 0)
	for {
		v, ok, err := s.next()
		if err != nil || !ok {
			return matched, rest, err
		}
		if pred(v) {
			matched = append(matched, v)
		} else {
			rest = append(rest, v)
		}
	}
}

// MaxWith returns the greatest element according to compare. Ties keep the
// earliest element.
func (s *Sequence[T]) MaxWith(compare func(a, b T) int) (optional.Value[T], error) {
	return s.best(func(candidate, current T) bool { return compare(candidate, current) > 0 })
}

// MinWith returns the smallest element according to compare. Ties keep the
// earliest element.
func (s *Sequence[T]) MinWith(compare func(a, b T) int) (optional.Value[T], error) {
	return s.best(func(candidate, current T) bool { return compare(candidate, current) < 0 })
}

// JoinToString formats the elements and joins them with sep.
func (s *Sequence[T]) JoinToString(sep string) (string, error) {
	var b strings.Builder
	for index := 0; ; index++ {
		v, ok, err := s.next()
		if err != nil || !ok {
			return b.String(), err
		}
		if index > 0 {
			b.WriteString(sep)
		}
		b.WriteString(to.String(v))
	}
}

// --- shared scans ---

func (s *Sequence[T]) find(preds []func(T) bool) (T, bool, error) {
	pred := predicate(preds)
	for {
		v, ok, err := s.next()
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		if pred(v) {
			return v, true, nil
		}
	}
}

func (s *Sequence[T]) findLast(preds []func(T) bool) (T, bool, error) {
	pred := predicate(preds)
	var last T
	found := false
	for {
		v, ok, err := s.next()
		if err != nil {
			var zero T
			return zero, false, err
		}
		if !ok {
			return last, found, nil
		}
		if pred(v) {
			last, found = v, true
		}
	}
}

// single returns the match and the match count, capped at 2.
func (s *Sequence[T]) single(preds []func(T) bool) (T, int, error) {
	pred := predicate(preds)
	var result T
	count := 0
	for {
		v, ok, err := s.next()
		if err != nil {
			var zero T
			return zero, 0, err
		}
		if !ok {
			return result, count, nil
		}
		if pred(v) {
			count++
			if count > 1 {
				var zero T
				return zero, count, nil
			}
			result = v
		}
	}
}

func (s *Sequence[T]) elementAt(index int) (T, bool, error) {
	var zero T
	if index < 0 {
		return zero, false, nil
	}
	for i := 0; ; i++ {
		v, ok, err := s.next()
		if err != nil || !ok {
			return zero, false, err
		}
		if i == index {
			return v, true, nil
		}
	}
}

// best keeps the first element and replaces it whenever better reports a
// strictly better candidate.
func (s *Sequence[T]) best(better func(candidate, current T) bool) (optional.Value[T], error) {
	var current T
	found := false
	for {
		v, ok, err := s.next()
		if err != nil {
			return optional.Empty[T](), err
		}
		if !ok {
			return present(current, found), nil
		}
		if !found || better(v, current) {
			current, found = v, true
		}
	}
}

func predicate[T any](preds []func(T) bool) func(T) bool {
	switch len(preds) {
	case 0:
		return func(T) bool { return true }
	case 1:
		return preds[0]
	}
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

func present[T any](v T, ok bool) optional.Value[T] {
	if !ok {
		return optional.Empty[T]()
	}
	return optional.Some(v)
}
