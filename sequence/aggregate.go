package sequence

import (
	"cmp"
	"math"

	"github.com/go-softwarelab/common/pkg/optional"

	"github.com/kbukum/seqkit/pipeline"
)

// Number is the element constraint of Sum and Average.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Contains reports whether elem occurs in s. It stops at the first match.
func Contains[T comparable](s *Sequence[T], elem T) (bool, error) {
	i, err := IndexOf(s, elem)
	return i >= 0, err
}

// IndexOf returns the index of the first occurrence of elem, or -1.
func IndexOf[T comparable](s *Sequence[T], elem T) (int, error) {
	return s.IndexOfFirst(func(v T) bool { return v == elem })
}

// ToSet collects the elements into a set. When into is given the elements
// are added to it and it is returned.
func ToSet[T comparable](s *Sequence[T], into ...map[T]struct{}) (map[T]struct{}, error) {
	var set map[T]struct{}
	if len(into) > 0 && into[0] != nil {
		set = into[0]
	} else {
		set = make(map[T]struct{})
	}
	err := s.ForEach(func(v T) { set[v] = struct{}{} })
	return set, err
}

// Sum adds up the elements.
func Sum[T Number](s *Sequence[T]) (T, error) {
	return SumBy(s, func(v T) T { return v })
}

// SumBy adds up selector(element) over the elements.
func SumBy[T any, N Number](s *Sequence[T], selector func(T) N) (N, error) {
	return Fold(s, N(0), func(acc N, v T) N { return acc + selector(v) })
}

// Average returns the arithmetic mean of the elements, or NaN when s is empty.
func Average[T Number](s *Sequence[T]) (float64, error) {
	var sum float64
	count := 0
	err := s.ForEach(func(v T) {
		sum += float64(v)
		count++
	})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return math.NaN(), nil
	}
	return sum / float64(count), nil
}

// Max returns the greatest element. Ties keep the earliest element.
func Max[T cmp.Ordered](s *Sequence[T]) (optional.Value[T], error) {
	return s.MaxWith(cmp.Compare[T])
}

// Min returns the smallest element. Ties keep the earliest element.
func Min[T cmp.Ordered](s *Sequence[T]) (optional.Value[T], error) {
	return s.MinWith(cmp.Compare[T])
}

// MaxBy returns the element with the greatest selector value. Ties keep the
// earliest element.
func MaxBy[T any, K cmp.Ordered](s *Sequence[T], selector func(T) K) (optional.Value[T], error) {
	return bestBy(s, selector, func(candidate, current K) bool { return candidate > current })
}

// MinBy returns the element with the smallest selector value. Ties keep the
// earliest element.
func MinBy[T any, K cmp.Ordered](s *Sequence[T], selector func(T) K) (optional.Value[T], error) {
	return bestBy(s, selector, func(candidate, current K) bool { return candidate < current })
}

// Fold accumulates the elements into initial with fn. On error the zero R is
// returned.
func Fold[T, R any](s *Sequence[T], initial R, fn func(acc R, v T) R) (R, error) {
	acc, _, err := pipeline.Reduce(pipeline.From(s.iter()), initial, fn).Iter(s.ctx).Next(s.ctx)
	return acc, err
}

// FoldIndexed is Fold with the index of v passed to fn.
func FoldIndexed[T, R any](s *Sequence[T], initial R, fn func(index int, acc R, v T) R) (R, error) {
	acc := initial
	err := s.ForEachIndexed(func(i int, v T) { acc = fn(i, acc, v) })
	return acc, err
}

// bestBy evaluates selector once per element.
func bestBy[T any, K cmp.Ordered](s *Sequence[T], selector func(T) K, better func(candidate, current K) bool) (optional.Value[T], error) {
	var (
		best    T
		bestKey K
		found   bool
	)
	err := s.ForEach(func(v T) {
		k := selector(v)
		if !found || better(k, bestKey) {
			best, bestKey, found = v, k, true
		}
	})
	if err != nil {
		return optional.Empty[T](), err
	}
	return present(best, found), nil
}
