package sequence

import (
	"fmt"
	"testing"

	"github.com/go-test/deep"

	"github.com/kbukum/seqkit/errors"
)

func isEven(v int) bool { return v%2 == 0 }

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		xs        []int
		preds     []func(int) bool
		wantAny   bool
		wantNone  bool
		wantCount int
	}{
		{"no predicate counts everything", []int{0, 0, 1}, nil, true, false, 3},
		{"empty", []int{}, nil, false, true, 0},
		{"even", []int{1, 2, 4}, []func(int) bool{isEven}, true, false, 2},
		{"no match", []int{1, 3}, []func(int) bool{isEven}, false, true, 0},
		{"all predicates must hold", []int{2, 4, 6}, []func(int) bool{isEven, func(v int) bool { return v > 3 }}, true, false, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got, err := Of(tc.xs...).Any(tc.preds...); err != nil || got != tc.wantAny {
				t.Errorf("Any() = %v, %v; want %v", got, err, tc.wantAny)
			}
			if got, err := Of(tc.xs...).None(tc.preds...); err != nil || got != tc.wantNone {
				t.Errorf("None() = %v, %v; want %v", got, err, tc.wantNone)
			}
			if got, err := Of(tc.xs...).Count(tc.preds...); err != nil || got != tc.wantCount {
				t.Errorf("Count() = %v, %v; want %v", got, err, tc.wantCount)
			}
		})
	}
}

func TestAll(t *testing.T) {
	src := &countingIter{n: 10}
	ok, err := FromIterator[int](src).All(func(v int) bool { return v < 3 })
	if err != nil || ok {
		t.Errorf("All() = %v, %v; want false", ok, err)
	}
	if src.pulled != 3 {
		t.Errorf("pulled = %d, want 3", src.pulled)
	}
	if ok, _ := Empty[int]().All(isEven); !ok {
		t.Error("All() on empty = false, want true")
	}
}

func TestAny_StopsEarly(t *testing.T) {
	src := &countingIter{n: 10}
	if ok, _ := FromIterator[int](src).Any(isEven); !ok {
		t.Fatal("Any() = false")
	}
	if src.pulled != 2 {
		t.Errorf("pulled = %d, want 2", src.pulled)
	}
}

func TestFirst(t *testing.T) {
	v, err := Of(1, 2, 3, 4).First(isEven)
	if err != nil || v != 2 {
		t.Errorf("First(even) = %d, %v; want 2", v, err)
	}
	v, err = Of(5, 6).First()
	if err != nil || v != 5 {
		t.Errorf("First() = %d, %v; want 5", v, err)
	}
	if _, err := Of(1, 3).First(isEven); !errors.IsNotFound(err) {
		t.Errorf("First() err = %v, want not found", err)
	}
	if _, err := Empty[int]().First(); !errors.IsNotFound(err) {
		t.Errorf("First() on empty err = %v, want not found", err)
	}
}

func TestFirstOrNull_Find(t *testing.T) {
	got, err := Of(1, 2).FirstOrNull(isEven)
	if err != nil || !got.IsPresent() || got.MustGet() != 2 {
		t.Errorf("FirstOrNull(even) = %v, %v", got, err)
	}
	got, _ = Of(1, 3).Find(isEven)
	if got.IsPresent() {
		t.Error("Find() found a value in a sequence without one")
	}
	got, _ = Of(0).FirstOrNull()
	if !got.IsPresent() || got.MustGet() != 0 {
		t.Error("FirstOrNull() treated a zero value as absent")
	}
}

func TestLast(t *testing.T) {
	v, err := Of(1, 2, 3, 4, 5).Last(isEven)
	if err != nil || v != 4 {
		t.Errorf("Last(even) = %d, %v; want 4", v, err)
	}
	if _, err := Empty[int]().Last(); !errors.IsNotFound(err) {
		t.Errorf("Last() err = %v, want not found", err)
	}
	got, _ := Of(1, 2, 3).LastOrNull()
	if got.OrZeroValue() != 3 {
		t.Errorf("LastOrNull() = %v, want 3", got.OrZeroValue())
	}
	got, _ = Of(1, 3).FindLast(isEven)
	if got.IsPresent() {
		t.Error("FindLast() found a value in a sequence without one")
	}
}

func TestSingle(t *testing.T) {
	two := func(v int) bool { return v == 2 }

	v, err := Of(1, 2, 3).Single(two)
	if err != nil || v != 2 {
		t.Errorf("Single() = %d, %v; want 2", v, err)
	}
	if _, err := Of(1, 2, 2, 3).Single(two); !errors.IsAmbiguous(err) {
		t.Errorf("Single() err = %v, want ambiguous", err)
	}
	if _, err := Of(1, 3).Single(two); !errors.IsNotFound(err) {
		t.Errorf("Single() err = %v, want not found", err)
	}
	if v, err := Of(9).Single(); err != nil || v != 9 {
		t.Errorf("Single() = %d, %v; want 9", v, err)
	}
}

func TestSingle_StopsAtSecondMatch(t *testing.T) {
	src := &countingIter{n: 100}
	if _, err := FromIterator[int](src).Single(isEven); !errors.IsAmbiguous(err) {
		t.Fatalf("err = %v, want ambiguous", err)
	}
	if src.pulled != 4 {
		t.Errorf("pulled = %d, want 4", src.pulled)
	}
}

func TestSingleOrNull(t *testing.T) {
	tests := []struct {
		name    string
		xs      []int
		present bool
	}{
		{"one", []int{1, 2, 3}, true},
		{"several", []int{2, 4}, false},
		{"none", []int{1}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Of(tc.xs...).SingleOrNull(isEven)
			if err != nil || got.IsPresent() != tc.present {
				t.Errorf("SingleOrNull() present=%v err=%v, want present=%v", got.IsPresent(), err, tc.present)
			}
		})
	}
}

func TestElementAt(t *testing.T) {
	v, err := Of("a", "b", "c").ElementAt(1)
	if err != nil || v != "b" {
		t.Errorf("ElementAt(1) = %q, %v; want b", v, err)
	}
	for _, index := range []int{3, -1} {
		if _, err := Of("a", "b", "c").ElementAt(index); !errors.IsOutOfBounds(err) {
			t.Errorf("ElementAt(%d) err = %v, want out of bounds", index, err)
		}
	}

	got, _ := Of(1, 2).ElementAtOrNull(5)
	if got.IsPresent() {
		t.Error("ElementAtOrNull(5) present")
	}
	got, _ = Of(1, 2).ElementAtOrNull(0)
	if got.OrElse(-1) != 1 {
		t.Errorf("ElementAtOrNull(0) = %d, want 1", got.OrElse(-1))
	}

	v2, err := Of(1, 2).ElementAtOrElse(4, func(i int) int { return i * 100 })
	if err != nil || v2 != 400 {
		t.Errorf("ElementAtOrElse(4) = %d, %v; want 400", v2, err)
	}
}

func TestIndexOf(t *testing.T) {
	if i, _ := Of(5, 6, 7, 6).IndexOfFirst(func(v int) bool { return v == 6 }); i != 1 {
		t.Errorf("IndexOfFirst() = %d, want 1", i)
	}
	if i, _ := Of(5, 6, 7, 6).IndexOfLast(func(v int) bool { return v == 6 }); i != 3 {
		t.Errorf("IndexOfLast() = %d, want 3", i)
	}
	if i, _ := IndexOf(Of("a", "b"), "z"); i != -1 {
		t.Errorf("IndexOf() = %d, want -1", i)
	}
	if ok, _ := Contains(Of("a", "b"), "b"); !ok {
		t.Error("Contains() = false, want true")
	}
}

func TestForEachIndexed(t *testing.T) {
	var got []string
	err := Of("a", "b").ForEachIndexed(func(i int, v string) { got = append(got, fmt.Sprintf("%d %s", i, v)) })
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, []string{"0 a", "1 b"}); diff != nil {
		t.Error(diff)
	}
}

func TestReduce(t *testing.T) {
	v, err := Of(1, 2, 3, 4).Reduce(func(acc, v int) int { return acc + v })
	if err != nil || v != 10 {
		t.Errorf("Reduce() = %d, %v; want 10", v, err)
	}
	_, err = Empty[int]().Reduce(func(acc, v int) int { return acc + v })
	if !errors.IsNotFound(err) {
		t.Errorf("Reduce() err = %v, want not found", err)
	}
	if appErr, ok := errors.AsAppError(err); !ok || appErr.Details["operation"] != "reduce" {
		t.Errorf("Reduce() err details = %v", err)
	}
}

func TestReduceIndexed(t *testing.T) {
	var indexes []int
	v, err := Of("a", "b", "c").ReduceIndexed(func(i int, acc, v string) string {
		indexes = append(indexes, i)
		return acc + v
	})
	if err != nil || v != "abc" {
		t.Errorf("ReduceIndexed() = %q, %v; want abc", v, err)
	}
	if diff := deep.Equal(indexes, []int{1, 2}); diff != nil {
		t.Error(diff)
	}
}

func TestChunk(t *testing.T) {
	got, err := Of(1, 2, 3, 4, 5).Chunk(2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, [][]int{{1, 2}, {3, 4}, {5}}); diff != nil {
		t.Error(diff)
	}

	src := &countingIter{n: 3}
	if _, err := FromIterator[int](src).Chunk(0); !errors.IsInvalidArgument(err) {
		t.Errorf("Chunk(0) err = %v, want invalid argument", err)
	}
	if src.pulled != 0 {
		t.Errorf("pulled = %d, want 0", src.pulled)
	}
}

func TestPartition(t *testing.T) {
	even, odd, err := Of(1, 2, 3, 4, 5).Partition(isEven)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(even, []int{2, 4}); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(odd, []int{1, 3, 5}); diff != nil {
		t.Error(diff)
	}
}

func TestMaxWithMinWith_TiesKeepEarliest(t *testing.T) {
	type entry struct {
		score int
		name  string
	}
	byScore := func(a, b entry) int { return a.score - b.score }
	s := []entry{{1, "a"}, {3, "b"}, {3, "c"}, {1, "d"}}

	hi, _ := FromSlice(s).MaxWith(byScore)
	if hi.MustGet().name != "b" {
		t.Errorf("MaxWith() = %v, want b", hi.MustGet())
	}
	lo, _ := FromSlice(s).MinWith(byScore)
	if lo.MustGet().name != "a" {
		t.Errorf("MinWith() = %v, want a", lo.MustGet())
	}
	none, _ := Empty[entry]().MaxWith(byScore)
	if none.IsPresent() {
		t.Error("MaxWith() on empty present")
	}
}

func TestJoinToString(t *testing.T) {
	got, err := Of(1, 2, 3).JoinToString(", ")
	if err != nil || got != "1, 2, 3" {
		t.Errorf("JoinToString() = %q, %v", got, err)
	}
	got, _ = Empty[string]().JoinToString("-")
	if got != "" {
		t.Errorf("JoinToString() on empty = %q", got)
	}
}

func TestTerminal_SourceError(t *testing.T) {
	boom := fmt.Errorf("boom")
	sum := func(a, b int) int { return a + b }
	ops := map[string]func(s *Sequence[int]) error{
		"ToSlice": func(s *Sequence[int]) error { _, err := s.ToSlice(); return err },
		"Count":   func(s *Sequence[int]) error { _, err := s.Count(); return err },
		"Last":    func(s *Sequence[int]) error { _, err := s.Last(); return err },
		"Single":  func(s *Sequence[int]) error { _, err := s.Single(isEven); return err },
		"Reduce":  func(s *Sequence[int]) error { _, err := s.Reduce(sum); return err },
		"Chunk":   func(s *Sequence[int]) error { _, err := s.Chunk(2); return err },
		"Sum":     func(s *Sequence[int]) error { _, err := Sum(s); return err },
		"GroupBy": func(s *Sequence[int]) error { _, err := GroupBy(s, isEven); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(FromIterator[int](&failingIter{n: 2, err: boom})); err != boom {
				t.Errorf("err = %v, want boom", err)
			}
		})
	}
}
