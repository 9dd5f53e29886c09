package sequence

import (
	"context"
	"iter"

	"github.com/go-softwarelab/common/pkg/types"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/iterable"
	"github.com/kbukum/seqkit/pipeline"
)

// Sequence is a single-pass, lazily evaluated view over a source.
//
// Lazy stages return a new Sequence that shares the realization of s: the
// source cursor and the state of every stage in s are pulled through once,
// whichever of the sequences reads them. Terminal operations pull through
// the chain. A Sequence implements pipeline.Iterator[T], so it can feed
// another Sequence or pipeline.
type Sequence[T any] struct {
	pipe   *pipeline.Pipeline[T]
	run    *pipeline.Realization
	cursor pipeline.Iterator[T]
	ctx    context.Context
	err    error
}

// Pair is the element type of zipped sequences.
type Pair[A, B any] = types.Tuple2[A, B]

// Indexed pairs an element with its position in the sequence.
type Indexed[T any] struct {
	Index int
	Value T
}

// --- Constructors ---

// Of creates a sequence over the given values.
func Of[T any](xs ...T) *Sequence[T] {
	return FromSlice(xs)
}

// Empty creates a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return FromSlice[T](nil)
}

// FromSlice creates a sequence over items. The slice is read through a single
// cursor: consuming the sequence does not restart it.
func FromSlice[T any](items []T) *Sequence[T] {
	return newSequence(pipeline.From(iterable.FromSlice(items)))
}

// FromIterator creates a sequence that owns it.
func FromIterator[T any](it pipeline.Iterator[T]) *Sequence[T] {
	return newSequence(pipeline.From(it))
}

// FromPipeline creates a sequence over the output of p. p is realized once,
// on the first pull.
func FromPipeline[T any](p *pipeline.Pipeline[T]) *Sequence[T] {
	return newSequence(p)
}

// FromSeq creates a sequence over a range-over-func iterator. Close stops it.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	return FromIterator[T](&seqIter[T]{seq: seq})
}

// FromSeq2 creates a sequence over an iterator that yields values with
// errors. The first non-nil error is returned by the pull that reads it.
func FromSeq2[T any](seq iter.Seq2[T, error]) *Sequence[T] {
	return FromIterator[T](&seq2Iter[T]{seq: seq})
}

// FromAny creates a sequence over any iterable value (see iterable.Cursor).
func FromAny(v any) (*Sequence[any], error) {
	it, ok := iterable.Cursor(v)
	if !ok {
		return nil, errors.InvalidArgument("source", "value is not iterable").
			WithDetail("type", typeName(v))
	}
	return FromIterator(it), nil
}

// Generate creates a sequence starting at seed where each element is computed
// from the previous one. The sequence ends when next reports false; bound
// endless generators with Take or TakeWhile.
func Generate[T any](seed T, next func(T) (T, bool)) *Sequence[T] {
	return FromIterator[T](&generateIter[T]{value: seed, next: next})
}

// Range creates a sequence of the integers in [start, end).
func Range(start, end int) *Sequence[int] {
	return FromIterator[int](&rangeIter{next: start, end: end})
}

func newSequence[T any](p *pipeline.Pipeline[T]) *Sequence[T] {
	return &Sequence[T]{pipe: p, run: pipeline.NewRealization(), ctx: context.Background()}
}

// --- Cursor ---

// Next pulls the next element, realizing the chain on the first call.
func (s *Sequence[T]) Next(ctx context.Context) (T, bool, error) {
	return s.iter().Next(ctx)
}

// Close releases the source cursor.
func (s *Sequence[T]) Close() error {
	return s.iter().Close()
}

// WithContext binds ctx to the terminal operations of s and of sequences
// derived from it afterwards.
func (s *Sequence[T]) WithContext(ctx context.Context) *Sequence[T] {
	s.ctx = ctx
	return s
}

// Iter returns a range-over-func view of the remaining elements. Iteration
// stops after yielding the first error.
func (s *Sequence[T]) Iter() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := s.next()
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}

// Values returns a range-over-func view of the remaining elements. An error
// ends the iteration and is reported by Err.
func (s *Sequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok, err := s.next()
			if err != nil {
				s.err = err
				return
			}
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Err returns the error that ended the last Values iteration.
func (s *Sequence[T]) Err() error {
	return s.err
}

// Describe returns the stage names from the source to s.
func (s *Sequence[T]) Describe() []string {
	return s.pipe.Describe()
}

func (s *Sequence[T]) iter() pipeline.Iterator[T] {
	if s.cursor == nil {
		s.cursor = s.pipe.IterIn(s.run)
	}
	return s.cursor
}

func (s *Sequence[T]) next() (T, bool, error) {
	return s.iter().Next(s.ctx)
}

// source is the pipeline a derived sequence builds on.
func (s *Sequence[T]) source() *pipeline.Pipeline[T] {
	return s.pipe
}

// derive wraps p, which extends the chain of s, in the realization of s.
func derive[T, R any](s *Sequence[T], p *pipeline.Pipeline[R]) *Sequence[R] {
	return &Sequence[R]{pipe: p, run: s.run, ctx: s.ctx}
}

// step appends an element-wise stage to s.
func step[T, R any](s *Sequence[T], name string, factory func() func(context.Context, T) (R, pipeline.Verdict, error)) *Sequence[R] {
	return derive(s, pipeline.AppendStep(s.source(), name, factory))
}

// stage appends a general stage to s.
func stage[T, R any](s *Sequence[T], name string, work func(context.Context, pipeline.Iterator[T]) pipeline.Iterator[R]) *Sequence[R] {
	return derive(s, pipeline.Append(s.source(), name, work))
}

// failed appends a stage that reports err on its first pull without reading s.
func failed[T, R any](s *Sequence[T], name string, err error) *Sequence[R] {
	return stage(s, name, func(_ context.Context, src pipeline.Iterator[T]) pipeline.Iterator[R] {
		return &errIter[R]{err: err, src: src}
	})
}
