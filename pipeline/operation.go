package pipeline

import (
	"context"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/kbukum/seqkit/logger"
)

// Verdict tells the fused runner what to do with the value a Step returned.
type Verdict uint8

const (
	// Emit passes the value on to the next step (or the consumer).
	Emit Verdict = iota
	// Skip drops the value and pulls the next upstream element.
	Skip
	// EmitLast passes the value on and ends the stream without pulling again.
	EmitLast
	// Stop drops the value and ends the stream.
	Stop
)

func (v Verdict) String() string {
	switch v {
	case Emit:
		return "emit"
	case Skip:
		return "skip"
	case EmitLast:
		return "emit_last"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Step processes a single element of an element-wise stage.
type Step func(ctx context.Context, v any) (any, Verdict, error)

// StepFactory creates the Step for one realization of a chain, so per-run
// state (counters, seen sets) starts fresh every time the chain is opened.
type StepFactory func() Step

// Work produces the lazy output of a general stage from its predecessor's
// output. previous is nil for source operations. Work must not pull from
// previous before its own iterator is pulled.
type Work func(ctx context.Context, previous Iterator[any]) Iterator[any]

// Operation is one stage of a lazy chain. Operations are immutable and
// linked from the newest stage back to the source.
type Operation struct {
	previous *Operation
	name     string
	depth    int
	step     StepFactory
	work     Work
}

// NewOperation creates a source operation: a chain with a single stage.
func NewOperation(name string, source Work) *Operation {
	return &Operation{name: name, work: source}
}

// Append returns a new terminal stage that consumes o's output through work.
// The receiver is left unchanged and nothing is evaluated.
func (o *Operation) Append(name string, work Work) *Operation {
	return &Operation{previous: o, name: name, depth: o.depth + 1, work: work}
}

// AppendStep returns a new element-wise terminal stage. Consecutive step
// stages are fused into one flat loop when the chain is realized.
func (o *Operation) AppendStep(name string, factory StepFactory) *Operation {
	return &Operation{previous: o, name: name, depth: o.depth + 1, step: factory}
}

// Previous returns the stage this one consumes, or nil for a source.
func (o *Operation) Previous() *Operation { return o.previous }

// Name returns the stage name.
func (o *Operation) Name() string { return o.name }

// Len returns the number of stages appended after the source.
func (o *Operation) Len() int { return o.depth }

// Describe returns the stage names from the source to this stage.
func (o *Operation) Describe() []string {
	names := make([]string, 0, o.depth+1)
	for op := o; op != nil; op = op.previous {
		names = append(names, op.name)
	}
	slices.Reverse(names)
	return names
}

// Iterator returns a deferred iterator over the stage's output in a fresh
// realization. The chain is opened on the first Next.
func (o *Operation) Iterator() Iterator[any] {
	return NewRealization().Iterator(o)
}

// segments counts the fused segments and general stages realization will open.
func (o *Operation) segments() int {
	limit := current().segmentLimit()
	n := 0
	for op := o; op != nil; {
		n++
		if op.step == nil {
			op = op.previous
			continue
		}
		for run := 0; op != nil && op.step != nil && (limit == 0 || run < limit); run++ {
			op = op.previous
		}
	}
	return n
}

// --- Realization ---

// Realization opens the stages of chains that share a source. Each stage is
// opened at most once, so a stage and every stage appended to it pull
// through the same state: an element consumed through one is not replayed
// to the other.
//
// A step stage appended to the top of an opened fused segment joins that
// segment. Iterators over lower stages of the segment run only the steps up
// to their own stage.
type Realization struct {
	limit  int
	stages map[*Operation]*stageIter
}

// NewRealization creates an empty realization using the current settings.
func NewRealization() *Realization {
	return &Realization{
		limit:  current().segmentLimit(),
		stages: make(map[*Operation]*stageIter),
	}
}

// Iterator returns the deferred iterator over op's output. Repeated calls for
// the same op return the same iterator.
func (r *Realization) Iterator(op *Operation) Iterator[any] {
	return r.stage(op)
}

func (r *Realization) stage(op *Operation) *stageIter {
	it, ok := r.stages[op]
	if !ok {
		it = &stageIter{r: r, op: op}
		r.stages[op] = it
	}
	return it
}

// open builds the iterator for op. Unopened step stages below op are
// collected into one fused segment, which extends the segment of the step
// stage beneath them when that stage is the segment's top.
func (r *Realization) open(ctx context.Context, op *Operation) Iterator[any] {
	if op.step == nil {
		var previous Iterator[any]
		if op.previous != nil {
			previous = r.stage(op.previous)
		}
		return op.work(ctx, previous)
	}

	var chain []*Operation
	base := op
	for base.step != nil && r.stage(base).inner == nil {
		chain = append(chain, base)
		base = base.previous
	}
	slices.Reverse(chain)

	var seg *segment
	if lv, ok := r.stage(base).inner.(*levelIter); ok && lv.level == len(lv.seg.steps) {
		seg = lv.seg
	}
	below := base
	for _, c := range chain {
		if seg == nil || (r.limit > 0 && len(seg.steps) >= r.limit) {
			seg = &segment{source: r.stage(below), stopped: math.MaxInt}
		}
		seg.steps = append(seg.steps, c.step())
		r.stage(c).inner = &levelIter{seg: seg, level: len(seg.steps)}
		below = c
	}
	return r.stage(op).inner
}

// stageIter defers opening a stage until the first pull.
type stageIter struct {
	r      *Realization
	op     *Operation
	trace  bool
	inner  Iterator[any]
	closed bool
}

func (it *stageIter) Next(ctx context.Context) (any, bool, error) {
	if it.closed {
		return nil, false, nil
	}
	if it.inner == nil {
		it.openIn(ctx)
	}
	return it.inner.Next(ctx)
}

// Close opens an unopened stage before closing it so sources holding
// resources are released even when nothing was pulled.
func (it *stageIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.inner == nil {
		it.openIn(context.Background())
	}
	return it.inner.Close()
}

func (it *stageIter) openIn(ctx context.Context) {
	if it.trace {
		logRealize(it.op)
	}
	it.inner = it.r.open(ctx, it.op)
}

// segment is a run of fused steps over one source.
type segment struct {
	source    Iterator[any]
	steps     []Step
	exhausted bool
	// stopped is the index of the first step that ended its stream.
	stopped int
}

// levelIter runs the first level steps of a segment in a flat loop.
type levelIter struct {
	seg   *segment
	level int
}

func (it *levelIter) Next(ctx context.Context) (any, bool, error) {
	seg := it.seg
pull:
	for !seg.exhausted && seg.stopped >= it.level {
		v, ok, err := seg.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			seg.exhausted = true
			return nil, false, nil
		}
		for i, step := range seg.steps[:it.level] {
			out, verdict, err := step(ctx, v)
			if err != nil {
				return nil, false, err
			}
			switch verdict {
			case Skip:
				continue pull
			case Stop:
				seg.stop(i)
				return nil, false, nil
			case EmitLast:
				seg.stop(i)
			}
			v = out
		}
		return v, true, nil
	}
	return nil, false, nil
}

func (it *levelIter) Close() error { return it.seg.source.Close() }

func (s *segment) stop(i int) {
	s.stopped = min(s.stopped, i)
}

func logRealize(op *Operation) {
	log := logger.Get("pipeline")
	if !log.Enabled(zerolog.DebugLevel) {
		return
	}
	log.Debug("pipeline realized", logger.Fields(
		logger.FieldStages, op.Describe(),
		logger.FieldSegments, op.segments(),
	))
}
