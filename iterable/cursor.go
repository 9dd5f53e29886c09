package iterable

import (
	"context"
	"iter"
	"reflect"

	"github.com/kbukum/seqkit/pipeline"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
	boolType    = reflect.TypeFor[bool]()
)

// Cursor returns a single-use iterator over v when v is iterable.
//
// Accepted shapes, checked in order: pipeline.Iterator[any]; any value with
// methods Next(context.Context) (X, bool, error) and Close() error;
// iter.Seq[X]; iter.Seq2[X, error]; strings (yielding runes); slices;
// arrays; receive channels. Anything else reports false.
func Cursor(v any) (pipeline.Iterator[any], bool) {
	switch c := v.(type) {
	case nil:
		return nil, false
	case pipeline.Iterator[any]:
		return c, true
	case iter.Seq[any]:
		return pullSeq(c), true
	case func(func(any) bool):
		return pullSeq(c), true
	}

	rv := reflect.ValueOf(v)
	if it, ok := methodCursor(rv); ok {
		return it, true
	}
	switch rv.Kind() {
	case reflect.Func:
		return funcCursor(rv)
	case reflect.String:
		return &indexIter{v: reflect.ValueOf([]rune(rv.String()))}, true
	case reflect.Slice, reflect.Array:
		return &indexIter{v: rv}, true
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return nil, false
		}
		return &chanIter{v: rv}, true
	}
	return nil, false
}

// methodCursor adapts any value shaped like pipeline.Iterator[X].
func methodCursor(rv reflect.Value) (pipeline.Iterator[any], bool) {
	next := rv.MethodByName("Next")
	closer := rv.MethodByName("Close")
	if !next.IsValid() || !closer.IsValid() {
		return nil, false
	}
	nt, ct := next.Type(), closer.Type()
	if nt.NumIn() != 1 || nt.In(0) != contextType || nt.NumOut() != 3 ||
		nt.Out(1) != boolType || nt.Out(2) != errorType {
		return nil, false
	}
	if ct.NumIn() != 0 || ct.NumOut() != 1 || ct.Out(0) != errorType {
		return nil, false
	}
	return &methodIter{next: next, close: closer}, true
}

// seqArity returns 1 for iter.Seq[X], 2 for iter.Seq2[X, error] and 0 for
// any other type.
func seqArity(ft reflect.Type) int {
	if ft.Kind() != reflect.Func || ft.NumIn() != 1 || ft.NumOut() != 0 || ft.In(0).Kind() != reflect.Func {
		return 0
	}
	yt := ft.In(0)
	if yt.NumOut() != 1 || yt.Out(0) != boolType {
		return 0
	}
	switch {
	case yt.NumIn() == 1:
		return 1
	case yt.NumIn() == 2 && yt.In(1) == errorType:
		return 2
	}
	return 0
}

// funcCursor adapts iter.Seq[X] and iter.Seq2[X, error] of any X.
func funcCursor(rv reflect.Value) (pipeline.Iterator[any], bool) {
	arity := seqArity(rv.Type())
	if arity == 0 {
		return nil, false
	}
	yt := rv.Type().In(0)
	switch arity {
	case 1:
		return pullSeq(func(yield func(any) bool) {
			rv.Call([]reflect.Value{reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(yield(args[0].Interface()))}
			})})
		}), true
	case 2:
		next, stop := iter.Pull2(func(yield func(any, error) bool) {
			rv.Call([]reflect.Value{reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
				err, _ := args[1].Interface().(error)
				return []reflect.Value{reflect.ValueOf(yield(args[0].Interface(), err))}
			})})
		})
		return &pull2Iter{next: next, stop: stop}, true
	}
	return nil, false
}

func pullSeq(seq iter.Seq[any]) pipeline.Iterator[any] {
	next, stop := iter.Pull(seq)
	return &pullIter{next: next, stop: stop}
}

// --- Internal iterators ---

type methodIter struct {
	next  reflect.Value
	close reflect.Value
}

func (it *methodIter) Next(ctx context.Context) (any, bool, error) {
	out := it.next.Call([]reflect.Value{reflect.ValueOf(&ctx).Elem()})
	err, _ := out[2].Interface().(error)
	if !out[1].Bool() {
		return nil, false, err
	}
	return out[0].Interface(), true, err
}

func (it *methodIter) Close() error {
	err, _ := it.close.Call(nil)[0].Interface().(error)
	return err
}

type pullIter struct {
	next func() (any, bool)
	stop func()
}

func (it *pullIter) Next(context.Context) (any, bool, error) {
	v, ok := it.next()
	return v, ok, nil
}

func (it *pullIter) Close() error {
	it.stop()
	return nil
}

type pull2Iter struct {
	next func() (any, error, bool)
	stop func()
}

func (it *pull2Iter) Next(context.Context) (any, bool, error) {
	v, err, ok := it.next()
	if !ok {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (it *pull2Iter) Close() error {
	it.stop()
	return nil
}

type indexIter struct {
	v     reflect.Value
	index int
}

func (it *indexIter) Next(context.Context) (any, bool, error) {
	if it.index >= it.v.Len() {
		return nil, false, nil
	}
	val := it.v.Index(it.index).Interface()
	it.index++
	return val, true, nil
}

func (it *indexIter) Close() error { return nil }

// chanIter receives until the channel is closed or ctx is done.
type chanIter struct {
	v reflect.Value
}

func (it *chanIter) Next(ctx context.Context) (any, bool, error) {
	chosen, val, ok := reflect.Select([]reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: it.v},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
	})
	if chosen == 1 {
		return nil, false, ctx.Err()
	}
	if !ok {
		return nil, false, nil
	}
	return val.Interface(), true, nil
}

func (it *chanIter) Close() error { return nil }
