package iterable

import (
	"context"
	"reflect"

	"github.com/kbukum/seqkit/pipeline"
)

// IsIterable reports whether Cursor accepts v.
func IsIterable(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(pipeline.Iterator[any]); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array:
		return true
	case reflect.Chan:
		return rv.Type().ChanDir()&reflect.RecvDir != 0
	case reflect.Func:
		return seqArity(rv.Type()) > 0
	}
	_, ok := methodCursor(rv)
	return ok
}

// IsAtomic reports whether v is iterable but must be treated as a single
// value when flattening: strings and byte slices.
func IsAtomic(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.String:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	}
	return false
}

// FromSlice returns a single-use cursor over items.
func FromSlice[T any](items []T) pipeline.Iterator[T] {
	return &sliceCursor[T]{items: items}
}

// Contains pulls from it until elem is found. The cursor is left positioned
// after the match.
func Contains[T comparable](ctx context.Context, it pipeline.Iterator[T], elem T) (bool, error) {
	for {
		v, ok, err := it.Next(ctx)
		if err != nil || !ok {
			return false, err
		}
		if v == elem {
			return true, nil
		}
	}
}

type sliceCursor[T any] struct {
	items []T
	index int
}

func (it *sliceCursor[T]) Next(context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	v := it.items[it.index]
	it.index++
	return v, true, nil
}

func (it *sliceCursor[T]) Close() error {
	it.index = len(it.items)
	return nil
}
