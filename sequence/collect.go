package sequence

import (
	"iter"
	"reflect"

	"github.com/kbukum/seqkit/errors"
)

// OrderedMap is a map that remembers the order in which keys were first set.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Set stores v under k. A key that is already present keeps its position.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get returns the value stored under k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// All iterates the entries in insertion order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Map returns the entries as a plain map.
func (m *OrderedMap[K, V]) Map() map[K]V {
	out := make(map[K]V, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// GroupBy groups the elements by key. Keys keep the order of their first
// occurrence and every group keeps source order.
func GroupBy[T any, K comparable](s *Sequence[T], key func(T) K) (*OrderedMap[K, []T], error) {
	result := NewOrderedMap[K, []T]()
	err := s.ForEach(func(v T) {
		k := key(v)
		group, _ := result.Get(k)
		result.Set(k, append(group, v))
	})
	return result, err
}

// Associate builds a map from the key/value pairs fn returns. Later keys
// overwrite earlier ones.
func Associate[T any, K comparable, V any](s *Sequence[T], fn func(T) (K, V)) (*OrderedMap[K, V], error) {
	result := NewOrderedMap[K, V]()
	err := s.ForEach(func(v T) { result.Set(fn(v)) })
	return result, err
}

// AssociateBy maps key(element) to the element, or to transform(element)
// when a transform is given. Later keys overwrite earlier ones.
func AssociateBy[T any, K comparable](s *Sequence[T], key func(T) K, transform ...func(T) T) (*OrderedMap[K, T], error) {
	value := func(v T) T { return v }
	if len(transform) > 0 && transform[0] != nil {
		value = transform[0]
	}
	return Associate(s, func(v T) (K, T) { return key(v), value(v) })
}

// AssociateByTo maps key(element) to transform(element).
func AssociateByTo[T any, K comparable, V any](s *Sequence[T], key func(T) K, transform func(T) V) (*OrderedMap[K, V], error) {
	return Associate(s, func(v T) (K, V) { return key(v), transform(v) })
}

// AssociateByField maps the value of the named struct field (or map entry)
// to the element. A missing field or a non-comparable field value is an
// invalid-argument error.
func AssociateByField[T any](s *Sequence[T], field string) (*OrderedMap[any, T], error) {
	result := NewOrderedMap[any, T]()
	var fieldErr error
	err := s.ForEach(func(v T) {
		if fieldErr != nil {
			return
		}
		k, ok := fieldValue(v, field)
		if !ok {
			fieldErr = errors.InvalidArgument("field", "no comparable field "+field+" on "+typeName(v))
			return
		}
		result.Set(k, v)
	})
	if err == nil {
		err = fieldErr
	}
	return result, err
}

// AssociateWith maps every element to value(element). Later elements
// overwrite earlier equal ones.
func AssociateWith[T comparable, V any](s *Sequence[T], value func(T) V) (*OrderedMap[T, V], error) {
	return Associate(s, func(v T) (T, V) { return v, value(v) })
}

// fieldValue reads a field of a struct (through pointers) or a string-keyed map entry.
func fieldValue(v any, field string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	var fv reflect.Value
	switch rv.Kind() {
	case reflect.Struct:
		sf, ok := rv.Type().FieldByName(field)
		if !ok || !sf.IsExported() {
			return nil, false
		}
		fv = rv.FieldByIndex(sf.Index)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		fv = rv.MapIndex(reflect.ValueOf(field).Convert(rv.Type().Key()))
		if !fv.IsValid() {
			return nil, false
		}
	default:
		return nil, false
	}
	// checks the dynamic values held in interfaces, not only the static type
	if !fv.Comparable() {
		return nil, false
	}
	return fv.Interface(), true
}
