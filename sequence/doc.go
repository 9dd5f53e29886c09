// Package sequence provides lazy, single-pass sequences with a chainable
// combinator surface.
//
// A Sequence wraps one source cursor. Lazy stages (Filter, Map, Take,
// Distinct, Zip, ...) return a new Sequence over the same cursor and do no
// work until an element is pulled. A Sequence and those derived from it
// share stage state: once a Take(2) parent has yielded one element, its
// children see only one more. Terminal operations (ToSlice, First,
// Count, GroupBy, Fold, ...) pull until they have an answer and return the
// first error they meet.
//
// Go methods cannot introduce type parameters, so stages that keep the
// element type are methods and the ones that change it, or need comparable
// or ordered elements, are package functions:
//
//	evens := sequence.Of(1, 2, 3, 4, 5, 6).Filter(func(v int) bool { return v%2 == 0 })
//	labels := sequence.Map(evens.Take(2), strconv.Itoa)
//	out, err := labels.ToSlice() // ["2", "4"]
//
// Optional predicates default to accepting every element. Lookups that can
// come up empty have an OrNull variant returning optional.Value.
//
// Stages can be observed with Log (zerolog debug lines) and Instrument
// (one OpenTelemetry span per run plus element and run metrics).
package sequence
