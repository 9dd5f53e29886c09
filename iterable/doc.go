// Package iterable normalizes arbitrary values into pipeline iterators.
//
// The check is by capability, not by type: anything exposing
// Next(context.Context) (X, bool, error) and Close() error is a cursor,
// as are range-over-func sequences, slices, arrays, strings and receive
// channels. Strings and byte slices are atomic: iterable, but never
// expanded by a flatten.
package iterable
