// Package pipeline provides lazy, pull-based operation chains.
//
// A chain is a singly linked list of Operations from the newest stage back
// to the source. Appending a stage is O(1) and touches nothing; the chain is
// opened only when the first value is pulled, and each stage opens its
// predecessor only when it first needs a value.
//
// Stages come in two kinds:
//
//   - step stages (Filter, Map, Tap, Take, Drop, ...) process one element at
//     a time and report a Verdict. Consecutive step stages are fused into a
//     single flat loop, so pulling one element costs one call per step, not
//     one nested iterator per step.
//   - general stages (FlatMap, Reduce, Batch, Concat, ...) receive the
//     previous stage's iterator and produce an Iterator of their own.
//
// A Realization opens chains. Each stage is opened at most once per
// realization, so chains that extend a common stage and are iterated in the
// same realization share its state and its position in the source.
//
// Pipeline[T] is the typed view used by callers; the chain itself carries
// values as any.
//
// # Operators
//
//   - Map: transform each value
//   - FlatMap: transform each value into multiple values
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value
//   - Reduce: accumulate all values into one result
//   - Concat: join pipelines sequentially
//   - Take, TakeWhile, Drop, DropWhile: truncate without over-reading
//   - Batch: group values into slices
//
// Terminals Collect and ForEach realize a pipeline and close it when done.
// Each drains an iterator without closing it.
//
// # Usage
//
//	src := pipeline.FromSlice([]int{1, 2, 3, 4, 5})
//	doubled := pipeline.Map(src, func(_ context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//	evens := pipeline.Filter(doubled, func(n int) bool { return n%4 == 0 })
//	results, _ := pipeline.Collect(ctx, pipeline.Take(evens, 2))
//
// Settings select between fused and nested evaluation; both produce the same
// values.
package pipeline
