package pipeline

import (
	"context"
)

// Batch collects up to size values and emits them as a slice. The final
// batch may be smaller. A size below 1 is treated as 1.
func Batch[T any](p *Pipeline[T], size int) *Pipeline[[]T] {
	size = max(size, 1)
	return Append(p, "batch", func(_ context.Context, source Iterator[T]) Iterator[[]T] {
		return &batchIter[T]{source: source, size: size}
	})
}

type batchIter[T any] struct {
	source Iterator[T]
	size   int
	err    error
	done   bool
}

func (it *batchIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	if it.err != nil {
		err := it.err
		it.err = nil
		it.done = true
		return nil, false, err
	}
	if it.done {
		return nil, false, nil
	}

	var batch []T
	for len(batch) < it.size {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			if len(batch) == 0 {
				return nil, false, err
			}
			// surfaces on the next pull
			it.err = err
			return batch, true, nil
		}
		if !ok {
			it.done = true
			break
		}
		batch = append(batch, val)
	}
	if len(batch) == 0 {
		return nil, false, nil
	}
	return batch, true, nil
}

func (it *batchIter[T]) Close() error { return it.source.Close() }
