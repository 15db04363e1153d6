package asyncx

import (
	"context"
	"sync"
)

// Outcome is the result of one item passed to Map
type Outcome[R any] struct {
	Value R
	Err   error
}

// Map runs fn for every item with at most limit calls in flight and returns
// the outcomes in input order. One item failing does not stop the others.
// Items not started when ctx is done get ctx.Err(). A limit below 1 runs
// everything at once.
func Map[T any, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error)) []Outcome[R] {
	out := make([]Outcome[R], len(items))
	if limit < 1 || limit > len(items) {
		limit = len(items)
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, item := range items {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < len(items); j++ {
				out[j].Err = ctx.Err()
			}
			wg.Wait()
			return out
		}

		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }()
			v, err := fn(ctx, item)
			out[i] = Outcome[R]{Value: v, Err: err}
		}(i, item)
	}

	wg.Wait()
	return out
}

// AsyncAll runs fn for every item concurrently and returns the values in
// input order, or the first error by position.
func AsyncAll[T any, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	outcomes := Map(ctx, items, 0, fn)
	results := make([]R, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			return nil, o.Err
		}
		results = append(results, o.Value)
	}
	return results, nil
}
