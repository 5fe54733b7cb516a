// Package parallel provides an order-preserving fan-out/join utility for
// independent units of work dispatched against external APIs.
//
// The pipeline dispatches translation and speech synthesis concurrently, but
// downstream stages depend on the original chunk order. Completion order of
// concurrent workers is unspecified and must never leak to callers, so each
// result is written into a fixed-size slice at its input index rather than
// appended and sorted.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MaxRecommendedWorkers is the recommended upper limit for concurrent API
// requests. Higher values may trigger rate limiting.
const MaxRecommendedWorkers = 10

// Clamp constrains a worker count to [1, cap] and never exceeds the number
// of items (one worker per item is the useful maximum).
func Clamp(items, n, cap int) int {
	if n < 1 {
		n = 1
	}
	if n > cap {
		n = cap
	}
	if n > items && items > 0 {
		n = items
	}
	return n
}

// Map applies fn to every item concurrently with at most workers in flight,
// and returns the results ordered by input position regardless of completion
// order. It blocks until every item has finished.
//
// Per-item failures do not cancel siblings: fn's error is recorded in the
// returned errs slice (indexed like items) and the corresponding result is
// the zero value. The caller decides fallback versus propagation per item.
// The only error returned directly is context cancellation.
func Map[T, R any](
	ctx context.Context,
	items []T,
	workers int,
	fn func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error, error) {
	if len(items) == 0 {
		return nil, nil, nil
	}

	if workers < 1 {
		workers = 1
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	// Semaphore channel for concurrency control.
	// Not closed explicitly: it's local to this function and will be GC'd.
	sem := make(chan struct{}, workers)

	g, ctx := errgroup.WithContext(ctx)

	for i, item := range items {
		g.Go(func() error {
			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			results[i], errs[i] = fn(ctx, i, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return results, errs, nil
}
