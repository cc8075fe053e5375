package graph

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelApply runs each fn concurrently against g and returns the first
// error encountered, cancelling ctx for the remaining goroutines (their
// results are still awaited, matching errgroup.Group's own contract). It is
// a convenience for callers who already know their operations are
// independent and read-only — e.g. several ListNodes(label=...) calls
// against different labels — since readers never block other readers.
func ParallelApply(ctx context.Context, g *Graph, fns ...func(context.Context, *Graph) error) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		eg.Go(func() error { return fn(egCtx, g) })
	}
	return eg.Wait()
}
