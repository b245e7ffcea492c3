// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// collect runs fn for every index in [0, n) concurrently and returns the
// values in index order. Each task owns its own slot. The first error
// cancels the context passed to the remaining tasks and is returned after
// all tasks have finished.
func collect[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	out := make([]T, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
