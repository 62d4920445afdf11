package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch runs independent parameter sets concurrently on one engine.
type Batch struct {
	engine      *Engine
	concurrency int
}

// NewBatch returns a batch running at most concurrency runs at once; zero or
// less means no limit.
func NewBatch(e *Engine, concurrency int) *Batch {
	return &Batch{engine: e, concurrency: concurrency}
}

// Run returns results in the order of params. The first failing run, or a
// cancelled ctx, discards the whole batch. Runs already in progress are not
// interrupted.
func (b *Batch) Run(ctx context.Context, params []Parameters) ([]*Results, error) {
	results := make([]*Results, len(params))

	g, gctx := errgroup.WithContext(ctx)
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}

	for i, p := range params {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := b.engine.Run(p)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
