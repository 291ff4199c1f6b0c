// Package parallel runs index ranges across goroutines and waits for them.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultGrain is the number of items handed to a worker at once.
const DefaultGrain = 50

// Options controls how a range is split.
type Options struct {
	// Grain is the chunk size. Zero or negative uses DefaultGrain.
	Grain int
	// Workers caps concurrent chunks. Zero or negative uses GOMAXPROCS.
	// One runs every chunk on the calling goroutine.
	Workers int
}

func (o Options) grain() int {
	if o.Grain <= 0 {
		return DefaultGrain
	}
	return o.Grain
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// For calls fn for consecutive [lo, hi) ranges covering [0, n) and blocks
// until all of them return. Ranges never overlap, so fn may write to
// per-index slots of a pre-sized slice without locking. The first error
// cancels the chunks that have not started yet and is returned.
func For(ctx context.Context, n int, opts Options, fn func(lo, hi int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	grain := opts.grain()
	workers := opts.workers()

	if workers == 1 || n <= grain {
		return sequential(ctx, n, grain, fn)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += grain {
		hi := min(lo+grain, n)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func sequential(ctx context.Context, n, grain int, fn func(lo, hi int) error) error {
	for lo := 0; lo < n; lo += grain {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(lo, min(lo+grain, n)); err != nil {
			return err
		}
	}
	return nil
}
