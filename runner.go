package contentcal

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultRunner bounds concurrency to the number of CPUs.
func DefaultRunner(ctx context.Context) Runner {
	return newErrGroupRunner(ctx, runtime.NumCPU())
}

// NewLimitedRunner creates a runner that runs at most maxConcurrency tasks at once.
// Values below one are treated as one.
func NewLimitedRunner(ctx context.Context, maxConcurrency int) Runner {
	return newErrGroupRunner(ctx, maxConcurrency)
}

type errGroupRunner struct {
	ctx context.Context // cancelled when the first task fails
	eg  *errgroup.Group
	sem chan struct{}
}

func newErrGroupRunner(parent context.Context, maxConcurrency int) *errGroupRunner {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	eg, ctx := errgroup.WithContext(parent)
	return &errGroupRunner{
		ctx: ctx,
		eg:  eg,
		sem: make(chan struct{}, maxConcurrency),
	}
}

// Go schedules fn. Tasks still waiting for a slot when the group is
// cancelled return the cancellation cause instead of running.
func (r *errGroupRunner) Go(fn func() error) {
	r.eg.Go(func() error {
		select {
		case r.sem <- struct{}{}:
		case <-r.ctx.Done():
			return context.Cause(r.ctx)
		}
		defer func() { <-r.sem }()
		return fn()
	})
}

func (r *errGroupRunner) Wait() error { return r.eg.Wait() }
