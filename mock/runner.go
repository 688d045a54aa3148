package mock

import (
	"context"

	"github.com/fwojciec/refdoc"
)

var _ refdoc.Runner = (*Runner)(nil)

// Runner is a mock implementation of refdoc.Runner.
type Runner struct {
	RunFn func(ctx context.Context, spec refdoc.RunSpec) (*refdoc.RunResult, error)
}

func (r *Runner) Run(ctx context.Context, spec refdoc.RunSpec) (*refdoc.RunResult, error) {
	return r.RunFn(ctx, spec)
}
