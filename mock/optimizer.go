package mock

import (
	"context"

	"github.com/fwojciec/refdoc"
)

var _ refdoc.Optimizer = (*Optimizer)(nil)

// Optimizer is a mock implementation of refdoc.Optimizer.
type Optimizer struct {
	OptimizeFn func(ctx context.Context, req *refdoc.GenerateRequest) (*refdoc.OptimizeResult, error)
}

func (o *Optimizer) Optimize(ctx context.Context, req *refdoc.GenerateRequest) (*refdoc.OptimizeResult, error) {
	return o.OptimizeFn(ctx, req)
}
