package mock

import (
	"context"

	"github.com/fwojciec/refdoc"
)

var _ refdoc.IndexQueue = (*IndexQueue)(nil)

// IndexQueue is a mock implementation of refdoc.IndexQueue.
type IndexQueue struct {
	SubmitFn   func(ctx context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error
	ShutdownFn func(ctx context.Context) error
}

func (q *IndexQueue) Submit(ctx context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error {
	return q.SubmitFn(ctx, docs, dest, progress)
}

func (q *IndexQueue) Shutdown(ctx context.Context) error {
	return q.ShutdownFn(ctx)
}
