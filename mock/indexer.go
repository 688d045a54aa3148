package mock

import (
	"context"

	"github.com/fwojciec/refdoc"
)

var _ refdoc.Indexer = (*Indexer)(nil)

// Indexer is a mock implementation of refdoc.Indexer.
type Indexer struct {
	BuildIndexFn func(ctx context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error
}

func (i *Indexer) BuildIndex(ctx context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error {
	return i.BuildIndexFn(ctx, docs, dest, progress)
}
