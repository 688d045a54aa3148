package mock

import (
	"context"

	"github.com/fwojciec/refdoc"
)

var _ refdoc.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of refdoc.IndexStore.
type IndexStore struct {
	SaveChunksFn func(ctx context.Context, dest string, chunks []*refdoc.IndexedChunk) error
}

func (s *IndexStore) SaveChunks(ctx context.Context, dest string, chunks []*refdoc.IndexedChunk) error {
	return s.SaveChunksFn(ctx, dest, chunks)
}
