package index

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/refdoc"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of chunks embedded per backend call.
const DefaultBatchSize = 16

// embedConcurrency caps parallel embedding calls.
const embedConcurrency = 4

var _ refdoc.Indexer = (*Builder)(nil)

// Builder turns chunk documents into an embedded, persisted index. It
// embeds in concurrent batches and stores the result in one pass.
type Builder struct {
	Embedder refdoc.Embedder
	Store    refdoc.IndexStore

	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int
}

// BuildIndex embeds all docs and saves them to dest. Progress is
// reported per batch during the embed phase and once for the store
// phase; the callback may be nil.
func (b *Builder) BuildIndex(ctx context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error {
	if dest == "" {
		return refdoc.Errorf(refdoc.EINVALID, "index destination required")
	}
	if len(docs) == 0 {
		return refdoc.Errorf(refdoc.EINVALID, "no documents to index")
	}

	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	chunks := make([]*refdoc.IndexedChunk, len(docs))
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
		chunks[i] = &refdoc.IndexedChunk{
			ID:       doc.ID,
			DocID:    doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		}
	}

	report := reporter(progress)

	var embedded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Content
			}

			vectors, err := b.Embedder.EmbedTexts(gctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(batch) {
				return refdoc.Errorf(refdoc.EINTERNAL, "embedder returned %d vectors for %d chunks", len(vectors), len(batch))
			}

			for i, vector := range vectors {
				batch[i].Embedding = vector
			}

			done := embedded.Add(int64(len(batch)))
			report(refdoc.IndexProgress{
				Phase:   refdoc.IndexPhaseEmbed,
				Current: int(done),
				Total:   len(chunks),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	report(refdoc.IndexProgress{
		Phase: refdoc.IndexPhaseStore,
		Total: len(chunks),
	})
	if err := b.Store.SaveChunks(ctx, dest, chunks); err != nil {
		return err
	}
	report(refdoc.IndexProgress{
		Phase:   refdoc.IndexPhaseStore,
		Current: len(chunks),
		Total:   len(chunks),
	})

	return nil
}

// reporter wraps a progress callback so concurrent batches never call
// it in parallel. A nil callback yields a no-op.
func reporter(progress refdoc.IndexProgressFunc) refdoc.IndexProgressFunc {
	if progress == nil {
		return func(refdoc.IndexProgress) {}
	}
	var mu sync.Mutex
	return func(p refdoc.IndexProgress) {
		mu.Lock()
		defer mu.Unlock()
		progress(p)
	}
}
