package mock

import (
	"context"

	"github.com/fwojciec/refdoc"
)

var _ refdoc.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of refdoc.Embedder.
type Embedder struct {
	EmbedTextsFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedTextsFn(ctx, texts)
}
