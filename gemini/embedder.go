package gemini

import (
	"context"

	"github.com/fwojciec/refdoc"
	"google.golang.org/genai"
)

const defaultEmbeddingModel = "gemini-embedding-001"

// Ensure Embedder implements refdoc.Embedder at compile time.
var _ refdoc.Embedder = (*Embedder)(nil)

// Embedder implements refdoc.Embedder using the Gemini API.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model selects the default
// embedding model.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = defaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// EmbedTexts computes embedding vectors for the given texts, preserving
// input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, refdoc.Errorf(refdoc.EINVALID, "texts required")
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, refdoc.Errorf(refdoc.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(result), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range result.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, refdoc.Errorf(refdoc.EINTERNAL, "gemini returned empty embedding at index %d", i)
		}
		vectors[i] = embedding.Values
	}
	return vectors, nil
}

func embeddingCount(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}
