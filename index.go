package refdoc

import "context"

// ChunkDoc is one ordered chunk of a document submitted for indexing.
// Chunking policy is an external collaborator; chunks arrive final.
type ChunkDoc struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata contains contextual information about a chunk.
type ChunkMetadata struct {
	// Header hierarchy from the document (e.g., {"h1": "API", "h2": "Auth"})
	Headers map[string]string `json:"headers,omitempty"`

	// Position in the original document
	StartLine int `json:"startLine,omitempty"`
	EndLine   int `json:"endLine,omitempty"`

	// Source identifier for citation
	Source string `json:"source,omitempty"`
}

// Validate returns an error if the chunk document contains invalid fields.
func (d *ChunkDoc) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "chunk document ID required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "chunk document content required")
	}
	return nil
}

// Index build phases reported through IndexProgress.
const (
	IndexPhaseEmbed = "embed"
	IndexPhaseStore = "store"
)

// IndexProgress reports progress during an index build.
type IndexProgress struct {
	Phase   string
	Current int
	Total   int
}

// IndexProgressFunc is a callback for reporting index build progress.
// Progress is delivered only to the submitter of the task it belongs to.
type IndexProgressFunc func(p IndexProgress)

// Indexer builds a semantic search index over chunk documents. The
// embedding algorithm itself is an external capability behind Embedder.
type Indexer interface {
	BuildIndex(ctx context.Context, docs []*ChunkDoc, dest string, progress IndexProgressFunc) error
}

// IndexQueue serializes index builds through a single persistent
// background worker. Tasks execute strictly one at a time in submission
// order; at most one task executes at any moment.
type IndexQueue interface {
	// Submit enqueues an index build and blocks until it completes or the
	// context is done. Concurrent submitters are serialized FIFO.
	Submit(ctx context.Context, docs []*ChunkDoc, dest string, progress IndexProgressFunc) error

	// Shutdown requests graceful worker exit, waiting a bounded grace
	// period before abandoning the worker.
	Shutdown(ctx context.Context) error
}

// Embedder computes embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IndexedChunk is a chunk with its computed embedding, ready for storage.
type IndexedChunk struct {
	ID          string
	DocID       string
	Content     string
	ContentHash string
	Embedding   []float32
	Metadata    ChunkMetadata
}

// IndexStore persists indexed chunks to a destination index file.
type IndexStore interface {
	SaveChunks(ctx context.Context, dest string, chunks []*IndexedChunk) error
}
