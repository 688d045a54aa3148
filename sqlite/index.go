package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/refdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ refdoc.IndexStore = (*IndexStore)(nil)

// IndexStore persists indexed chunks to destination SQLite files. Each
// destination is an independent index; the store opens it per call.
type IndexStore struct{}

// NewIndexStore creates a new IndexStore.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h)
	return hex.EncodeToString(b)
}

// SaveChunks writes chunks and their embeddings to the destination index
// in order. Chunks whose content already exists in the index are skipped;
// dedup is exact, by content hash.
func (s *IndexStore) SaveChunks(ctx context.Context, dest string, chunks []*refdoc.IndexedChunk) error {
	if dest == "" {
		return refdoc.Errorf(refdoc.EINVALID, "index destination required")
	}

	db := NewDB(dest)
	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	now := time.Now().UTC().Format(time.RFC3339)

	for position, chunk := range chunks {
		if chunk.Content == "" {
			return refdoc.Errorf(refdoc.EINVALID, "chunk content required")
		}

		id := chunk.ID
		if id == "" {
			id = uuid.New().String()
		}
		hash := chunk.ContentHash
		if hash == "" {
			hash = hashContent(chunk.Content)
		}

		headers, err := encodeHeaders(chunk.Metadata.Headers)
		if err != nil {
			return err
		}

		_, err = db.ExecContext(ctx, `
			INSERT INTO chunks (id, doc_id, content, content_hash, embedding, headers, start_line, end_line, source, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(content_hash) DO NOTHING
		`, id, chunk.DocID, chunk.Content, hash, encodeEmbedding(chunk.Embedding), headers,
			chunk.Metadata.StartLine, chunk.Metadata.EndLine, chunk.Metadata.Source, position, now)
		if err != nil {
			return err
		}
	}

	return nil
}

// LoadChunks reads all chunks from a destination index in stored order.
func (s *IndexStore) LoadChunks(ctx context.Context, dest string) ([]*refdoc.IndexedChunk, error) {
	db := NewDB(dest)
	if err := db.Open(); err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, doc_id, content, content_hash, embedding, headers, start_line, end_line, source
		FROM chunks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*refdoc.IndexedChunk
	for rows.Next() {
		var chunk refdoc.IndexedChunk
		var embedding []byte
		var headers string

		if err := rows.Scan(&chunk.ID, &chunk.DocID, &chunk.Content, &chunk.ContentHash,
			&embedding, &headers, &chunk.Metadata.StartLine, &chunk.Metadata.EndLine,
			&chunk.Metadata.Source); err != nil {
			return nil, err
		}

		chunk.Embedding = decodeEmbedding(embedding)
		chunk.Metadata.Headers, err = decodeHeaders(headers)
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, &chunk)
	}

	return chunks, rows.Err()
}

// encodeEmbedding serializes a vector as little-endian float32 values.
func encodeEmbedding(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeEmbedding deserializes a little-endian float32 vector.
func decodeEmbedding(buf []byte) []float32 {
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vector
}

func encodeHeaders(headers map[string]string) (string, error) {
	if len(headers) == 0 {
		return "", nil
	}
	data, err := json.Marshal(headers)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeHeaders(value string) (map[string]string, error) {
	if value == "" {
		return nil, nil
	}
	var headers map[string]string
	if err := json.Unmarshal([]byte(value), &headers); err != nil {
		return nil, err
	}
	return headers, nil
}
