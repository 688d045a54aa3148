package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/refdoc"
	main "github.com/fwojciec/refdoc/cmd/refdoc"
	"github.com/fwojciec/refdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunkFile(t *testing.T, docs []*refdoc.ChunkDoc) string {
	t.Helper()
	data, err := json.Marshal(docs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "chunks.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestIndexCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("submits chunk documents to the queue", func(t *testing.T) {
		t.Parallel()

		chunks := writeChunkFile(t, []*refdoc.ChunkDoc{
			{ID: "c1", Content: "First chunk.", Metadata: refdoc.ChunkMetadata{Source: "README.md"}},
			{ID: "c2", Content: "Second chunk."},
		})

		var submittedDocs []*refdoc.ChunkDoc
		var submittedDest string
		queue := &mock.IndexQueue{
			SubmitFn: func(_ context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error {
				submittedDocs = docs
				submittedDest = dest
				if progress != nil {
					progress(refdoc.IndexProgress{Phase: refdoc.IndexPhaseEmbed, Current: 1, Total: len(docs)})
				}
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Queue:  queue,
		}

		dest := filepath.Join(t.TempDir(), "index.db")
		cmd := &main.IndexCmd{Dest: dest, Chunks: chunks}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.Len(t, submittedDocs, 2)
		assert.Equal(t, "c1", submittedDocs[0].ID)
		assert.Equal(t, "README.md", submittedDocs[0].Metadata.Source)
		assert.Equal(t, dest, submittedDest)
		assert.Contains(t, stdout.String(), "indexed 2 chunks")
		assert.Contains(t, stderr.String(), "embed: 1/2")
	})

	t.Run("returns error when chunk file is missing", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Queue:  &mock.IndexQueue{},
		}

		cmd := &main.IndexCmd{
			Dest:   filepath.Join(t.TempDir(), "index.db"),
			Chunks: filepath.Join(t.TempDir(), "missing.json"),
		}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, refdoc.ENOTFOUND, refdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("returns error for malformed chunk file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chunks.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Queue:  &mock.IndexQueue{},
		}

		cmd := &main.IndexCmd{Dest: filepath.Join(t.TempDir(), "index.db"), Chunks: path}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, refdoc.EINVALID, refdoc.ErrorCode(err))
	})

	t.Run("returns error for empty chunk list", func(t *testing.T) {
		t.Parallel()

		chunks := writeChunkFile(t, []*refdoc.ChunkDoc{})

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Queue:  &mock.IndexQueue{},
		}

		cmd := &main.IndexCmd{Dest: filepath.Join(t.TempDir(), "index.db"), Chunks: chunks}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, refdoc.EINVALID, refdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no chunks")
	})

	t.Run("propagates queue errors", func(t *testing.T) {
		t.Parallel()

		chunks := writeChunkFile(t, []*refdoc.ChunkDoc{{ID: "c1", Content: "text"}})

		queue := &mock.IndexQueue{
			SubmitFn: func(_ context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error {
				return refdoc.Errorf(refdoc.EUNAVAILABLE, "index queue is shut down")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Queue:  queue,
		}

		cmd := &main.IndexCmd{Dest: filepath.Join(t.TempDir(), "index.db"), Chunks: chunks}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, refdoc.EUNAVAILABLE, refdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
