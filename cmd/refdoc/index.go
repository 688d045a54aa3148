package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/refdoc"
)

// Run executes the index command. Chunking happens upstream; the input
// file carries the final ordered chunk list.
func (c *IndexCmd) Run(deps *Dependencies) error {
	docs, err := readChunks(c.Chunks)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refdoc.ErrorMessage(err))
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no chunks in %s\n", c.Chunks)
		return refdoc.Errorf(refdoc.EINVALID, "no chunks in %s", c.Chunks)
	}

	progress := func(p refdoc.IndexProgress) {
		fmt.Fprintf(deps.Stderr, "%s: %d/%d\n", p.Phase, p.Current, p.Total)
	}

	if err := deps.Queue.Submit(deps.Ctx, docs, c.Dest, progress); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "indexed %d chunks into %s\n", len(docs), c.Dest)
	return nil
}

// readChunks loads a JSON list of chunk documents.
func readChunks(path string) ([]*refdoc.ChunkDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, refdoc.Errorf(refdoc.ENOTFOUND, "cannot read chunk file: %v", err)
	}

	var docs []*refdoc.ChunkDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, refdoc.Errorf(refdoc.EINVALID, "invalid chunk file %s: %v", path, err)
	}
	return docs, nil
}
