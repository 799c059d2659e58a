// Package search turns stored pages into indexed chunks and answers
// queries against the vector index: chunking/indexing, diversity-aware
// retrieval, and answer generation over retrieved context.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkowalski/docbase"
	"golang.org/x/sync/errgroup"
)

// embedBatchSize bounds the number of chunks sent to the embedder per
// request.
const embedBatchSize = 100

// embedConcurrency bounds concurrent embedding requests.
const embedConcurrency = 4

// Ensure Indexer implements docbase.IndexService at compile time.
var _ docbase.IndexService = (*Indexer)(nil)

// Indexer implements docbase.IndexService: it chunks pages, embeds the
// chunks in batches and upserts them into the vector index.
type Indexer struct {
	embedder docbase.Embedder
	index    docbase.VectorIndex

	// ChunkSize and ChunkOverlap default to the docbase constants.
	ChunkSize    int
	ChunkOverlap int
}

// NewIndexer creates a new Indexer.
func NewIndexer(embedder docbase.Embedder, index docbase.VectorIndex) *Indexer {
	return &Indexer{
		embedder:     embedder,
		index:        index,
		ChunkSize:    docbase.DefaultChunkSize,
		ChunkOverlap: docbase.DefaultChunkOverlap,
	}
}

// IndexPage chunks the page and its images, embeds the chunks and upserts
// them. Embedding runs in parallel batch requests; a failed batch is
// skipped and reported without blocking the others. Returns the number of
// chunks upserted.
func (ix *Indexer) IndexPage(ctx context.Context, page *docbase.Page, images []*docbase.Image) (int, error) {
	chunks := ix.buildChunks(page, images)
	if len(chunks) == 0 {
		return 0, nil
	}

	type batch struct {
		chunks  []*docbase.Chunk
		vectors [][]float32
		err     error
	}

	var batches []*batch
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, &batch{chunks: chunks[start:end]})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for _, b := range batches {
		g.Go(func() error {
			texts := make([]string, len(b.chunks))
			for i, c := range b.chunks {
				texts[i] = c.Text
			}
			// Failures stay on the batch so the siblings keep running.
			b.vectors, b.err = ix.embedder.EmbedBatch(gctx, texts)
			return nil
		})
	}
	g.Wait()

	var upserted int
	var failures []string
	for i, b := range batches {
		if b.err != nil {
			failures = append(failures, fmt.Sprintf("batch %d: %s", i, b.err))
			continue
		}
		if err := ix.index.Upsert(ctx, b.chunks, b.vectors); err != nil {
			failures = append(failures, fmt.Sprintf("batch %d: %s", i, err))
			continue
		}
		upserted += len(b.chunks)
	}

	if len(failures) > 0 {
		return upserted, docbase.Errorf(docbase.EINTERNAL, "indexing %s: %s", page.URL, strings.Join(failures, "; "))
	}
	return upserted, nil
}

// DeleteCategory removes every chunk of a category from the index and
// returns the number deleted.
func (ix *Indexer) DeleteCategory(ctx context.Context, category string) (int, error) {
	ids, err := ix.index.IDs(ctx, docbase.ChunkFilter{Category: &category})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := ix.index.Delete(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// buildChunks splits the page text into overlapping chunks and appends one
// chunk per distinct image URL. Chunk ids are deterministic so re-indexing
// a page replaces its chunks instead of appending.
func (ix *Indexer) buildChunks(page *docbase.Page, images []*docbase.Image) []*docbase.Chunk {
	fields := docbase.ChunkFields{
		SourceURL: page.URL,
		Title:     page.Title,
		Section:   page.Section,
		Topic:     page.Topic,
		Category:  page.Category,
	}

	size, overlap := ix.ChunkSize, ix.ChunkOverlap
	if size <= 0 {
		size, overlap = docbase.DefaultChunkSize, docbase.DefaultChunkOverlap
	}

	var chunks []*docbase.Chunk
	var texts []string
	if strings.TrimSpace(page.Content) != "" {
		texts = docbase.SplitText(page.Content, size, overlap)
	}
	for i, text := range texts {
		chunks = append(chunks, &docbase.Chunk{
			ID:   docbase.TextChunkID(page.Category, page.URL, i),
			Text: text,
			Meta: docbase.TextChunkMeta{
				ChunkFields: fields,
				Index:       i,
				Total:       len(texts),
			},
		})
	}

	seenImages := make(map[string]bool)
	for _, img := range images {
		if seenImages[img.URL] {
			continue
		}
		seenImages[img.URL] = true

		text := docbase.ImageChunkText(img.AltText, img.Title, img.Caption, img.ContextBefore, img.ContextAfter)
		if text == "" {
			continue
		}
		chunks = append(chunks, &docbase.Chunk{
			ID:   docbase.ImageChunkID(page.Category, img.URL),
			Text: text,
			Meta: docbase.ImageChunkMeta{
				ChunkFields:  fields,
				ImageURL:     img.URL,
				ImageAlt:     img.AltText,
				ImageCaption: img.Caption,
			},
		})
	}

	return chunks
}
