package search_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/mkowalski/docbase"
	"github.com/mkowalski/docbase/mock"
	"github.com/mkowalski/docbase/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memIndex collects upserted chunks for assertions.
type memIndex struct {
	mu     sync.Mutex
	chunks map[string]*docbase.Chunk
}

func newMemIndex() *memIndex {
	return &memIndex{chunks: make(map[string]*docbase.Chunk)}
}

func (m *memIndex) mock() *mock.VectorIndex {
	return &mock.VectorIndex{
		UpsertFn: func(_ context.Context, chunks []*docbase.Chunk, vectors [][]float32) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, c := range chunks {
				m.chunks[c.ID] = c
			}
			return nil
		},
		IDsFn: func(_ context.Context, filter docbase.ChunkFilter) ([]string, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			var ids []string
			for id, c := range m.chunks {
				if filter.Category != nil && c.Meta.Common().Category != *filter.Category {
					continue
				}
				ids = append(ids, id)
			}
			return ids, nil
		},
		DeleteFn: func(_ context.Context, ids []string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, id := range ids {
				delete(m.chunks, id)
			}
			return nil
		},
	}
}

func constantEmbedder() *mock.Embedder {
	return &mock.Embedder{
		EmbedFn: func(_ context.Context, _ string) ([]float32, error) {
			return []float32{1, 0}, nil
		},
		EmbedBatchFn: func(_ context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{1, 0}
			}
			return vectors, nil
		},
	}
}

func testPage(content string) *docbase.Page {
	return &docbase.Page{
		ID:       "p-1",
		URL:      "https://x/docs/a",
		Title:    "Title",
		Section:  "Section",
		Topic:    "Topic",
		Category: "windchill",
		Content:  content,
	}
}

func TestIndexer_IndexPage_creates_text_and_image_chunks(t *testing.T) {
	t.Parallel()

	idx := newMemIndex()
	ix := search.NewIndexer(constantEmbedder(), idx.mock())

	images := []*docbase.Image{
		{URL: "https://x/img/1.png", AltText: "diagram", Title: "Release workflow"},
		{URL: "https://x/img/1.png", AltText: "diagram repeated"},
		{URL: "https://x/img/blank.png"}, // no text, no chunk
	}

	n, err := ix.IndexPage(context.Background(), testPage("Short page content."), images)

	require.NoError(t, err)
	assert.Equal(t, 2, n)

	textID := docbase.TextChunkID("windchill", "https://x/docs/a", 0)
	require.Contains(t, idx.chunks, textID)
	assert.Equal(t, "Short page content.", idx.chunks[textID].Text)

	imgID := docbase.ImageChunkID("windchill", "https://x/img/1.png")
	require.Contains(t, idx.chunks, imgID)
	assert.Equal(t, "Image: diagram. Title: Release workflow", idx.chunks[imgID].Text, "duplicate image URLs deduplicated, first wins")
}

func TestIndexer_IndexPage_splits_long_content(t *testing.T) {
	t.Parallel()

	idx := newMemIndex()
	ix := search.NewIndexer(constantEmbedder(), idx.mock())

	// Two sentences that together exceed the chunk size.
	content := strings.Repeat("a", 1000) + ". " + strings.Repeat("b", 1000) + "."

	n, err := ix.IndexPage(context.Background(), testPage(content), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first := idx.chunks[docbase.TextChunkID("windchill", "https://x/docs/a", 0)]
	require.NotNil(t, first)
	meta, ok := first.Meta.(docbase.TextChunkMeta)
	require.True(t, ok)
	assert.Equal(t, 0, meta.Index)
	assert.Equal(t, 2, meta.Total)
	assert.Equal(t, "windchill", meta.Category)
}

func TestIndexer_IndexPage_embeds_in_batches(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var batchSizes []int
	embedder := &mock.Embedder{
		EmbedBatchFn: func(_ context.Context, texts []string) ([][]float32, error) {
			mu.Lock()
			batchSizes = append(batchSizes, len(texts))
			mu.Unlock()
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{1}
			}
			return vectors, nil
		},
	}

	idx := newMemIndex()
	ix := search.NewIndexer(embedder, idx.mock())
	ix.ChunkSize = 20
	ix.ChunkOverlap = 0

	// 120 windows of 20 chars, no sentence boundaries.
	content := strings.Repeat("x", 20*120)
	n, err := ix.IndexPage(context.Background(), testPage(content), nil)

	require.NoError(t, err)
	assert.Equal(t, 120, n)

	total := 0
	for _, size := range batchSizes {
		assert.LessOrEqual(t, size, 100)
		total += size
	}
	assert.Equal(t, 120, total)
	assert.Len(t, batchSizes, 2)
}

func TestIndexer_IndexPage_skips_failed_batches(t *testing.T) {
	t.Parallel()

	embedder := &mock.Embedder{
		EmbedBatchFn: func(_ context.Context, texts []string) ([][]float32, error) {
			if len(texts) == 100 {
				return nil, docbase.Errorf(docbase.EUNAVAILABLE, "embedding service down")
			}
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{1}
			}
			return vectors, nil
		},
	}

	idx := newMemIndex()
	ix := search.NewIndexer(embedder, idx.mock())
	ix.ChunkSize = 20
	ix.ChunkOverlap = 0

	content := strings.Repeat("x", 20*150)
	n, err := ix.IndexPage(context.Background(), testPage(content), nil)

	require.Error(t, err, "failed batch is reported")
	assert.Equal(t, 50, n, "surviving batch is still upserted")
	assert.Len(t, idx.chunks, 50)
}

func TestIndexer_IndexPage_with_empty_page(t *testing.T) {
	t.Parallel()

	idx := newMemIndex()
	ix := search.NewIndexer(constantEmbedder(), idx.mock())

	n, err := ix.IndexPage(context.Background(), testPage(""), nil)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, idx.chunks)
}

func TestIndexer_DeleteCategory_removes_matching_chunks(t *testing.T) {
	t.Parallel()

	idx := newMemIndex()
	ix := search.NewIndexer(constantEmbedder(), idx.mock())
	ctx := context.Background()

	_, err := ix.IndexPage(ctx, testPage("windchill content"), nil)
	require.NoError(t, err)

	creoPage := testPage("creo content")
	creoPage.URL = "https://x/docs/creo"
	creoPage.Category = "creo"
	_, err = ix.IndexPage(ctx, creoPage, nil)
	require.NoError(t, err)

	deleted, err := ix.DeleteCategory(ctx, "windchill")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Len(t, idx.chunks, 1)

	deleted, err = ix.DeleteCategory(ctx, "windchill")
	require.NoError(t, err)
	assert.Zero(t, deleted, "second delete is a no-op")
}
