package mock

import (
	"context"

	"github.com/mkowalski/docbase"
)

var _ docbase.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docbase.Embedder.
type Embedder struct {
	EmbedFn      func(ctx context.Context, text string) ([]float32, error)
	EmbedBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedBatchFn(ctx, texts)
}

var _ docbase.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of docbase.VectorIndex.
type VectorIndex struct {
	UpsertFn func(ctx context.Context, chunks []*docbase.Chunk, vectors [][]float32) error
	QueryFn  func(ctx context.Context, vector []float32, n int, filter docbase.ChunkFilter) ([]docbase.Match, error)
	DeleteFn func(ctx context.Context, ids []string) error
	IDsFn    func(ctx context.Context, filter docbase.ChunkFilter) ([]string, error)
	CountFn  func(ctx context.Context, filter docbase.ChunkFilter) (int, error)
}

func (i *VectorIndex) Upsert(ctx context.Context, chunks []*docbase.Chunk, vectors [][]float32) error {
	return i.UpsertFn(ctx, chunks, vectors)
}

func (i *VectorIndex) Query(ctx context.Context, vector []float32, n int, filter docbase.ChunkFilter) ([]docbase.Match, error) {
	return i.QueryFn(ctx, vector, n, filter)
}

func (i *VectorIndex) Delete(ctx context.Context, ids []string) error {
	return i.DeleteFn(ctx, ids)
}

func (i *VectorIndex) IDs(ctx context.Context, filter docbase.ChunkFilter) ([]string, error) {
	return i.IDsFn(ctx, filter)
}

func (i *VectorIndex) Count(ctx context.Context, filter docbase.ChunkFilter) (int, error) {
	if i.CountFn == nil {
		return 0, nil
	}
	return i.CountFn(ctx, filter)
}

var _ docbase.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of docbase.IndexService.
type IndexService struct {
	IndexPageFn      func(ctx context.Context, page *docbase.Page, images []*docbase.Image) (int, error)
	DeleteCategoryFn func(ctx context.Context, category string) (int, error)
}

func (s *IndexService) IndexPage(ctx context.Context, page *docbase.Page, images []*docbase.Image) (int, error) {
	return s.IndexPageFn(ctx, page, images)
}

func (s *IndexService) DeleteCategory(ctx context.Context, category string) (int, error) {
	return s.DeleteCategoryFn(ctx, category)
}

var _ docbase.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of docbase.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts docbase.SearchOptions) ([]docbase.Match, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts docbase.SearchOptions) ([]docbase.Match, error) {
	return s.SearchFn(ctx, query, opts)
}

var _ docbase.Generator = (*Generator)(nil)

// Generator is a mock implementation of docbase.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, system, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	return g.GenerateFn(ctx, system, prompt)
}
