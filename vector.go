package docbase

import "context"

// Embedder converts text into fixed-length vectors. Implementations must be
// deterministic for identical input to keep chunk upserts idempotent.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkFilter is a metadata filter for vector index operations. Nil fields
// match everything.
type ChunkFilter struct {
	Category *string
	Topic    *string
	Type     *ChunkType
}

// Match is one ranked result from a vector query. Smaller distance means
// more relevant.
type Match struct {
	Chunk    *Chunk  `json:"chunk"`
	Distance float64 `json:"distance"`
}

// VectorIndex stores chunk embeddings and supports filtered nearest-neighbor
// queries. Upsert semantics are keyed by the deterministic chunk id so
// re-indexing an unchanged page is a no-op at the index level.
type VectorIndex interface {
	// Upsert inserts or replaces chunks with their embedding vectors.
	// vectors[i] is the embedding of chunks[i].
	Upsert(ctx context.Context, chunks []*Chunk, vectors [][]float32) error

	// Query returns up to n chunks nearest to the vector, ascending by
	// distance, restricted to chunks matching the filter.
	Query(ctx context.Context, vector []float32, n int, filter ChunkFilter) ([]Match, error)

	// Delete removes chunks by id. Unknown ids are ignored.
	Delete(ctx context.Context, ids []string) error

	// IDs returns the ids of all chunks matching the filter.
	IDs(ctx context.Context, filter ChunkFilter) ([]string, error)

	// Count returns the number of chunks matching the filter.
	Count(ctx context.Context, filter ChunkFilter) (int, error)
}

// IndexService turns pages into indexed chunks and removes them again.
type IndexService interface {
	// IndexPage chunks the page and its images, embeds the chunks and
	// upserts them. Returns the number of chunks upserted. Failed batches
	// are skipped; the error aggregates per-batch failures.
	IndexPage(ctx context.Context, page *Page, images []*Image) (int, error)

	// DeleteCategory removes every chunk of a category from the index.
	// Returns the number of chunks deleted.
	DeleteCategory(ctx context.Context, category string) (int, error)
}

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Limit is the maximum number of chunks to return. Defaults to 5.
	Limit int

	// Category restricts results to one crawl target's chunks.
	Category string

	// Topic restricts results to one topic.
	Topic string
}

// SearchService returns diverse, filtered context chunks for a query,
// ordered by ascending vector distance.
type SearchService interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]Match, error)
}
