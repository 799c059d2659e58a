package search

import (
	"context"
	"strings"

	"github.com/mkowalski/docbase"
)

// DefaultSearchLimit is the number of chunks returned when the caller does
// not set one.
const DefaultSearchLimit = 5

// maxChunksPerSource caps how many chunks of one source URL can appear in a
// result set, so a single long page cannot crowd out the rest of the
// corpus.
const maxChunksPerSource = 2

// Overfetch multipliers. Post-query filtering and the diversity cap discard
// candidates, so the index is asked for more than the caller wants. The
// narrower the metadata filter, the more aggressively results get discarded
// later.
const (
	overfetchFiltered = 3
	overfetchDefault  = 2
)

// categoryKeywords are the product families whose documentation URLs are
// mutually exclusive. Used by the URL guard below.
var categoryKeywords = []string{"windchill", "creo"}

// Ensure Retriever implements docbase.SearchService at compile time.
var _ docbase.SearchService = (*Retriever)(nil)

// Retriever implements docbase.SearchService: embed the query, run a
// filtered nearest-neighbor search, then post-process for metadata
// correctness and source diversity.
type Retriever struct {
	embedder docbase.Embedder
	index    docbase.VectorIndex
}

// NewRetriever creates a new Retriever.
func NewRetriever(embedder docbase.Embedder, index docbase.VectorIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Search returns up to opts.Limit chunks relevant to the query, ascending
// by distance. Results honor the category and topic filters, include at
// most two chunks per source URL, and are never padded with filler when
// fewer candidates survive.
func (r *Retriever) Search(ctx context.Context, query string, opts docbase.SearchOptions) ([]docbase.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, docbase.Errorf(docbase.EINVALID, "query required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var filter docbase.ChunkFilter
	overfetch := overfetchDefault
	if opts.Category != "" {
		filter.Category = &opts.Category
	}
	if opts.Topic != "" {
		filter.Topic = &opts.Topic
	}
	if filter.Category != nil && filter.Topic != nil {
		overfetch = overfetchFiltered
	}

	candidates, err := r.index.Query(ctx, vector, overfetch*limit, filter)
	if err != nil {
		return nil, err
	}

	perSource := make(map[string]int)
	var results []docbase.Match
	for _, m := range candidates {
		common := m.Chunk.Meta.Common()

		// The index already filtered on category; re-checking here keeps a
		// stale or mistagged chunk from leaking across categories.
		if opts.Category != "" && common.Category != opts.Category {
			continue
		}
		if opts.Category != "" && !urlMatchesCategory(common.SourceURL, opts.Category) {
			continue
		}

		if perSource[common.SourceURL] >= maxChunksPerSource {
			continue
		}
		perSource[common.SourceURL]++

		results = append(results, m)
		if len(results) == limit {
			break
		}
	}

	return results, nil
}

// urlMatchesCategory rejects chunks whose source URL names a sibling
// product family: a "creo" URL has no business answering a "windchill"
// query even if its metadata says otherwise. Metadata correctness at index
// time is the real fix; this guard is a fallback against drift.
func urlMatchesCategory(sourceURL, category string) bool {
	keyword := docbase.Keyword(category)

	lower := strings.ToLower(sourceURL)
	for _, other := range categoryKeywords {
		if other == keyword {
			continue
		}
		if strings.Contains(lower, other) && !strings.Contains(lower, keyword) {
			return false
		}
	}
	return true
}
