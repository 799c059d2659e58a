package search_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/mkowalski/docbase"
	"github.com/mkowalski/docbase/mock"
	"github.com/mkowalski/docbase/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(id, category, topic, sourceURL string, distance float64) docbase.Match {
	return docbase.Match{
		Chunk: &docbase.Chunk{
			ID:   id,
			Text: "text of " + id,
			Meta: docbase.TextChunkMeta{
				ChunkFields: docbase.ChunkFields{
					SourceURL: sourceURL,
					Title:     "Title",
					Topic:     topic,
					Category:  category,
				},
			},
		},
		Distance: distance,
	}
}

func fixedIndex(matches []docbase.Match) *mock.VectorIndex {
	return &mock.VectorIndex{
		QueryFn: func(_ context.Context, _ []float32, n int, _ docbase.ChunkFilter) ([]docbase.Match, error) {
			if len(matches) > n {
				return matches[:n], nil
			}
			return matches, nil
		},
	}
}

func TestRetriever_Search_returns_nearest_matches(t *testing.T) {
	t.Parallel()

	matches := []docbase.Match{
		match("c-1", "windchill", "Workflows", "https://x/windchill/a", 0.1),
		match("c-2", "windchill", "Workflows", "https://x/windchill/b", 0.2),
	}

	r := search.NewRetriever(constantEmbedder(), fixedIndex(matches))
	got, err := r.Search(context.Background(), "how do workflows work", docbase.SearchOptions{Limit: 5})

	require.NoError(t, err)
	require.Len(t, got, 2, "never padded beyond available candidates")
	assert.Equal(t, "c-1", got[0].Chunk.ID)
	assert.Equal(t, "c-2", got[1].Chunk.ID)
}

func TestRetriever_Search_rejects_empty_query(t *testing.T) {
	t.Parallel()

	r := search.NewRetriever(constantEmbedder(), fixedIndex(nil))
	_, err := r.Search(context.Background(), "   ", docbase.SearchOptions{})

	assert.Equal(t, docbase.EINVALID, docbase.ErrorCode(err))
}

func TestRetriever_Search_passes_filters_and_overfetches(t *testing.T) {
	t.Parallel()

	var gotN int
	var gotFilter docbase.ChunkFilter
	index := &mock.VectorIndex{
		QueryFn: func(_ context.Context, _ []float32, n int, filter docbase.ChunkFilter) ([]docbase.Match, error) {
			gotN = n
			gotFilter = filter
			return nil, nil
		},
	}

	r := search.NewRetriever(constantEmbedder(), index)

	_, err := r.Search(context.Background(), "q", docbase.SearchOptions{Limit: 5, Category: "windchill"})
	require.NoError(t, err)
	assert.Equal(t, 10, gotN, "single filter overfetches 2x")
	require.NotNil(t, gotFilter.Category)
	assert.Equal(t, "windchill", *gotFilter.Category)
	assert.Nil(t, gotFilter.Topic)

	_, err = r.Search(context.Background(), "q", docbase.SearchOptions{Limit: 5, Category: "windchill", Topic: "Workflows"})
	require.NoError(t, err)
	assert.Equal(t, 15, gotN, "both filters overfetch 3x")
	require.NotNil(t, gotFilter.Topic)
	assert.Equal(t, "Workflows", *gotFilter.Topic)
}

func TestRetriever_Search_drops_mistagged_categories(t *testing.T) {
	t.Parallel()

	matches := []docbase.Match{
		match("c-1", "windchill", "T", "https://x/windchill/a", 0.1),
		match("c-2", "creo", "T", "https://x/creo/b", 0.2), // mistagged leak
		match("c-3", "windchill", "T", "https://x/windchill/c", 0.3),
	}

	r := search.NewRetriever(constantEmbedder(), fixedIndex(matches))
	got, err := r.Search(context.Background(), "q", docbase.SearchOptions{Limit: 5, Category: "windchill"})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c-1", got[0].Chunk.ID)
	assert.Equal(t, "c-3", got[1].Chunk.ID)
}

func TestRetriever_Search_guards_against_sibling_product_urls(t *testing.T) {
	t.Parallel()

	// Metadata says windchill but the URL belongs to the creo help center.
	matches := []docbase.Match{
		match("c-1", "windchill", "T", "https://support.ptc.com/help/creo/sketching", 0.1),
		match("c-2", "windchill", "T", "https://support.ptc.com/help/windchill/workflows", 0.2),
	}

	r := search.NewRetriever(constantEmbedder(), fixedIndex(matches))
	got, err := r.Search(context.Background(), "q", docbase.SearchOptions{Limit: 5, Category: "windchill"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c-2", got[0].Chunk.ID)
}

func TestRetriever_Search_applies_guard_for_community_categories(t *testing.T) {
	t.Parallel()

	// community-windchill strips to the "windchill" keyword, so community
	// thread URLs mentioning windchill pass while creo URLs are rejected.
	matches := []docbase.Match{
		match("c-1", "community-windchill", "Q&A", "https://community.ptc.com/t5/Windchill/td-p/1", 0.1),
		match("c-2", "community-windchill", "Q&A", "https://community.ptc.com/t5/Creo-Parametric/td-p/2", 0.2),
	}

	r := search.NewRetriever(constantEmbedder(), fixedIndex(matches))
	got, err := r.Search(context.Background(), "q", docbase.SearchOptions{Limit: 5, Category: "community-windchill"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].Chunk.ID)
}

func TestRetriever_Search_caps_chunks_per_source(t *testing.T) {
	t.Parallel()

	var matches []docbase.Match
	for i := 0; i < 6; i++ {
		matches = append(matches, match(
			fmt.Sprintf("same-%d", i), "windchill", "T", "https://x/windchill/long-page", float64(i)*0.01))
	}
	matches = append(matches,
		match("other-1", "windchill", "T", "https://x/windchill/other", 0.5),
		match("other-2", "windchill", "T", "https://x/windchill/third", 0.6),
	)

	r := search.NewRetriever(constantEmbedder(), fixedIndex(matches))
	got, err := r.Search(context.Background(), "q", docbase.SearchOptions{Limit: 10, Category: "windchill"})

	require.NoError(t, err)
	require.Len(t, got, 4, "two from the dominant page plus the two other sources")
	assert.Equal(t, "same-0", got[0].Chunk.ID)
	assert.Equal(t, "same-1", got[1].Chunk.ID)
	assert.Equal(t, "other-1", got[2].Chunk.ID)
	assert.Equal(t, "other-2", got[3].Chunk.ID)
}

func TestRetriever_Search_defaults_limit(t *testing.T) {
	t.Parallel()

	var matches []docbase.Match
	for i := 0; i < 20; i++ {
		matches = append(matches, match(
			fmt.Sprintf("c-%d", i), "windchill", "T", fmt.Sprintf("https://x/windchill/p%d", i), float64(i)*0.01))
	}

	r := search.NewRetriever(constantEmbedder(), fixedIndex(matches))
	got, err := r.Search(context.Background(), "q", docbase.SearchOptions{})

	require.NoError(t, err)
	assert.Len(t, got, 5)
}
