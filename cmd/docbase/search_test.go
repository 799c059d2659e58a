package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mkowalski/docbase"
	main "github.com/mkowalski/docbase/cmd/docbase"
	"github.com/mkowalski/docbase/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints ranked results with titles and URLs", func(t *testing.T) {
		t.Parallel()

		var gotOpts docbase.SearchOptions
		searchSvc := &mock.SearchService{
			SearchFn: func(_ context.Context, query string, opts docbase.SearchOptions) ([]docbase.Match, error) {
				gotOpts = opts
				return []docbase.Match{
					{
						Chunk: &docbase.Chunk{
							ID: "c1",
							Meta: docbase.TextChunkMeta{
								ChunkFields: docbase.ChunkFields{
									SourceURL: "https://docs.example.com/help/a",
									Title:     "Change Management",
								},
							},
						},
						Distance: 0.12,
					},
					{
						Chunk: &docbase.Chunk{
							ID: "c2",
							Meta: docbase.TextChunkMeta{
								ChunkFields: docbase.ChunkFields{
									SourceURL: "https://docs.example.com/help/b",
									Title:     "Workflows",
								},
							},
						},
						Distance: 0.30,
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Search: searchSvc,
		}

		cmd := &main.SearchCmd{Query: "change orders", Category: "windchill", Limit: 5}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "windchill", gotOpts.Category)
		assert.Equal(t, 5, gotOpts.Limit)

		output := stdout.String()
		assert.Contains(t, output, "1. Change Management")
		assert.Contains(t, output, "https://docs.example.com/help/a")
		assert.Contains(t, output, "2. Workflows")
	})

	t.Run("reports when nothing matches", func(t *testing.T) {
		t.Parallel()

		searchSvc := &mock.SearchService{
			SearchFn: func(_ context.Context, _ string, _ docbase.SearchOptions) ([]docbase.Match, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Search: searchSvc,
		}

		cmd := &main.SearchCmd{Query: "nothing here", Limit: 5}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No results.")
	})

	t.Run("returns error when search fails", func(t *testing.T) {
		t.Parallel()

		searchErr := docbase.Errorf(docbase.EINVALID, "query required")
		searchSvc := &mock.SearchService{
			SearchFn: func(_ context.Context, _ string, _ docbase.SearchOptions) ([]docbase.Match, error) {
				return nil, searchErr
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Search: searchSvc,
		}

		cmd := &main.SearchCmd{Query: "", Limit: 5}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, searchErr, err)
		assert.Contains(t, stderr.String(), "query required")
	})
}
