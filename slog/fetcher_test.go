package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/mkowalski/docbase"
	"github.com/mkowalski/docbase/mock"
	docslog "github.com/mkowalski/docbase/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", docbase.Errorf(docbase.EUNAVAILABLE, "HTTP 503 for %s", url)
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "HTTP 503")
	})
}

func TestLoggingIndexService_IndexPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.IndexService{
		IndexPageFn: func(ctx context.Context, page *docbase.Page, images []*docbase.Image) (int, error) {
			return 3, nil
		},
	}

	svc := docslog.NewLoggingIndexService(inner, logger)
	n, err := svc.IndexPage(context.Background(), &docbase.Page{URL: "https://x/a", Category: "windchill"}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	output := buf.String()
	assert.Contains(t, output, "index page")
	assert.Contains(t, output, "category=windchill")
	assert.Contains(t, output, "chunks=3")
}
