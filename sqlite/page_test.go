package sqlite_test

import (
	"context"
	"testing"

	"github.com/mkowalski/docbase"
	"github.com/mkowalski/docbase/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPage(url string) *docbase.Page {
	return &docbase.Page{
		URL:         url,
		Title:       "Configuring Workflows",
		Content:     "Workflow templates define the review process.",
		Section:     "Administration",
		Topic:       "Workflows",
		Category:    "windchill",
		ContentHash: docbase.Fingerprint("Workflow templates define the review process."),
	}
}

func TestPageService_CreatePage_assigns_id_and_fetched_at(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)
	ctx := context.Background()

	page := newTestPage("https://support.example.com/help/windchill/workflows.html")
	require.NoError(t, s.CreatePage(ctx, page))

	assert.NotEmpty(t, page.ID)
	assert.False(t, page.FetchedAt.IsZero())

	found, err := s.FindPageByURL(ctx, page.URL)
	require.NoError(t, err)
	assert.Equal(t, page.ID, found.ID)
	assert.Equal(t, page.Title, found.Title)
	assert.Equal(t, page.ContentHash, found.ContentHash)
}

func TestPageService_CreatePage_rejects_duplicate_url(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)
	ctx := context.Background()

	require.NoError(t, s.CreatePage(ctx, newTestPage("https://x/docs/a")))
	err := s.CreatePage(ctx, newTestPage("https://x/docs/a"))

	assert.Equal(t, docbase.ECONFLICT, docbase.ErrorCode(err))
}

func TestPageService_CreatePage_validates(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)

	err := s.CreatePage(context.Background(), &docbase.Page{URL: ""})
	assert.Equal(t, docbase.EINVALID, docbase.ErrorCode(err))
}

func TestPageService_FindPageByURL_returns_not_found(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)

	_, err := s.FindPageByURL(context.Background(), "https://x/docs/missing")
	assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
}

func TestPageService_UpdatePage_replaces_content_fields(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)
	ctx := context.Background()

	page := newTestPage("https://x/docs/a")
	require.NoError(t, s.CreatePage(ctx, page))

	page.Content = "Updated content."
	page.ContentHash = docbase.Fingerprint(page.Content)
	page.HasSolution = true
	page.AnswerCount = 4
	require.NoError(t, s.UpdatePage(ctx, page))

	found, err := s.FindPageByURL(ctx, page.URL)
	require.NoError(t, err)
	assert.Equal(t, "Updated content.", found.Content)
	assert.True(t, found.HasSolution)
	assert.Equal(t, 4, found.AnswerCount)
}

func TestPageService_UpdatePage_returns_not_found_for_unknown_id(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)

	page := newTestPage("https://x/docs/a")
	page.ID = "nope"
	err := s.UpdatePage(context.Background(), page)

	assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
}

func TestPageService_FindPages_filters_by_category_and_query(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)
	ctx := context.Background()

	a := newTestPage("https://x/docs/a")
	require.NoError(t, s.CreatePage(ctx, a))

	b := newTestPage("https://x/docs/b")
	b.Category = "creo"
	b.Title = "Sketching Basics"
	b.Content = "The sketcher constrains geometry."
	require.NoError(t, s.CreatePage(ctx, b))

	category := "creo"
	pages, err := s.FindPages(ctx, docbase.PageFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "https://x/docs/b", pages[0].URL)

	pages, err = s.FindPages(ctx, docbase.PageFilter{Query: "review process"})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "https://x/docs/a", pages[0].URL)
}

func TestPageService_ReplaceImages_swaps_the_owned_set(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)
	ctx := context.Background()

	page := newTestPage("https://x/docs/a")
	require.NoError(t, s.CreatePage(ctx, page))

	first := []*docbase.Image{
		{URL: "https://x/img/1.png", AltText: "one"},
		{URL: "https://x/img/2.png", AltText: "two"},
	}
	require.NoError(t, s.ReplaceImages(ctx, page.ID, first))

	second := []*docbase.Image{{URL: "https://x/img/3.png", AltText: "three", Title: "Third image"}}
	require.NoError(t, s.ReplaceImages(ctx, page.ID, second))

	images, err := s.FindImagesByPage(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://x/img/3.png", images[0].URL)
	assert.Equal(t, "Third image", images[0].Title)
	assert.Equal(t, page.ID, images[0].PageID)
}

func TestPageService_DeletePagesByCategory_cascades_to_images(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewPageService(db)
	ctx := context.Background()

	a := newTestPage("https://x/docs/a")
	require.NoError(t, s.CreatePage(ctx, a))
	require.NoError(t, s.ReplaceImages(ctx, a.ID, []*docbase.Image{{URL: "https://x/img/1.png"}}))

	b := newTestPage("https://x/docs/b")
	b.Category = "creo"
	require.NoError(t, s.CreatePage(ctx, b))

	deleted, err := s.DeletePagesByCategory(ctx, "windchill")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	images, err := s.FindImagesByPage(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, images)

	count, err := s.CountPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
