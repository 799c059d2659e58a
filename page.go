package docbase

import (
	"context"
	"time"
)

// Page represents one fetched unit of content: a documentation page or a
// synthesized forum-thread transcript. URL is globally unique.
type Page struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Section     string    `json:"section"`
	Topic       string    `json:"topic"`
	Category    string    `json:"category"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`

	// Forum-thread fields, used only for ranking, never identity.
	HasSolution bool `json:"hasSolution,omitempty"`
	AnswerCount int  `json:"answerCount,omitempty"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Category == "" {
		return Errorf(EINVALID, "page category required")
	}
	return nil
}

// Image represents an image extracted from a page, with the searchable text
// captured around it. Images are owned by their page and are fully replaced
// whenever the page is re-fetched with a changed fingerprint.
type Image struct {
	ID            string `json:"id"`
	PageID        string `json:"pageId"`
	URL           string `json:"url"`
	AltText       string `json:"altText"`
	Title         string `json:"title"`
	Caption       string `json:"caption"`
	ContextBefore string `json:"contextBefore"`
	ContextAfter  string `json:"contextAfter"`
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	Category *string `json:"category"`
	Section  *string `json:"section"`

	// Query matches a substring of the title or content.
	Query string `json:"query"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageService represents the relational store for pages and their images.
type PageService interface {
	// FindPageByURL retrieves a page by its unique URL.
	// Returns ENOTFOUND if no page exists for the URL.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// FindPages retrieves pages matching the filter, newest first.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)

	// CreatePage creates a new page. Assigns ID and FetchedAt.
	CreatePage(ctx context.Context, page *Page) error

	// UpdatePage updates the content and metadata fields of an existing
	// page, identified by ID. Refreshes FetchedAt.
	UpdatePage(ctx context.Context, page *Page) error

	// ReplaceImages removes all images owned by the page and inserts the
	// given set in their place.
	ReplaceImages(ctx context.Context, pageID string, images []*Image) error

	// FindImagesByPage returns the images owned by a page.
	FindImagesByPage(ctx context.Context, pageID string) ([]*Image, error)

	// DeletePagesByCategory removes all pages (and their images) for a
	// category. Returns the number of pages removed.
	DeletePagesByCategory(ctx context.Context, category string) (int, error)

	// CountPages returns the total number of stored pages.
	CountPages(ctx context.Context) (int, error)
}

// CrawlStats are the persisted statistics exposed after a crawl completes.
type CrawlStats struct {
	LastFullScrape time.Time `json:"lastFullScrape"`
	TotalPages     int       `json:"totalPages"`
	ScrapeDuration int       `json:"scrapeDuration"` // seconds
}

// StatsService persists crawl statistics.
type StatsService interface {
	// FindStats returns the stored stats. Returns ENOTFOUND before the
	// first completed crawl.
	FindStats(ctx context.Context) (*CrawlStats, error)

	// RecordCrawl replaces the stored stats with the given values.
	RecordCrawl(ctx context.Context, stats *CrawlStats) error
}

// ErrorLog is a persisted page-level crawl error, kept for later inspection.
type ErrorLog struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	StackTrace string    `json:"stackTrace,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrorLogService persists crawl errors.
type ErrorLogService interface {
	// LogError records an error. Assigns ID and CreatedAt.
	LogError(ctx context.Context, e *ErrorLog) error

	// FindErrorLogs returns the most recent errors, newest first.
	FindErrorLogs(ctx context.Context, limit int) ([]*ErrorLog, error)
}
