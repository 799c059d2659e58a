// Package crawl provides the crawl-and-index pipeline: a polite, resumable
// breadth-first crawler with change detection that hands fetched pages to
// the chunk indexer. It coordinates the fetcher, parsers, relational store
// and vector index without knowing their implementations.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mkowalski/docbase"
)

// Frontier sizing for Bloom filter deduplication.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// DefaultMaxBoardPages bounds how many listing pages a community crawl
// paginates through while harvesting thread URLs.
const DefaultMaxBoardPages = 5

// Crawler orchestrates crawling one target into the knowledge base.
type Crawler struct {
	Targets  *docbase.TargetRegistry
	Fetcher  docbase.Fetcher
	Parser   docbase.DocumentParser
	Threads  docbase.ThreadParser
	Pages    docbase.PageService
	Stats    docbase.StatsService
	Errors   docbase.ErrorLogService
	Indexer  docbase.IndexService
	Limiter  docbase.DomainLimiter
	Sitemaps docbase.SitemapService // optional frontier pre-seeding
	Jobs     *Jobs

	// CommunityLimiter spaces forum fetches further apart than doc
	// fetches. Falls back to Limiter when nil.
	CommunityLimiter docbase.DomainLimiter

	RetryDelays   []time.Duration
	MaxBoardPages int
}

// Result holds the outcome of a crawl.
type Result struct {
	PagesScraped  int
	Created       int
	Updated       int
	Unchanged     int
	ChunksIndexed int
	Failed        int
	Duration      time.Duration
}

// Run crawls the target identified by targetKey, visiting at most maxPages
// pages. Page-level errors never abort the crawl; they are recorded on the
// job state and in the error log. Only unknown targets and concurrent-start
// conflicts are returned synchronously.
//
// Pages are processed one at a time with the politeness limiter between
// fetches. The frontier and the relational store are only touched from this
// goroutine, so no further locking is needed.
func (c *Crawler) Run(ctx context.Context, targetKey string, maxPages int) (*Result, error) {
	target, err := c.Targets.Get(targetKey)
	if err != nil {
		return nil, err
	}
	if maxPages <= 0 {
		maxPages = 100
	}

	jctx, err := c.Jobs.Begin(ctx, targetKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var result *Result
	if target.Kind == docbase.TargetCommunity {
		result = c.crawlCommunity(jctx, target, maxPages)
	} else {
		result = c.crawlDocs(jctx, target, maxPages)
	}
	result.Duration = time.Since(start)

	c.recordStats(ctx, result)
	c.Jobs.Finish(fmt.Sprintf("Complete! Scraped %d pages", result.PagesScraped))

	return result, nil
}

// crawlDocs follows same-category links breadth-first from the target root.
func (c *Crawler) crawlDocs(ctx context.Context, target docbase.CrawlTarget, maxPages int) *Result {
	result := &Result{}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(target.RootURL)
	c.seedFromSitemap(ctx, target, frontier)
	c.Jobs.SetEstimate(maxPages)

	visited := 0
	for visited < maxPages {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if ctx.Err() != nil {
			break
		}
		visited++

		c.Jobs.SetCurrent(pageURL, "Scraping: "+truncate(pageURL, 50))

		html, err := c.fetch(ctx, pageURL, c.Limiter)
		if err != nil {
			c.recordError(ctx, result, pageURL, err)
			continue
		}

		links, err := c.Parser.ExtractLinks(html, pageURL, target)
		if err == nil {
			for _, link := range links {
				frontier.Push(link)
			}
		}

		if err := c.processDocPage(ctx, target, pageURL, html, result); err != nil {
			c.recordError(ctx, result, pageURL, err)
			continue
		}

		result.PagesScraped++
		c.Jobs.PageScraped()
	}

	return result
}

// crawlCommunity uses a two-phase strategy: paginate the board's listing
// pages to harvest thread URLs, then fetch each thread independently. Forum
// boards do not expose a link graph dense enough for breadth-first
// crawling.
func (c *Crawler) crawlCommunity(ctx context.Context, target docbase.CrawlTarget, maxPages int) *Result {
	result := &Result{}

	threads := c.harvestThreadURLs(ctx, target, maxPages, result)
	if len(threads) > maxPages {
		threads = threads[:maxPages]
	}
	c.Jobs.SetEstimate(len(threads))

	for _, threadURL := range threads {
		if ctx.Err() != nil {
			break
		}

		c.Jobs.SetCurrent(threadURL, "Scraping thread: "+truncate(threadURL, 50))

		html, err := c.fetch(ctx, threadURL, c.communityLimiter())
		if err != nil {
			// A login redirect on a thread is a soft error: the thread is
			// skipped, not retried.
			c.recordError(ctx, result, threadURL, err)
			continue
		}

		if err := c.processThread(ctx, target, threadURL, html, result); err != nil {
			c.recordError(ctx, result, threadURL, err)
			continue
		}

		result.PagesScraped++
		c.Jobs.PageScraped()
	}

	return result
}

// harvestThreadURLs paginates board listing pages and collects thread URLs.
func (c *Crawler) harvestThreadURLs(ctx context.Context, target docbase.CrawlTarget, maxPages int, result *Result) []string {
	boardPages := c.MaxBoardPages
	if boardPages <= 0 {
		boardPages = DefaultMaxBoardPages
	}

	seen := make(map[string]bool)
	var threads []string

	for n := 1; n <= boardPages && len(threads) < maxPages; n++ {
		if ctx.Err() != nil {
			break
		}

		listURL := target.RootURL
		if n > 1 {
			listURL = fmt.Sprintf("%s/page/%d", target.RootURL, n)
		}
		c.Jobs.SetCurrent(listURL, fmt.Sprintf("Harvesting board page %d", n))

		html, err := c.fetch(ctx, listURL, c.communityLimiter())
		if err != nil {
			c.recordError(ctx, result, listURL, err)
			break
		}

		links, err := c.Threads.ThreadLinks(html, listURL)
		if err != nil {
			c.recordError(ctx, result, listURL, err)
			break
		}

		added := 0
		for _, link := range links {
			if !seen[link] {
				seen[link] = true
				threads = append(threads, link)
				added++
			}
		}
		if added == 0 {
			break // past the last listing page
		}
	}

	return threads
}

// processDocPage extracts a documentation page, detects changes and indexes
// the content when it is new or changed.
func (c *Crawler) processDocPage(ctx context.Context, target docbase.CrawlTarget, pageURL, html string, result *Result) error {
	text, err := c.Parser.ExtractText(html)
	if err != nil {
		return docbase.Errorf(docbase.EINVALID, "extracting %s: %s", pageURL, err)
	}
	section, topic := docbase.SectionTopic(pageURL, target)

	page := &docbase.Page{
		URL:         pageURL,
		Title:       c.Parser.ExtractTitle(html),
		Content:     text,
		Section:     section,
		Topic:       topic,
		Category:    target.Key,
		ContentHash: docbase.Fingerprint(text),
	}

	extracted, err := c.Parser.ExtractImages(html)
	if err != nil {
		extracted = nil // images are best-effort
	}
	images := make([]*docbase.Image, 0, len(extracted))
	for _, img := range extracted {
		images = append(images, &docbase.Image{
			URL:           img.URL,
			AltText:       img.Alt,
			Title:         img.Title,
			Caption:       img.Caption,
			ContextBefore: img.ContextBefore,
			ContextAfter:  img.ContextAfter,
		})
	}

	return c.storeAndIndex(ctx, page, images, result)
}

// processThread parses a forum thread into a transcript page and indexes it.
func (c *Crawler) processThread(ctx context.Context, target docbase.CrawlTarget, threadURL, html string, result *Result) error {
	thread, err := c.Threads.ParseThread(html)
	if err != nil {
		return docbase.Errorf(docbase.EINVALID, "parsing thread %s: %s", threadURL, err)
	}

	page := &docbase.Page{
		URL:         threadURL,
		Title:       thread.Title,
		Content:     thread.Transcript,
		Section:     "Community",
		Topic:       "Q&A",
		Category:    target.Key,
		ContentHash: docbase.Fingerprint(thread.Transcript),
		HasSolution: thread.HasSolution,
		AnswerCount: thread.AnswerCount,
	}

	return c.storeAndIndex(ctx, page, nil, result)
}

// storeAndIndex applies fingerprint-based change detection: insert new
// pages, update changed ones (replacing owned images), and skip unchanged
// ones without any write.
func (c *Crawler) storeAndIndex(ctx context.Context, page *docbase.Page, images []*docbase.Image, result *Result) error {
	existing, err := c.Pages.FindPageByURL(ctx, page.URL)
	switch {
	case err != nil && docbase.ErrorCode(err) == docbase.ENOTFOUND:
		if err := c.Pages.CreatePage(ctx, page); err != nil {
			return err
		}
		result.Created++
	case err != nil:
		return err
	case existing.ContentHash == page.ContentHash:
		result.Unchanged++
		return nil
	default:
		page.ID = existing.ID
		if err := c.Pages.UpdatePage(ctx, page); err != nil {
			return err
		}
		result.Updated++
	}

	if len(images) > 0 {
		for _, img := range images {
			img.PageID = page.ID
		}
		if err := c.Pages.ReplaceImages(ctx, page.ID, images); err != nil {
			return err
		}
	}

	// Index failures are recoverable at batch granularity: whatever was
	// upserted counts, the rest is logged and skipped.
	n, err := c.Indexer.IndexPage(ctx, page, images)
	result.ChunksIndexed += n
	if err != nil {
		c.logError(ctx, "index_error", fmt.Sprintf("indexing %s: %s", page.URL, err))
	}
	return nil
}

// fetch applies the politeness limiter and the retry policy.
func (c *Crawler) fetch(ctx context.Context, pageURL string, limiter docbase.DomainLimiter) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", docbase.Errorf(docbase.EINVALID, "invalid URL %q", pageURL)
	}
	if limiter != nil {
		if err := limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, delays)
}

func (c *Crawler) communityLimiter() docbase.DomainLimiter {
	if c.CommunityLimiter != nil {
		return c.CommunityLimiter
	}
	return c.Limiter
}

// seedFromSitemap pushes sitemap URLs onto the frontier when the site
// publishes one. Best-effort: a missing or broken sitemap changes nothing.
func (c *Crawler) seedFromSitemap(ctx context.Context, target docbase.CrawlTarget, frontier *Frontier) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, target.RootURL)
	if err != nil {
		return
	}
	for _, u := range urls {
		frontier.Push(u)
	}
}

func (c *Crawler) recordError(ctx context.Context, result *Result, pageURL string, err error) {
	result.Failed++

	kind := "fetch_error"
	switch docbase.ErrorCode(err) {
	case docbase.EUNAUTHORIZED:
		kind = "auth_required"
	case docbase.EINVALID:
		kind = "extract_error"
	}

	msg := fmt.Sprintf("%s: %s", pageURL, docbase.ErrorMessage(err))
	c.Jobs.AddError(msg)
	c.logError(ctx, kind, msg)
}

func (c *Crawler) logError(ctx context.Context, kind, msg string) {
	if c.Errors == nil {
		return
	}
	_ = c.Errors.LogError(ctx, &docbase.ErrorLog{Kind: kind, Message: msg})
}

func (c *Crawler) recordStats(ctx context.Context, result *Result) {
	if c.Stats == nil {
		return
	}
	total, err := c.Pages.CountPages(ctx)
	if err != nil {
		total = result.PagesScraped
	}
	_ = c.Stats.RecordCrawl(ctx, &docbase.CrawlStats{
		LastFullScrape: time.Now().UTC(),
		TotalPages:     total,
		ScrapeDuration: int(result.Duration.Seconds()),
	})
}

// truncate shortens a URL for status lines.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
