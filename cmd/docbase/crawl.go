package main

import (
	"fmt"
	"time"

	"github.com/mkowalski/docbase"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	result, err := deps.Crawler.Run(deps.Ctx, c.Target, c.MaxPages)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d pages in %s (%d new, %d updated, %d unchanged)\n",
		result.PagesScraped, result.Duration.Round(time.Second), result.Created, result.Updated, result.Unchanged)
	fmt.Fprintf(deps.Stdout, "Indexed %d chunks\n", result.ChunksIndexed)
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stderr, "%d pages failed. Run 'docbase errors' for details.\n", result.Failed)
	}
	return nil
}
