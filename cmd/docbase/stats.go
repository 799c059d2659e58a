package main

import (
	"fmt"
	"time"

	"github.com/mkowalski/docbase"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Stats.FindStats(deps.Ctx)
	if docbase.ErrorCode(err) == docbase.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "No crawl has completed yet.")
		return nil
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Last full scrape: %s\n", stats.LastFullScrape.Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "Total pages:      %d\n", stats.TotalPages)
	fmt.Fprintf(deps.Stdout, "Scrape duration:  %ds\n", stats.ScrapeDuration)
	return nil
}
