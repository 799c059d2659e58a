package main

import (
	"fmt"

	"github.com/mkowalski/docbase"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	matches, err := deps.Search.Search(deps.Ctx, c.Query, docbase.SearchOptions{
		Limit:    c.Limit,
		Category: c.Category,
		Topic:    c.Topic,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return nil
	}

	for i, m := range matches {
		fields := m.Chunk.Meta.Common()
		fmt.Fprintf(deps.Stdout, "%d. %s (%.3f)\n   %s\n", i+1, fields.Title, m.Distance, fields.SourceURL)
	}
	return nil
}
