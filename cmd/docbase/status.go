package main

import (
	"fmt"

	"github.com/mkowalski/docbase"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	pages, err := deps.Pages.CountPages(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	chunks, err := deps.Chunks.Count(deps.Ctx, docbase.ChunkFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Pages:  %d\n", pages)
	fmt.Fprintf(deps.Stdout, "Chunks: %d\n", chunks)

	if pages == 0 {
		fmt.Fprintln(deps.Stdout, "The knowledge base is empty. Use 'docbase crawl' or 'docbase import' to fill it.")
	}
	return nil
}
