package main

import (
	"fmt"

	"github.com/mkowalski/docbase"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docbase.Errorf(docbase.EINVALID, "use --force to confirm deletion")
	}

	pages, err := deps.Pages.DeletePagesByCategory(deps.Ctx, c.Category)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	chunks, err := deleteCategoryChunks(deps, c.Category)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d pages and %d chunks for %q\n", pages, chunks, c.Category)
	return nil
}

func deleteCategoryChunks(deps *Dependencies, category string) (int, error) {
	ids, err := deps.Chunks.IDs(deps.Ctx, docbase.ChunkFilter{Category: &category})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := deps.Chunks.Delete(deps.Ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
