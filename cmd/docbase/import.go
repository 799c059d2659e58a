package main

import (
	"fmt"

	"github.com/mkowalski/docbase"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	result, err := deps.Importer.Import(deps.Ctx, c.Dir, c.Category)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scanned %d files (%d new, %d updated, %d unchanged)\n",
		result.FilesScanned, result.Created, result.Updated, result.Unchanged)
	fmt.Fprintf(deps.Stdout, "Indexed %d chunks\n", result.ChunksIndexed)

	for _, f := range result.Failed {
		fmt.Fprintf(deps.Stderr, "  skip %s\n", f)
	}
	return nil
}
