package main

import (
	"fmt"
	"time"

	"github.com/mkowalski/docbase"
)

// Run executes the errors command.
func (c *ErrorsCmd) Run(deps *Dependencies) error {
	logs, err := deps.ErrLogs.FindErrorLogs(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(logs) == 0 {
		fmt.Fprintln(deps.Stdout, "No errors recorded.")
		return nil
	}

	for _, l := range logs {
		fmt.Fprintf(deps.Stdout, "%s  %-12s %s\n", l.CreatedAt.Format(time.RFC3339), l.Kind, l.Message)
	}
	return nil
}
