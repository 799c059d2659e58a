package main

import (
	"fmt"

	"github.com/mkowalski/docbase"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question, docbase.AskOptions{
		Category: c.Category,
		Topic:    c.Topic,
		Tone:     c.Tone,
		Length:   c.Length,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)

	if len(answer.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, s := range answer.Sources {
			fmt.Fprintf(deps.Stdout, "  %s\n", s)
		}
	}
	return nil
}
