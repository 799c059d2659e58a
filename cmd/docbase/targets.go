package main

import "fmt"

// Run executes the targets command.
func (c *TargetsCmd) Run(deps *Dependencies) error {
	for _, t := range deps.Targets.List() {
		fmt.Fprintf(deps.Stdout, "%-22s %-10s %s\n", t.Key, t.Kind, t.RootURL)
	}
	return nil
}
