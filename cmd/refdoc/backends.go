package main

import (
	"fmt"
	"sort"

	"github.com/fwojciec/refdoc"
)

// Run executes the backends command.
func (c *BackendsCmd) Run(deps *Dependencies) error {
	for _, backend := range refdoc.Backends() {
		status := "installed"
		if _, err := deps.LookPath(backend.Command); err != nil {
			status = "not installed"
		}
		fmt.Fprintf(deps.Stdout, "%s (%s) [%s]\n", backend.Name, backend.Command, status)

		models := make([]string, 0, len(backend.Models))
		for short := range backend.Models {
			models = append(models, short)
		}
		sort.Strings(models)
		for _, short := range models {
			fmt.Fprintf(deps.Stdout, "  %s -> %s\n", short, backend.Models[short])
		}
	}
	return nil
}
