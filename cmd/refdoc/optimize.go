package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/refdoc"
)

// Run executes the optimize command.
func (c *OptimizeCmd) Run(deps *Dependencies) error {
	content, err := c.readContent()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	scope, err := filepath.Abs(c.Scope)
	if err != nil {
		return err
	}

	req := &refdoc.GenerateRequest{
		Package:      c.Package,
		Version:      c.Version,
		Content:      content,
		Scope:        scope,
		ExtraDirs:    c.ExtraDir,
		Model:        c.Model,
		Timeout:      c.Timeout,
		NoCache:      c.NoCache,
		Sections:     c.Section,
		Instructions: c.Instruction,
	}
	detectReferenceMaterial(scope, req)

	if c.ShowProgress {
		req.OnEvent = progressPrinter(deps.Stderr)
	}

	result, err := deps.Optimizer.Optimize(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refdoc.ErrorMessage(err))
		return err
	}

	if result.Error != "" {
		fmt.Fprintf(deps.Stderr, "warning: optimization failed, using original content: %s\n", result.Error)
	} else if !result.WasOptimized {
		fmt.Fprintln(deps.Stderr, "warning: no backend available, using original content")
	}

	if c.Output != "" {
		return os.WriteFile(c.Output, []byte(result.Optimized+"\n"), 0644)
	}
	fmt.Fprintln(deps.Stdout, result.Optimized)
	return nil
}

func (c *OptimizeCmd) readContent() (string, error) {
	if c.File == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// detectReferenceMaterial flags reference files present in the scope so
// the optimized output can advertise them.
func detectReferenceMaterial(scope string, req *refdoc.GenerateRequest) {
	exists := func(names ...string) bool {
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(scope, name)); err == nil {
				return true
			}
		}
		return false
	}
	req.HasChangelog = exists("CHANGELOG.md", "CHANGELOG")
	req.HasReleaseNotes = exists("RELEASE_NOTES.md", "RELEASES.md")
	req.HasIssueTracker = exists("issues.json", "ISSUES.md")
}

// progressPrinter renders stream events as single status lines.
func progressPrinter(w io.Writer) refdoc.ProgressFunc {
	return func(event refdoc.StreamEvent) {
		switch event.Type {
		case refdoc.EventTool:
			if event.Hint != "" {
				fmt.Fprintf(w, "tool: %s %s\n", event.Tool, event.Hint)
			} else {
				fmt.Fprintf(w, "tool: %s\n", event.Tool)
			}
		case refdoc.EventUsage:
			fmt.Fprintf(w, "usage: in=%d out=%d\n", event.InputTokens, event.OutputTokens)
		case refdoc.EventCost:
			fmt.Fprintf(w, "cost: $%.4f\n", event.Cost)
		case refdoc.EventDone:
			fmt.Fprintf(w, "done: %s\n", event.Status)
		}
	}
}
