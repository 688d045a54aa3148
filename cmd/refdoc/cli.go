package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/refdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Optimizer refdoc.Optimizer
	Queue     refdoc.IndexQueue

	// LookPath resolves backend commands for availability reporting.
	LookPath func(file string) (string, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Optimize OptimizeCmd `cmd:"" help:"Optimize raw documentation through a generative backend"`
	Index    IndexCmd    `cmd:"" help:"Build a semantic search index over markdown documentation"`
	Backends BackendsCmd `cmd:"" help:"List generative backends and their availability"`
}

// OptimizeCmd is the "optimize" subcommand.
type OptimizeCmd struct {
	Package string `arg:"" help:"Package identifier the documentation belongs to"`
	File    string `arg:"" help:"Raw documentation file, or - for stdin"`

	Scope        string        `short:"s" default:"." help:"Filesystem area the backend may read and write"`
	Model        string        `short:"m" default:"sonnet" help:"Short model id (see 'refdoc backends')"`
	Version      string        `help:"Package version advertised in the output"`
	Timeout      time.Duration `default:"2m" help:"Per-request wall-clock budget"`
	NoCache      bool          `help:"Bypass the response cache lookup"`
	Section      []string      `short:"S" name:"section" help:"Restrict output to named sections (repeatable)"`
	Instruction  []string      `short:"i" name:"instruction" help:"Extra prompt directive (repeatable)"`
	ExtraDir     []string      `short:"d" name:"extra-dir" help:"Additional reference directory (repeatable)"`
	Output       string        `short:"o" help:"Write optimized text to a file instead of stdout"`
	ShowProgress bool          `short:"v" name:"verbose" help:"Print stream progress to stderr"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Dest   string `arg:"" help:"Index database path"`
	Chunks string `arg:"" help:"JSON file holding the ordered chunk document list"`
}

// BackendsCmd is the "backends" subcommand.
type BackendsCmd struct{}
