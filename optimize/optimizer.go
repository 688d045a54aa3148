// Package optimize orchestrates documentation compression through external
// generative backends. It owns model-to-backend resolution, the response
// cache, and the retry-with-fallback policy.
package optimize

import (
	"context"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fwojciec/refdoc"
	"github.com/fwojciec/refdoc/claude"
	"github.com/fwojciec/refdoc/gemini"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the per-request wall-clock budget when the request
// does not set one.
const DefaultTimeout = 2 * time.Minute

// outputFileName is the side-channel file, inside the permitted scope,
// that backends are instructed to write their final answer to.
const outputFileName = "refdoc-output.md"

// parsers maps backend ids to their wire format implementations. The
// table is static; selection happens once per attempt.
var parsers = map[string]refdoc.LineParser{
	"claude": claude.NewParser(),
	"gemini": gemini.NewParser(),
}

// Ensure Optimizer implements refdoc.Optimizer at compile time.
var _ refdoc.Optimizer = (*Optimizer)(nil)

// Optimizer drives generation with fallback. If the requested model has no
// backend, or its CLI is not installed, the original content is returned
// unchanged; the pipeline never aborts solely because an optimizer is
// unavailable.
type Optimizer struct {
	Runner refdoc.Runner
	Cache  refdoc.GenerationCache

	// Baseline is the short model id retried once after the requested
	// model fails. Empty disables fallback.
	Baseline string

	// Limiter, if set, paces backend launches across concurrent flows.
	Limiter *rate.Limiter

	// LookPath resolves backend commands; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// Optimize compresses the request's raw documentation. All intermediate
// failures are absorbed: only after both the requested model and the
// baseline fail does the result carry an error, and even then it falls
// back to the original content.
func (o *Optimizer) Optimize(ctx context.Context, req *refdoc.GenerateRequest) (*refdoc.OptimizeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	backend, ok := refdoc.LookupBackend(req.Model)
	if !ok {
		return unoptimized(req), nil
	}
	if _, err := o.lookPath(backend.Command); err != nil {
		return unoptimized(req), nil
	}

	prompt := BuildPrompt(req)

	if o.Cache != nil && !req.NoCache {
		if text, ok := o.Cache.Get(prompt, req.Model); ok {
			return &refdoc.OptimizeResult{
				Optimized:    text,
				WasOptimized: true,
				Model:        req.Model,
			}, nil
		}
	}

	result, err := o.attempt(ctx, backend, req.Model, prompt, req)
	if err != nil && o.Baseline != "" && o.Baseline != req.Model {
		if fallback, ok := refdoc.LookupBackend(o.Baseline); ok {
			if _, lookErr := o.lookPath(fallback.Command); lookErr == nil {
				result, err = o.attempt(ctx, fallback, o.Baseline, prompt, req)
			}
		}
	}
	if err != nil {
		failed := unoptimized(req)
		failed.Error = err.Error()
		return failed, nil
	}

	return result, nil
}

// attempt runs one generation against one model and caches its success.
func (o *Optimizer) attempt(ctx context.Context, backend *refdoc.Backend, model, prompt string, req *refdoc.GenerateRequest) (*refdoc.OptimizeResult, error) {
	if o.Limiter != nil {
		if err := o.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	run, err := o.Runner.Run(ctx, refdoc.RunSpec{
		Command:    backend.Command,
		Args:       backend.Args(model, req.Scope, resolveDirs(req.ExtraDirs)),
		Prompt:     prompt,
		Timeout:    timeout,
		Parser:     parserFor(backend),
		OutputFile: filepath.Join(req.Scope, outputFileName),
		OnEvent:    req.OnEvent,
	})
	if err != nil {
		return nil, err
	}

	text := refdoc.CleanOutput(run.Text)
	if text == "" {
		return nil, refdoc.Errorf(refdoc.EINTERNAL, "backend %s returned no usable output", backend.ID)
	}

	if o.Cache != nil {
		_ = o.Cache.Put(prompt, model, text)
	}

	usage := run.Usage
	return &refdoc.OptimizeResult{
		Optimized:    text,
		WasOptimized: true,
		Model:        model,
		FinishReason: run.FinishReason,
		Usage:        &usage,
		Cost:         run.Cost,
	}, nil
}

func (o *Optimizer) lookPath(file string) (string, error) {
	if o.LookPath != nil {
		return o.LookPath(file)
	}
	return exec.LookPath(file)
}

// parserFor selects the wire format parser for a backend.
func parserFor(backend *refdoc.Backend) refdoc.LineParser {
	if parser, ok := parsers[backend.ID]; ok {
		return parser
	}
	if backend.TokenStream {
		return parsers["claude"]
	}
	return parsers["gemini"]
}

// resolveDirs resolves symlinked reference directories to real paths so
// backends see the paths they will actually read.
func resolveDirs(dirs []string) []string {
	if len(dirs) == 0 {
		return nil
	}
	resolved := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			resolved = append(resolved, real)
		} else {
			resolved = append(resolved, dir)
		}
	}
	return resolved
}

// unoptimized returns the soft-failure result carrying the original
// content unchanged.
func unoptimized(req *refdoc.GenerateRequest) *refdoc.OptimizeResult {
	return &refdoc.OptimizeResult{
		Optimized:    req.Content,
		WasOptimized: false,
	}
}
