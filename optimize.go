package refdoc

import (
	"context"
	"time"
)

// GenerateRequest asks for one documentation optimization pass. A request
// is created per call and consumed once.
type GenerateRequest struct {
	// Package identifies the package the documentation belongs to.
	Package string `json:"package"`

	// Version is the package version string advertised in the output.
	Version string `json:"version,omitempty"`

	// Content is the raw documentation text to compress.
	Content string `json:"content"`

	// Scope is the filesystem area the backend may read and write.
	Scope string `json:"scope"`

	// ExtraDirs are additional reference directories granted to the
	// backend. Symlinks are resolved to real paths before the launch.
	ExtraDirs []string `json:"extraDirs,omitempty"`

	// Model is the short model id (see Backend.Models).
	Model string `json:"model"`

	// Timeout overrides the default per-request wall-clock budget.
	Timeout time.Duration `json:"timeout,omitempty"`

	// NoCache bypasses the response cache lookup.
	NoCache bool `json:"noCache,omitempty"`

	// Sections restricts the output to the named documentation sections.
	Sections []string `json:"sections,omitempty"`

	// Instructions are extra free-form directives appended to the prompt.
	Instructions []string `json:"instructions,omitempty"`

	// Source-availability flags used to decide which reference material
	// the output should advertise.
	HasReleaseNotes bool `json:"hasReleaseNotes,omitempty"`
	HasChangelog    bool `json:"hasChangelog,omitempty"`
	HasIssueTracker bool `json:"hasIssueTracker,omitempty"`

	// OnEvent, if set, receives interleaved progress events on the same
	// logical flow as the call.
	OnEvent ProgressFunc `json:"-"`
}

// Validate returns an error if the request contains invalid fields.
func (r *GenerateRequest) Validate() error {
	if r.Package == "" {
		return Errorf(EINVALID, "package identifier required")
	}
	if r.Content == "" {
		return Errorf(EINVALID, "content required")
	}
	if r.Model == "" {
		return Errorf(EINVALID, "model required")
	}
	if r.Scope == "" {
		return Errorf(EINVALID, "filesystem scope required")
	}
	return nil
}

// OptimizeResult is the caller-facing outcome of an optimization pass.
// When the optimizer is unavailable or fails terminally, Optimized carries
// the original content unchanged and WasOptimized is false; the feature is
// strictly additive and never blocks the pipeline.
type OptimizeResult struct {
	Optimized    string  `json:"optimized"`
	WasOptimized bool    `json:"wasOptimized"`
	Error        string  `json:"error,omitempty"`
	FinishReason string  `json:"finishReason,omitempty"`
	Usage        *Usage  `json:"usage,omitempty"`
	Cost         float64 `json:"cost,omitempty"`

	// Model is the short model id the successful attempt ran against,
	// which is the baseline model when fallback kicked in.
	Model string `json:"model,omitempty"`
}

// Optimizer compresses raw documentation through a generative backend with
// retry-with-fallback semantics.
type Optimizer interface {
	Optimize(ctx context.Context, req *GenerateRequest) (*OptimizeResult, error)
}
