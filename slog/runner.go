// Package slog provides logging decorators for refdoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/refdoc"
)

// Ensure LoggingRunner implements refdoc.Runner.
var _ refdoc.Runner = (*LoggingRunner)(nil)

// LoggingRunner wraps a Runner with structured logging for backend runs.
type LoggingRunner struct {
	next   refdoc.Runner
	logger *slog.Logger
}

// NewLoggingRunner creates a new LoggingRunner.
func NewLoggingRunner(next refdoc.Runner, logger *slog.Logger) *LoggingRunner {
	return &LoggingRunner{next: next, logger: logger}
}

// Run delegates to the wrapped runner and logs the outcome.
func (r *LoggingRunner) Run(ctx context.Context, spec refdoc.RunSpec) (*refdoc.RunResult, error) {
	begin := time.Now()
	result, err := r.next.Run(ctx, spec)
	if err != nil {
		r.logger.Error("backend run failed",
			"command", spec.Command,
			"duration", time.Since(begin),
			"code", refdoc.ErrorCode(err),
			"error", refdoc.ErrorMessage(err),
		)
		return nil, err
	}
	r.logger.Info("backend run",
		"command", spec.Command,
		"duration", time.Since(begin),
		"status", result.Status,
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
		"cost", result.Cost,
	)
	return result, nil
}
