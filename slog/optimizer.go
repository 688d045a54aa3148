package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/refdoc"
)

// Ensure LoggingOptimizer implements refdoc.Optimizer.
var _ refdoc.Optimizer = (*LoggingOptimizer)(nil)

// LoggingOptimizer wraps an Optimizer with structured logging per request.
type LoggingOptimizer struct {
	next   refdoc.Optimizer
	logger *slog.Logger
}

// NewLoggingOptimizer creates a new LoggingOptimizer.
func NewLoggingOptimizer(next refdoc.Optimizer, logger *slog.Logger) *LoggingOptimizer {
	return &LoggingOptimizer{next: next, logger: logger}
}

// Optimize delegates to the wrapped optimizer and logs the outcome,
// including absorbed generation failures.
func (o *LoggingOptimizer) Optimize(ctx context.Context, req *refdoc.GenerateRequest) (*refdoc.OptimizeResult, error) {
	begin := time.Now()
	result, err := o.next.Optimize(ctx, req)
	if err != nil {
		o.logger.Error("optimize failed",
			"package", req.Package,
			"model", req.Model,
			"duration", time.Since(begin),
			"code", refdoc.ErrorCode(err),
			"error", refdoc.ErrorMessage(err),
		)
		return nil, err
	}
	if result.Error != "" {
		o.logger.Warn("optimize fell back to original content",
			"package", req.Package,
			"model", req.Model,
			"duration", time.Since(begin),
			"error", result.Error,
		)
		return result, nil
	}
	o.logger.Info("optimize",
		"package", req.Package,
		"model", result.Model,
		"optimized", result.WasOptimized,
		"duration", time.Since(begin),
	)
	return result, nil
}
