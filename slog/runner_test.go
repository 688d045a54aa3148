package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/refdoc"
	"github.com/fwojciec/refdoc/mock"
	refslog "github.com/fwojciec/refdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("logs successful run with duration and usage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Runner{
			RunFn: func(ctx context.Context, spec refdoc.RunSpec) (*refdoc.RunResult, error) {
				return &refdoc.RunResult{
					Text:   "output",
					Status: "success",
					Usage:  refdoc.Usage{InputTokens: 10, OutputTokens: 5},
				}, nil
			},
		}

		runner := refslog.NewLoggingRunner(inner, logger)
		result, err := runner.Run(context.Background(), refdoc.RunSpec{Command: "claude"})

		require.NoError(t, err)
		assert.Equal(t, "output", result.Text)
		output := buf.String()
		assert.Contains(t, output, "backend run")
		assert.Contains(t, output, "command=claude")
		assert.Contains(t, output, "duration=")
		assert.Contains(t, output, "input_tokens=10")
	})

	t.Run("logs failed run with error code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Runner{
			RunFn: func(ctx context.Context, spec refdoc.RunSpec) (*refdoc.RunResult, error) {
				return nil, refdoc.Errorf(refdoc.ETIMEOUT, "generation timed out")
			},
		}

		runner := refslog.NewLoggingRunner(inner, logger)
		_, err := runner.Run(context.Background(), refdoc.RunSpec{Command: "gemini"})

		require.Error(t, err)
		assert.Equal(t, refdoc.ETIMEOUT, refdoc.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "backend run failed")
		assert.Contains(t, output, "command=gemini")
		assert.Contains(t, output, "code=timeout")
	})
}

func TestLoggingOptimizer_Optimize(t *testing.T) {
	t.Parallel()

	t.Run("logs absorbed failure as warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Optimizer{
			OptimizeFn: func(ctx context.Context, req *refdoc.GenerateRequest) (*refdoc.OptimizeResult, error) {
				return &refdoc.OptimizeResult{
					Optimized:    req.Content,
					WasOptimized: false,
					Error:        "backend claude returned no usable output",
				}, nil
			},
		}

		optimizer := refslog.NewLoggingOptimizer(inner, logger)
		result, err := optimizer.Optimize(context.Background(), &refdoc.GenerateRequest{
			Package: "leftpad",
			Content: "docs",
			Scope:   "/tmp",
			Model:   "sonnet",
		})

		require.NoError(t, err)
		assert.False(t, result.WasOptimized)
		output := buf.String()
		assert.Contains(t, output, "fell back to original content")
		assert.Contains(t, output, "package=leftpad")
	})

	t.Run("logs success", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Optimizer{
			OptimizeFn: func(ctx context.Context, req *refdoc.GenerateRequest) (*refdoc.OptimizeResult, error) {
				return &refdoc.OptimizeResult{Optimized: "compact", WasOptimized: true, Model: "haiku"}, nil
			},
		}

		optimizer := refslog.NewLoggingOptimizer(inner, logger)
		result, err := optimizer.Optimize(context.Background(), &refdoc.GenerateRequest{
			Package: "leftpad",
			Content: "docs",
			Scope:   "/tmp",
			Model:   "haiku",
		})

		require.NoError(t, err)
		assert.True(t, result.WasOptimized)
		output := buf.String()
		assert.Contains(t, output, "model=haiku")
		assert.Contains(t, output, "optimized=true")
	})
}
