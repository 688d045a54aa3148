package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	main "github.com/fwojciec/refdoc/cmd/refdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists backends with availability", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			LookPath: func(file string) (string, error) {
				if file == "claude" {
					return "/usr/local/bin/claude", nil
				}
				return "", errors.New("executable file not found in $PATH")
			},
		}

		cmd := &main.BackendsCmd{}
		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Claude Code (claude) [installed]")
		assert.Contains(t, output, "Gemini CLI (gemini) [not installed]")
		assert.Contains(t, output, "sonnet -> claude-sonnet-4-5")
		assert.Contains(t, output, "gemini-pro -> gemini-2.5-pro")
	})
}
