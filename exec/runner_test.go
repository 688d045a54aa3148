package exec_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/refdoc"
	"github.com/fwojciec/refdoc/exec"
	"github.com/fwojciec/refdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineTextParser treats every stdout line as a text fragment. Tests drive
// real sh subprocesses, so the wire format is kept trivial.
func lineTextParser() *mock.LineParser {
	return &mock.LineParser{
		ParseLineFn: func(line []byte) []refdoc.StreamEvent {
			return []refdoc.StreamEvent{{Type: refdoc.EventText, Text: string(line)}}
		},
	}
}

func TestRunner_Run_Success(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()

	result, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "cat >/dev/null; echo Hello"},
		Prompt:  "the prompt",
		Parser:  lineTextParser(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello", result.Text)
	assert.Equal(t, 0, result.ExitCode)
}

func TestRunner_Run_NonZeroExitWithOutputIsSuccess(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()

	result, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "echo usable; exit 3"},
		Parser:  lineTextParser(),
	})

	require.NoError(t, err)
	assert.Equal(t, "usable", result.Text)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRunner_Run_ZeroExitWithEmptyOutputIsFailure(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()

	_, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "exit 0"},
		Parser:  lineTextParser(),
	})

	require.Error(t, err)
	assert.Equal(t, refdoc.EINTERNAL, refdoc.ErrorCode(err))
}

func TestRunner_Run_StderrSurfacedOnFailure(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()

	_, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "echo 'model not available' >&2; exit 1"},
		Parser:  lineTextParser(),
	})

	require.Error(t, err)
	assert.Contains(t, refdoc.ErrorMessage(err), "model not available")
}

func TestRunner_Run_Timeout(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()
	begin := time.Now()

	_, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "sleep 30"},
		Timeout: 100 * time.Millisecond,
		Parser:  lineTextParser(),
	})

	require.Error(t, err)
	assert.Equal(t, refdoc.ETIMEOUT, refdoc.ErrorCode(err))
	assert.Less(t, time.Since(begin), 5*time.Second)
}

func TestRunner_Run_OutputFileTakesPrecedence(t *testing.T) {
	t.Parallel()

	outputFile := filepath.Join(t.TempDir(), "refdoc-output.md")
	r := exec.NewRunner()

	result, err := r.Run(context.Background(), refdoc.RunSpec{
		Command:    "sh",
		Args:       []string{"-c", "echo 'partial...'; printf '# Doc' > " + outputFile},
		Parser:     lineTextParser(),
		OutputFile: outputFile,
	})

	require.NoError(t, err)
	assert.Equal(t, "# Doc", result.Text)
	assert.NoFileExists(t, outputFile)
}

func TestRunner_Run_EmptyOutputFileFallsBackToStream(t *testing.T) {
	t.Parallel()

	outputFile := filepath.Join(t.TempDir(), "refdoc-output.md")
	r := exec.NewRunner()

	result, err := r.Run(context.Background(), refdoc.RunSpec{
		Command:    "sh",
		Args:       []string{"-c", "echo streamed; touch " + outputFile},
		Parser:     lineTextParser(),
		OutputFile: outputFile,
	})

	require.NoError(t, err)
	assert.Equal(t, "streamed", result.Text)
}

func TestRunner_Run_OversizedLineFailsWithoutHanging(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()
	begin := time.Now()

	// The 5 MB line overflows the scanner buffer while the child is still
	// writing; the run must drain the pipe and fail rather than block.
	_, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "printf 'good\\n'; head -c 5000000 /dev/zero | tr '\\0' 'x'; printf '\\ntrailing\\n'"},
		Parser:  lineTextParser(),
	})

	require.Error(t, err)
	assert.Equal(t, refdoc.EINTERNAL, refdoc.ErrorCode(err))
	assert.Contains(t, refdoc.ErrorMessage(err), "oversized")
	assert.Less(t, time.Since(begin), 30*time.Second)
}

func TestRunner_Run_OversizedLineRescuedByOutputFile(t *testing.T) {
	t.Parallel()

	outputFile := filepath.Join(t.TempDir(), "refdoc-output.md")
	r := exec.NewRunner()

	result, err := r.Run(context.Background(), refdoc.RunSpec{
		Command:    "sh",
		Args:       []string{"-c", "head -c 5000000 /dev/zero | tr '\\0' 'x'; printf '# Doc' > " + outputFile},
		Parser:     lineTextParser(),
		OutputFile: outputFile,
	})

	require.NoError(t, err)
	assert.Equal(t, "# Doc", result.Text)
	assert.NoFileExists(t, outputFile)
}

func TestRunner_Run_TimeoutRemovesOutputFile(t *testing.T) {
	t.Parallel()

	outputFile := filepath.Join(t.TempDir(), "refdoc-output.md")
	r := exec.NewRunner()

	_, err := r.Run(context.Background(), refdoc.RunSpec{
		Command:    "sh",
		Args:       []string{"-c", "printf '# Stale' > " + outputFile + "; sleep 30"},
		Timeout:    100 * time.Millisecond,
		Parser:     lineTextParser(),
		OutputFile: outputFile,
	})

	require.Error(t, err)
	assert.Equal(t, refdoc.ETIMEOUT, refdoc.ErrorCode(err))
	assert.NoFileExists(t, outputFile)
}

func TestRunner_Run_EventsDeliveredInOrder(t *testing.T) {
	t.Parallel()

	var got []string
	r := exec.NewRunner()

	result, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "sh",
		Args:    []string{"-c", "printf 'He\\nll\\no'"},
		Parser:  lineTextParser(),
		OnEvent: func(event refdoc.StreamEvent) {
			got = append(got, event.Text)
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"He", "ll", "o"}, got)
	assert.Equal(t, "Hello", result.Text)
}

func TestRunner_Run_MissingCommand(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()

	_, err := r.Run(context.Background(), refdoc.RunSpec{
		Command: "refdoc-no-such-backend",
		Parser:  lineTextParser(),
	})

	require.Error(t, err)
	assert.Equal(t, refdoc.EUNAVAILABLE, refdoc.ErrorCode(err))
}

func TestRunner_Run_Validation(t *testing.T) {
	t.Parallel()

	r := exec.NewRunner()

	_, err := r.Run(context.Background(), refdoc.RunSpec{Parser: lineTextParser()})
	assert.Equal(t, refdoc.EINVALID, refdoc.ErrorCode(err))

	_, err = r.Run(context.Background(), refdoc.RunSpec{Command: "sh"})
	assert.Equal(t, refdoc.EINVALID, refdoc.ErrorCode(err))
}
