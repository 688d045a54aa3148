// Package exec runs generative backend CLIs as subprocesses and drains
// their streaming output.
package exec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/fwojciec/refdoc"
)

const (
	// waitGrace bounds how long a timed-out process gets between kill and
	// abandonment of its I/O pipes.
	waitGrace = 2 * time.Second

	// maxLineBytes caps a single stdout line. An oversized line aborts the
	// stream read; the run fails unless the output file holds the answer.
	maxLineBytes = 4 << 20

	// stderrErrLimit caps how much stderr is embedded in error messages.
	stderrErrLimit = 800
)

// Ensure Runner implements refdoc.Runner at compile time.
var _ refdoc.Runner = (*Runner)(nil)

// Runner executes backend subprocesses. One subprocess per request; the
// caller suspends on subprocess I/O, no extra worker threads.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run spawns the backend with piped stdio, writes the complete prompt to
// stdin and closes it, then splits stdout on newlines and feeds each
// complete line to the parser. An incomplete trailing fragment is retained
// until the next read; on exit the remaining buffer is parsed as a final
// line. A wall-clock timeout forcibly terminates the process. A stream
// read failure (an oversized line included) fails the run unless the
// output file carries the answer.
//
// The authoritative success signal is non-empty usable output, independent
// of exit code: a non-zero exit with usable output is success, a zero exit
// with empty output is failure.
func (r *Runner) Run(ctx context.Context, spec refdoc.RunSpec) (*refdoc.RunResult, error) {
	if spec.Command == "" {
		return nil, refdoc.Errorf(refdoc.EINVALID, "command required")
	}
	if spec.Parser == nil {
		return nil, refdoc.Errorf(refdoc.EINVALID, "parser required")
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(runCtx, spec.Command, spec.Args...)
	cmd.Stdin = strings.NewReader(spec.Prompt)
	cmd.WaitDelay = waitGrace

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, refdoc.Errorf(refdoc.EINTERNAL, "stdout pipe: %v", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, refdoc.Errorf(refdoc.EUNAVAILABLE, "failed to start %s: %v", spec.Command, err)
	}

	agg := &accumulator{}
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		for _, event := range spec.Parser.ParseLine(line) {
			if event.Type == refdoc.EventNone {
				continue
			}
			agg.apply(event)
			if spec.OnEvent != nil {
				spec.OnEvent(event)
			}
		}
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		// The scanner stopped mid-stream. Drain the pipe so the child is
		// not blocked writing stdout and Wait can return.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()

	// The side-channel output file, when present and non-empty, is
	// authoritative over stream-accumulated text. Large structured answers
	// survive a file write more reliably than event-stream reassembly.
	// The scratch file is removed on every outcome so a fallback attempt
	// never reads stale content.
	var fromFile string
	if spec.OutputFile != "" {
		if data, err := os.ReadFile(spec.OutputFile); err == nil {
			fromFile = strings.TrimSpace(string(data))
			_ = os.Remove(spec.OutputFile)
		}
	}

	if errors.Is(scanErr, bufio.ErrTooLong) && fromFile == "" {
		return nil, withStderr(refdoc.Errorf(refdoc.EINTERNAL, "backend %s emitted an oversized output line", spec.Command), stderr.String())
	}
	if runCtx.Err() != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, refdoc.Errorf(refdoc.ETIMEOUT, "backend %s timed out after %s", spec.Command, spec.Timeout)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if scanErr != nil && fromFile == "" {
		return nil, withStderr(refdoc.Errorf(refdoc.EINTERNAL, "backend %s output stream failed: %v", spec.Command, scanErr), stderr.String())
	}

	text := agg.text()
	if fromFile != "" {
		text = fromFile
	}

	if text == "" {
		if waitErr != nil {
			return nil, withStderr(refdoc.Errorf(refdoc.EINTERNAL, "backend %s failed: %v", spec.Command, waitErr), stderr.String())
		}
		return nil, withStderr(refdoc.Errorf(refdoc.EINTERNAL, "backend %s produced no usable output", spec.Command), stderr.String())
	}

	result := &refdoc.RunResult{
		Text:         text,
		Stderr:       stderr.String(),
		Status:       agg.status,
		FinishReason: agg.finishReason,
		Usage:        agg.usage,
		Cost:         agg.cost,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	return result, nil
}

// withStderr appends trimmed subprocess diagnostics to an error.
func withStderr(err *refdoc.Error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err
	}
	if len(stderr) > stderrErrLimit {
		stderr = stderr[:stderrErrLimit] + "..."
	}
	return refdoc.Errorf(err.Code, "%s (stderr: %s)", err.Message, stderr)
}

// accumulator aggregates canonical events into a run result.
type accumulator struct {
	b            strings.Builder
	usage        refdoc.Usage
	cost         float64
	status       string
	finishReason string
}

func (a *accumulator) apply(event refdoc.StreamEvent) {
	switch event.Type {
	case refdoc.EventText:
		if event.Replace {
			a.b.Reset()
		}
		a.b.WriteString(event.Text)
	case refdoc.EventUsage:
		a.usage.InputTokens = event.InputTokens
		a.usage.OutputTokens = event.OutputTokens
		a.usage.TotalTokens = event.InputTokens + event.OutputTokens
	case refdoc.EventCost:
		a.cost = event.Cost
	case refdoc.EventDone:
		a.status = event.Status
		a.finishReason = event.FinishReason
	}
}

func (a *accumulator) text() string {
	return strings.TrimSpace(a.b.String())
}
