package refdoc

import (
	"context"
	"time"
)

// EventType identifies the kind of a canonical streaming event.
type EventType string

// Canonical event types emitted by protocol parsers.
const (
	EventNone      EventType = ""          // unrecognized or empty line
	EventText      EventType = "text"      // output text fragment
	EventReasoning EventType = "reasoning" // chain-of-thought fragment
	EventTool      EventType = "tool"      // tool invocation started
	EventUsage     EventType = "usage"     // token usage update
	EventCost      EventType = "cost"      // estimated cost update
	EventDone      EventType = "done"      // terminal signal
)

// StreamEvent is one incremental unit of a backend's response, translated
// into a backend-independent shape. The zero value is an empty event and
// is ignored by consumers.
type StreamEvent struct {
	Type EventType

	// Text carries the fragment for EventText and EventReasoning. When
	// Replace is set the fragment replaces all previously accumulated
	// output instead of appending to it (turn-level backends re-send the
	// full message each turn).
	Text    string
	Replace bool

	// Tool name and a short human-readable hint for EventTool.
	Tool string
	Hint string

	// Token counts for EventUsage.
	InputTokens  int
	OutputTokens int

	// Estimated cost in USD for EventCost.
	Cost float64

	// Terminal status and finish reason for EventDone.
	Status       string
	FinishReason string
}

// LineParser translates one line of a backend's wire format into canonical
// events. A line that fails to parse or has an unrecognized shape yields an
// empty slice; parsers never return errors past their boundary.
type LineParser interface {
	ParseLine(line []byte) []StreamEvent
}

// ProgressFunc receives stream events as a generation proceeds. Events are
// delivered in emission order on the calling flow.
type ProgressFunc func(event StreamEvent)

// RunSpec describes a single backend subprocess invocation.
type RunSpec struct {
	// Command and Args form the backend CLI invocation.
	Command string
	Args    []string

	// Prompt is written to the subprocess standard input in full, then
	// stdin is closed. Backends read the whole prompt before responding.
	Prompt string

	// Timeout is the wall-clock budget for the subprocess. Zero means no
	// timeout.
	Timeout time.Duration

	// Parser translates stdout lines into canonical events.
	Parser LineParser

	// OutputFile, if set, names a side-channel file the backend was
	// instructed to write its final answer to. When present after exit,
	// its trimmed contents take precedence over stream-accumulated text.
	OutputFile string

	// OnEvent, if set, receives each parsed event in order.
	OnEvent ProgressFunc
}

// RunResult is the aggregate outcome of a backend subprocess run.
type RunResult struct {
	// Text is the usable output: the side-channel file contents when
	// present, otherwise the stream-accumulated text.
	Text string

	// Stderr holds the subprocess diagnostic output verbatim.
	Stderr string

	// Status and FinishReason from the terminal event, when one was seen.
	Status       string
	FinishReason string

	Usage Usage
	Cost  float64

	// ExitCode of the subprocess. Success is determined by usable output,
	// not by exit code.
	ExitCode int
}

// Runner executes a backend subprocess and drains its event stream.
type Runner interface {
	// Run spawns the backend, feeds it the prompt, parses its output and
	// returns the aggregate result. Success means usable output was
	// produced; an empty output is an error regardless of exit code, and
	// a non-zero exit with usable output is still success.
	Run(ctx context.Context, spec RunSpec) (*RunResult, error)
}

// Usage holds token usage totals for a generation.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}
