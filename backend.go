package refdoc

import "strings"

// Backend describes an external command-line generative backend. The
// descriptor table is static, process-wide, and read-only after init.
type Backend struct {
	// ID identifies the backend family (e.g. "claude", "gemini").
	ID string

	// Name is the human-readable display name.
	Name string

	// Command is the CLI executable invoked for this backend.
	Command string

	// Models maps short model ids accepted in requests to the model
	// argument passed to the CLI.
	Models map[string]string

	// TokenStream is true for backends that emit text in small incremental
	// fragments (token-level streaming) and false for backends that emit
	// one complete message per logical turn (turn-level streaming).
	TokenStream bool
}

// backends is the static descriptor table. Parser selection is a static
// lookup keyed by backend id; no runtime reflection is involved.
var backends = []*Backend{
	{
		ID:      "claude",
		Name:    "Claude Code",
		Command: "claude",
		Models: map[string]string{
			"haiku":  "claude-haiku-4-5",
			"sonnet": "claude-sonnet-4-5",
			"opus":   "claude-opus-4-1",
		},
		TokenStream: true,
	},
	{
		ID:      "gemini",
		Name:    "Gemini CLI",
		Command: "gemini",
		Models: map[string]string{
			"gemini-flash": "gemini-2.5-flash",
			"gemini-pro":   "gemini-2.5-pro",
		},
		TokenStream: false,
	},
}

// DefaultBaselineModel is the designated fallback model retried once after
// the requested model fails.
const DefaultBaselineModel = "haiku"

// Backends returns the static backend descriptor table.
func Backends() []*Backend {
	return backends
}

// LookupBackend returns the backend descriptor serving the given model id.
func LookupBackend(model string) (*Backend, bool) {
	for _, b := range backends {
		if _, ok := b.Models[model]; ok {
			return b, true
		}
	}
	return nil, false
}

// Args builds the CLI argument list for a run: streaming structured-output
// mode, the target model, the filesystem paths the backend may touch, and
// flags suppressing interactive confirmation and session persistence.
// The permitted scope comes first; extraDirs are additional reference
// directories (already resolved to real paths by the caller).
func (b *Backend) Args(model, scope string, extraDirs []string) []string {
	modelArg := b.Models[model]
	if modelArg == "" {
		modelArg = model
	}

	dirs := make([]string, 0, len(extraDirs)+1)
	if scope != "" {
		dirs = append(dirs, scope)
	}
	dirs = append(dirs, extraDirs...)

	switch b.ID {
	case "claude":
		args := []string{
			"-p",
			"--output-format", "stream-json",
			"--verbose",
			"--model", modelArg,
			"--permission-mode", "bypassPermissions",
		}
		for _, dir := range dirs {
			args = append(args, "--add-dir", dir)
		}
		return args
	default:
		args := []string{
			"--output-format", "stream-json",
			"-m", modelArg,
			"--yolo",
		}
		if len(dirs) > 0 {
			args = append(args, "--include-directories", strings.Join(dirs, ","))
		}
		return args
	}
}
