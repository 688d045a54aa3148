package optimize

import (
	"fmt"
	"strings"

	"github.com/fwojciec/refdoc"
)

// BuildPrompt renders the generation prompt for a request. The same
// request always renders the same prompt, which is what makes response
// caching by prompt hash sound.
func BuildPrompt(req *refdoc.GenerateRequest) string {
	var b strings.Builder

	b.WriteString("You are optimizing reference documentation for consumption by coding agents.\n\n")

	fmt.Fprintf(&b, "Package: %s\n", req.Package)
	if req.Version != "" {
		fmt.Fprintf(&b, "Version: %s\n", req.Version)
	}
	b.WriteString("\n")

	var available []string
	if req.HasReleaseNotes {
		available = append(available, "release notes")
	}
	if req.HasChangelog {
		available = append(available, "a changelog")
	}
	if req.HasIssueTracker {
		available = append(available, "an issue tracker export")
	}
	if len(available) > 0 {
		fmt.Fprintf(&b, "Reference material available in the working directory: %s. Consult it before answering.\n\n", strings.Join(available, ", "))
	}

	b.WriteString("Rewrite the documentation below into a compact reference. Preserve every API signature, parameter, and behavioral detail an agent would need; remove marketing copy, duplicated examples, and narrative filler. Use terse markdown.\n")
	if len(req.Sections) > 0 {
		fmt.Fprintf(&b, "Cover only these sections: %s.\n", strings.Join(req.Sections, ", "))
	}
	for _, instruction := range req.Instructions {
		fmt.Fprintf(&b, "Additional instruction: %s\n", instruction)
	}

	fmt.Fprintf(&b, "\nWrite the final answer to the file %q in the working directory, wrapped between %s and %s markers. Output nothing else after writing the file.\n", outputFileName, refdoc.BeginMarker, refdoc.EndMarker)

	b.WriteString("\nDocumentation:\n\n")
	b.WriteString(req.Content)

	return b.String()
}
