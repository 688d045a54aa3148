package refdoc_test

import (
	"testing"

	"github.com/fwojciec/refdoc"
	"github.com/stretchr/testify/assert"
)

func TestCleanOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "# Doc\n\nSome reference text.",
			want: "# Doc\n\nSome reference text.",
		},
		{
			name: "whole-answer code fence unwrapped",
			in:   "```markdown\n# Doc\n\nBody.\n```",
			want: "# Doc\n\nBody.",
		},
		{
			name: "inner code fences preserved",
			in:   "# Doc\n\n```go\nfunc main() {}\n```\n\nMore.",
			want: "# Doc\n\n```go\nfunc main() {}\n```\n\nMore.",
		},
		{
			name: "thinking markers stripped",
			in:   "<thinking>let me plan this</thinking># Doc\n\nBody.",
			want: "# Doc\n\nBody.",
		},
		{
			name: "delimiters keep only inner text",
			in:   "Sure, here is the doc:\n" + refdoc.BeginMarker + "\n# Doc\n" + refdoc.EndMarker + "\nHope that helps!",
			want: "# Doc",
		},
		{
			name: "leading frontmatter stripped without delimiters",
			in:   "---\ntitle: left-pad\nversion: 1.3.0\n---\n\n# Doc",
			want: "# Doc",
		},
		{
			name: "frontmatter inside delimiters preserved",
			in:   refdoc.BeginMarker + "\n---\ntitle: x\n---\n\n# Doc\n" + refdoc.EndMarker,
			want: "---\ntitle: x\n---\n\n# Doc",
		},
		{
			name: "fence then delimiters",
			in:   "```\n" + refdoc.BeginMarker + "\n# Doc\n" + refdoc.EndMarker + "\n```",
			want: "# Doc",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "unclosed fence untouched",
			in:   "```\n# Doc",
			want: "```\n# Doc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, refdoc.CleanOutput(tt.in))
		})
	}
}
