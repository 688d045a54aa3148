package refdoc

import (
	"regexp"
	"strings"
)

// Delimiters backends are instructed to wrap their final answer in. When
// both are present in the output, everything outside them is discarded.
const (
	BeginMarker = "<!-- refdoc:begin -->"
	EndMarker   = "<!-- refdoc:end -->"
)

// CleanOutput normalizes raw backend output into final reference text.
// It strips, in order: a whole-answer code-fence wrapper; leaked
// chain-of-thought markers; and everything outside the begin/end
// delimiters when both are present. Without delimiters a leading
// frontmatter-shaped block is stripped heuristically.
func CleanOutput(s string) string {
	s = strings.TrimSpace(s)
	s = unwrapCodeFence(s)
	s = stripReasoningMarkers(s)

	if inner, ok := extractDelimited(s); ok {
		s = inner
	} else {
		s = stripLeadingFrontmatter(s)
	}

	return strings.TrimSpace(s)
}

// unwrapCodeFence removes a code fence wrapping the entire answer. Fences
// inside the answer are left alone.
func unwrapCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	firstNL := strings.IndexByte(s, '\n')
	if firstNL < 0 {
		return s
	}
	rest := s[firstNL+1:]
	closing := strings.LastIndex(rest, "```")
	if closing < 0 {
		return s
	}
	// Only unwrap if nothing but whitespace follows the closing fence.
	if strings.TrimSpace(rest[closing+3:]) != "" {
		return s
	}
	return strings.TrimSpace(rest[:closing])
}

var reasoningRe = regexp.MustCompile(`(?s)<thinking>.*?</thinking>`)

// stripReasoningMarkers removes chain-of-thought blocks leaked into the
// output stream.
func stripReasoningMarkers(s string) string {
	return reasoningRe.ReplaceAllString(s, "")
}

// extractDelimited returns the text between the begin/end markers when
// both are present.
func extractDelimited(s string) (string, bool) {
	begin := strings.Index(s, BeginMarker)
	if begin < 0 {
		return "", false
	}
	end := strings.Index(s[begin+len(BeginMarker):], EndMarker)
	if end < 0 {
		return "", false
	}
	inner := s[begin+len(BeginMarker) : begin+len(BeginMarker)+end]
	return strings.TrimSpace(inner), true
}

// stripLeadingFrontmatter drops a frontmatter-shaped block at the start of
// the output ("---" line, metadata lines, closing "---" line).
func stripLeadingFrontmatter(s string) string {
	if !strings.HasPrefix(s, "---\n") && s != "---" {
		return s
	}
	rest := s[strings.IndexByte(s, '\n')+1:]
	closing := strings.Index(rest, "\n---")
	if closing < 0 {
		return s
	}
	after := rest[closing+len("\n---"):]
	if nl := strings.IndexByte(after, '\n'); nl >= 0 {
		return strings.TrimSpace(after[nl+1:])
	}
	return strings.TrimSpace(after)
}
