// Package gemini integrates the Gemini family: a turn-level wire format
// parser for the Gemini CLI and an embedder backed by the Gemini API.
package gemini

import (
	"encoding/json"

	"github.com/fwojciec/refdoc"
)

// Ensure Parser implements refdoc.LineParser at compile time.
var _ refdoc.LineParser = (*Parser)(nil)

// Parser is a pure per-line parser for the turn-level stream format. An
// assistant message carries either a full replacement text or, when the
// delta flag is set, an incremental fragment.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

type wireLine struct {
	Type         string     `json:"type"`
	FullText     string     `json:"fullText"`
	Delta        bool       `json:"delta"`
	Text         string     `json:"text"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	FinishReason string     `json:"finishReason"`
	Usage        *wireUsage `json:"usage"`
	Cost         float64    `json:"cost"`
}

type wireUsage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// ParseLine translates one stream line into canonical events. Malformed or
// unrecognized lines yield no events; parsing continues.
func (p *Parser) ParseLine(line []byte) []refdoc.StreamEvent {
	var l wireLine
	if err := json.Unmarshal(line, &l); err != nil {
		return nil
	}

	switch l.Type {
	case "assistant":
		if l.Delta {
			if l.Text == "" {
				return nil
			}
			return []refdoc.StreamEvent{{Type: refdoc.EventText, Text: l.Text}}
		}
		if l.FullText == "" {
			return nil
		}
		// Full message per turn: replaces accumulated text, never appends.
		return []refdoc.StreamEvent{{Type: refdoc.EventText, Text: l.FullText, Replace: true}}

	case "tool":
		if l.Name == "" {
			return nil
		}
		return []refdoc.StreamEvent{{Type: refdoc.EventTool, Tool: l.Name}}

	case "result":
		events := make([]refdoc.StreamEvent, 0, 3)
		if l.Usage != nil {
			events = append(events, refdoc.StreamEvent{
				Type:         refdoc.EventUsage,
				InputTokens:  l.Usage.InputTokens,
				OutputTokens: l.Usage.OutputTokens,
			})
		}
		if l.Cost > 0 {
			events = append(events, refdoc.StreamEvent{Type: refdoc.EventCost, Cost: l.Cost})
		}
		status := l.Status
		if status == "" {
			status = "success"
		}
		events = append(events, refdoc.StreamEvent{
			Type:         refdoc.EventDone,
			Status:       status,
			FinishReason: l.FinishReason,
		})
		return events
	}

	return nil
}
