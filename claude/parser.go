// Package claude parses the Claude Code CLI stream-json wire format.
// The format is token-level: text arrives in small incremental fragments.
package claude

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/refdoc"
)

// hintLimit caps the length of tool invocation hints.
const hintLimit = 80

// Ensure Parser implements refdoc.LineParser at compile time.
var _ refdoc.LineParser = (*Parser)(nil)

// Parser is a pure per-line parser for the token-level stream format.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

type wireLine struct {
	Type         string       `json:"type"`
	Subtype      string       `json:"subtype"`
	Event        *wireEvent   `json:"event"`
	Message      *wireMessage `json:"message"`
	Usage        *wireUsage   `json:"usage"`
	TotalCostUSD float64      `json:"total_cost_usd"`
	IsError      bool         `json:"is_error"`
}

type wireEvent struct {
	Type         string     `json:"type"`
	Delta        *wireDelta `json:"delta"`
	ContentBlock *wireBlock `json:"content_block"`
}

type wireDelta struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Thinking string `json:"thinking"`
}

type wireBlock struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

type wireMessage struct {
	Content []wireBlock `json:"content"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ParseLine translates one stream-json line into canonical events.
// Malformed or unrecognized lines yield no events; parsing continues.
func (p *Parser) ParseLine(line []byte) []refdoc.StreamEvent {
	var l wireLine
	if err := json.Unmarshal(line, &l); err != nil {
		return nil
	}

	switch l.Type {
	case "stream_event":
		if l.Event == nil {
			return nil
		}
		return parseStreamEvent(l.Event)

	case "assistant":
		if l.Message == nil {
			return nil
		}
		var events []refdoc.StreamEvent
		for _, block := range l.Message.Content {
			if block.Type == "tool_use" && block.Name != "" {
				events = append(events, refdoc.StreamEvent{
					Type: refdoc.EventTool,
					Tool: block.Name,
					Hint: toolHint(block.Input),
				})
			}
		}
		return events

	case "result":
		events := make([]refdoc.StreamEvent, 0, 3)
		if l.Usage != nil {
			events = append(events, refdoc.StreamEvent{
				Type:         refdoc.EventUsage,
				InputTokens:  l.Usage.InputTokens,
				OutputTokens: l.Usage.OutputTokens,
			})
		}
		if l.TotalCostUSD > 0 {
			events = append(events, refdoc.StreamEvent{
				Type: refdoc.EventCost,
				Cost: l.TotalCostUSD,
			})
		}
		status := "success"
		if l.IsError {
			status = "error"
		}
		events = append(events, refdoc.StreamEvent{
			Type:         refdoc.EventDone,
			Status:       status,
			FinishReason: l.Subtype,
		})
		return events
	}

	return nil
}

func parseStreamEvent(event *wireEvent) []refdoc.StreamEvent {
	switch event.Type {
	case "content_block_delta":
		if event.Delta == nil {
			return nil
		}
		switch event.Delta.Type {
		case "text_delta":
			return []refdoc.StreamEvent{{Type: refdoc.EventText, Text: event.Delta.Text}}
		case "thinking_delta":
			return []refdoc.StreamEvent{{Type: refdoc.EventReasoning, Text: event.Delta.Thinking}}
		}
	case "content_block_start":
		if event.ContentBlock != nil && event.ContentBlock.Type == "tool_use" && event.ContentBlock.Name != "" {
			return []refdoc.StreamEvent{{
				Type: refdoc.EventTool,
				Tool: event.ContentBlock.Name,
				Hint: toolHint(event.ContentBlock.Input),
			}}
		}
	}
	return nil
}

// toolHint extracts a short hint from structured tool input fields.
func toolHint(input map[string]any) string {
	for _, key := range []string{"file_path", "path", "query", "pattern", "command"} {
		if v, ok := input[key]; ok {
			hint := fmt.Sprintf("%v", v)
			if len(hint) > hintLimit {
				hint = hint[:hintLimit-3] + "..."
			}
			return hint
		}
	}
	return ""
}
