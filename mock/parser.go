package mock

import (
	"github.com/fwojciec/refdoc"
)

var _ refdoc.LineParser = (*LineParser)(nil)

// LineParser is a mock implementation of refdoc.LineParser.
type LineParser struct {
	ParseLineFn func(line []byte) []refdoc.StreamEvent
}

func (p *LineParser) ParseLine(line []byte) []refdoc.StreamEvent {
	return p.ParseLineFn(line)
}
