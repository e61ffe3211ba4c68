package mentions

import (
	"strings"

	"github.com/yangbooom/mentions-go/internal/util"
)

// MarkupMIMEType is the clipboard type under which markup fragments are
// exchanged between mention-aware controls.
const MarkupMIMEType = "text/x-mentions-markup"

// Fragment is what a copy puts on the clipboard.
type Fragment struct {
	// PlainText is the selected plain text, for text/plain.
	PlainText string `json:"plain_text"`
	// Markup is the markup covering the selection, for MarkupMIMEType.
	// Mentions partially covered by the selection are included whole.
	Markup string `json:"markup"`
}

// Copy returns the clipboard fragment for sel. An inactive selection
// copies nothing.
func (e *Engine) Copy(value string, sel Selection) Fragment {
	if !sel.Active {
		return Fragment{}
	}
	s := e.analyze(value)
	a, b := s.span(sel)
	start, _ := s.plainToMarkup(a, PolicyStart)
	end, _ := s.plainToMarkup(b, PolicyEnd)
	return Fragment{
		PlainText: s.plain[a:b],
		Markup:    value[start:end],
	}
}

// Cut is Copy followed by removing the copied markup from value.
func (e *Engine) Cut(value string, sel Selection) (Fragment, Result) {
	s := e.analyze(value)
	if !sel.Active {
		return Fragment{}, e.result(value, len(s.plain))
	}
	frag := e.Copy(value, sel)
	a, b := s.span(sel)
	start, _ := s.plainToMarkup(a, PolicyStart)
	end, _ := s.plainToMarkup(b, PolicyEnd)
	caret, _ := s.markupToPlain(start, PolicyStart)
	return frag, e.result(value[:start]+value[end:], caret)
}

// Paste replaces sel with a markup fragment taken from the clipboard.
// Carriage returns are dropped. An inactive selection pastes at the end.
func (e *Engine) Paste(value string, sel Selection, fragment string) Result {
	fragment = strings.ReplaceAll(fragment, "\r", "")
	s := e.analyze(value)

	a, b := len(s.plain), len(s.plain)
	if sel.Active {
		a, b = s.span(sel)
	}
	start, _ := s.plainToMarkup(a, PolicyStart)
	end, _ := s.plainToMarkup(b, PolicyEnd)
	caret, _ := s.markupToPlain(start, PolicyStart)
	caret += len(e.analyze(fragment).plain)
	return e.result(value[:start]+fragment+value[end:], caret)
}

// PastePlain replaces sel with literal text.
func (e *Engine) PastePlain(value string, sel Selection, text string) Result {
	s := e.analyze(value)
	text = strings.ReplaceAll(text, "\r", "")
	a, b := len(s.plain), len(s.plain)
	if sel.Active {
		a, b = s.span(sel)
	}
	newPlain := s.plain[:a] + text + s.plain[b:]
	before := Selection{Start: s.index.FromByte(a), End: s.index.FromByte(b), Active: true}
	i := util.NewIndex(newPlain, e.opts.Unit).FromByte(a + len(text))
	after := Selection{Start: i, End: i, Active: true}
	return e.ApplyChange(value, newPlain, Change{Before: before, After: after})
}

// span returns sel as ordered plain byte offsets.
func (s *snapshot) span(sel Selection) (int, int) {
	a := s.index.ToByte(min(sel.Start, sel.End))
	b := s.index.ToByte(max(sel.Start, sel.End))
	return a, b
}
