package mentions

import "sort"

// MapPlainToMarkup converts a plain-text index of value to a markup byte
// offset.
//
// A position on a token boundary or inside a literal run maps exactly. A
// position strictly inside a mention's display text is resolved by policy:
// PolicyStart yields the mention's first markup byte, PolicyEnd the offset
// right after it, and PolicyNull reports ok=false. Positions at or past the
// end of the plain text map to len(value).
func (e *Engine) MapPlainToMarkup(value string, plainIndex int, policy BoundaryPolicy) (int, bool) {
	s := e.analyze(value)
	return s.plainToMarkup(s.index.ToByte(plainIndex), policy)
}

// MapMarkupToPlain converts a markup byte offset of value to a plain-text
// index. An offset strictly inside a mention token is resolved by policy.
func (e *Engine) MapMarkupToPlain(value string, markupIndex int, policy BoundaryPolicy) (int, bool) {
	s := e.analyze(value)
	b, ok := s.markupToPlain(markupIndex, policy)
	if !ok {
		return 0, false
	}
	return s.index.FromByte(b), true
}

func (s *snapshot) plainToMarkup(p int, policy BoundaryPolicy) (int, bool) {
	if p <= 0 {
		return 0, true
	}
	if p >= len(s.plain) {
		return len(s.value), true
	}

	// 第一个 PlainEnd >= p 的 token
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].PlainEnd >= p
	})
	if i == len(s.tokens) {
		return len(s.value), true
	}
	tok := s.tokens[i]
	if !tok.IsMention() {
		return tok.MarkupStart + p - tok.PlainStart, true
	}
	switch {
	case p == tok.PlainStart:
		return tok.MarkupStart, true
	case p == tok.PlainEnd:
		return tok.MarkupEnd, true
	}
	return resolve(tok.MarkupStart, tok.MarkupEnd, policy)
}

func (s *snapshot) markupToPlain(m int, policy BoundaryPolicy) (int, bool) {
	if m <= 0 {
		return 0, true
	}
	if m >= len(s.value) {
		return len(s.plain), true
	}

	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].MarkupEnd > m
	})
	if i == len(s.tokens) {
		return len(s.plain), true
	}
	tok := s.tokens[i]
	if !tok.IsMention() {
		return tok.PlainStart + m - tok.MarkupStart, true
	}
	if m == tok.MarkupStart {
		return tok.PlainStart, true
	}
	return resolve(tok.PlainStart, tok.PlainEnd, policy)
}

func resolve(start, end int, policy BoundaryPolicy) (int, bool) {
	switch policy {
	case PolicyStart:
		return start, true
	case PolicyEnd:
		return end, true
	default:
		return 0, false
	}
}

// endOfLastMention returns the plain byte offset right after the last
// mention that ends at or before the markup offset m, or 0.
func (s *snapshot) endOfLastMention(m int) int {
	k := sort.Search(len(s.mentions), func(k int) bool {
		return s.tokens[s.mentions[k]].MarkupEnd > m
	})
	if k == 0 {
		return 0
	}
	return s.tokens[s.mentions[k-1]].PlainEnd
}
