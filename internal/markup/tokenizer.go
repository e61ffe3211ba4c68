package markup

import (
	"iter"
	"strings"

	"github.com/yangbooom/mentions-go/internal/types"
)

// Tokenize scans markup once and yields its tokens left to right.
//
// The leftmost match of any config wins; on equal starts the earlier config
// wins. Literal characters between matches become TokenText tokens. The
// markup spans of the yielded tokens are contiguous and concatenate to
// markup.
func Tokenize(markup string, configs []*Config) iter.Seq[types.Token] {
	return NewSet(configs).Tokenize(markup)
}

// Tokenize yields the tokens of markup for the set's configs.
func (s *Set) Tokenize(markup string) iter.Seq[types.Token] {
	return func(yield func(types.Token) bool) {
		cursor, plain := 0, 0
		var matches [][]int
		if s.re != nil {
			matches = s.re.FindAllStringSubmatchIndex(markup, -1)
		}
		for _, loc := range matches {
			// 空匹配不产生 mention
			if loc[1] == loc[0] {
				continue
			}
			i, sub := s.split(loc)
			if i < 0 {
				continue
			}
			if sub[0] > cursor {
				if !yield(textToken(markup[cursor:sub[0]], cursor, plain)) {
					return
				}
				plain += sub[0] - cursor
			}

			tok := s.configs[i].mentionToken(markup, sub, plain)
			tok.TypeIndex = i
			if !yield(tok) {
				return
			}
			plain = tok.PlainEnd
			cursor = sub[1]
		}

		if cursor < len(markup) {
			yield(textToken(markup[cursor:], cursor, plain))
		}
	}
}

// Collect is a convenience that materializes Tokenize.
func Collect(markup string, configs []*Config) []types.Token {
	var out []types.Token
	for tok := range Tokenize(markup, configs) {
		out = append(out, tok)
	}
	return out
}

// PlainText concatenates the visible text of tokens.
func PlainText(tokens []types.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

func (c *Config) mentionToken(markup string, loc []int, plain int) types.Token {
	id := group(markup, loc, c.idGroup)
	display := c.transform(id, group(markup, loc, c.displayGroup))
	return types.Token{
		Kind:        types.TokenMention,
		Text:        display,
		Markup:      markup[loc[0]:loc[1]],
		ID:          id,
		Display:     display,
		MarkupStart: loc[0],
		MarkupEnd:   loc[1],
		PlainStart:  plain,
		PlainEnd:    plain + len(display),
	}
}

func group(s string, loc []int, n int) string {
	if n <= 0 || 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return s[loc[2*n]:loc[2*n+1]]
}

func textToken(text string, markupStart, plainStart int) types.Token {
	return types.Token{
		Kind:        types.TokenText,
		Text:        text,
		Markup:      text,
		MarkupStart: markupStart,
		MarkupEnd:   markupStart + len(text),
		PlainStart:  plainStart,
		PlainEnd:    plainStart + len(text),
	}
}

// MatchPrefix returns the mention token of this type starting at s[0].
func (c *Config) MatchPrefix(s string) (types.Token, bool) {
	loc := c.re.FindStringSubmatchIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return types.Token{}, false
	}
	return c.mentionToken(s, loc, 0), true
}
