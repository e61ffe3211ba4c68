package mentions

import (
	"fmt"
	"iter"
	"sort"

	"github.com/yangbooom/mentions-go/internal/buffer"
	"github.com/yangbooom/mentions-go/internal/markup"
	"github.com/yangbooom/mentions-go/internal/util"
)

// Engine maps between a markup value and its plain-text projection and
// reconciles plain-text edits back into markup.
//
// An Engine is safe for concurrent use. Plain-text indices accepted and
// returned by its methods are measured in the configured Unit; markup
// indices are always byte offsets.
type Engine struct {
	configs []*MarkupConfig
	set     *markup.Set
	opts    *Options
	cache   *snapshotCache
}

// New creates an engine for the given mention types. With no configs the
// engine uses DefaultConfigs.
func New(configs []*MarkupConfig, opts ...Option) (*Engine, error) {
	if len(configs) == 0 {
		configs = DefaultConfigs()
	}
	for i, c := range configs {
		if c == nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("mention type %d is nil", i)}
		}
	}
	options := applyOptions(opts...)
	if options.Unit > UnitGrapheme {
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown unit %d", options.Unit)}
	}
	configs = append([]*MarkupConfig(nil), configs...)
	return &Engine{
		configs: configs,
		set:     markup.NewSet(configs),
		opts:    options,
		cache:   newSnapshotCache(options.CacheSize),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(configs []*MarkupConfig, opts ...Option) *Engine {
	e, err := New(configs, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Configs returns the engine's mention types in precedence order.
func (e *Engine) Configs() []*MarkupConfig {
	return append([]*MarkupConfig(nil), e.configs...)
}

// Unit returns the unit of plain-text indices.
func (e *Engine) Unit() Unit {
	return e.opts.Unit
}

// Tokenize lazily splits value into text and mention tokens. Token offsets
// are byte offsets.
func (e *Engine) Tokenize(value string) iter.Seq[Token] {
	return e.set.Tokenize(value)
}

// Tokens returns all tokens of value. Token offsets are byte offsets.
func (e *Engine) Tokens(value string) []Token {
	return append([]Token(nil), e.analyze(value).tokens...)
}

// Project returns the plain-text projection of value and its mentions.
func (e *Engine) Project(value string) (string, []Mention) {
	s := e.analyze(value)
	return s.plain, s.describe()
}

// PlainText returns the plain-text projection of value.
func (e *Engine) PlainText(value string) string {
	return e.analyze(value).plain
}

// ExtractMentions returns the mentions of value in order of appearance.
func (e *Engine) ExtractMentions(value string) []Mention {
	return e.analyze(value).describe()
}

// MentionAt returns the mention whose display text contains the plain
// index, if any. A mention contains the positions from its first display
// character up to, but excluding, the position right after it.
func (e *Engine) MentionAt(value string, plainIndex int) (Mention, bool) {
	s := e.analyze(value)
	b := s.index.ToByte(plainIndex)
	i := s.tokenAt(b)
	if i < 0 {
		return Mention{}, false
	}
	return s.mention(s.tokens[i]), true
}

// snapshot is the analysis of one markup value.
type snapshot struct {
	value  string
	tokens []Token
	plain  string
	index  *util.Index
	// mentions lists the positions of mention tokens in tokens.
	mentions []int
}

func (e *Engine) analyze(value string) *snapshot {
	if s, ok := e.cache.get(value); ok {
		return s
	}

	s := &snapshot{value: value}
	buf := buffer.New()
	for tok := range e.set.Tokenize(value) {
		if tok.IsMention() {
			s.mentions = append(s.mentions, len(s.tokens))
		}
		buf.Write(tok.Text)
		s.tokens = append(s.tokens, tok)
	}
	s.plain = buf.String()
	s.index = util.NewIndex(s.plain, e.opts.Unit)

	e.cache.put(value, s)
	return s
}

func (s *snapshot) describe() []Mention {
	if len(s.mentions) == 0 {
		return nil
	}
	out := make([]Mention, 0, len(s.mentions))
	for _, i := range s.mentions {
		out = append(out, s.mention(s.tokens[i]))
	}
	return out
}

func (s *snapshot) mention(tok Token) Mention {
	return Mention{
		ID:             tok.ID,
		Display:        tok.Display,
		TypeIndex:      tok.TypeIndex,
		MarkupIndex:    tok.MarkupStart,
		PlainTextIndex: s.index.FromByte(tok.PlainStart),
	}
}

// tokenAt returns the position of the mention token whose plain span
// [PlainStart, PlainEnd) contains the byte offset b, or -1.
func (s *snapshot) tokenAt(b int) int {
	n := len(s.mentions)
	k := sort.Search(n, func(k int) bool {
		return s.tokens[s.mentions[k]].PlainEnd > b
	})
	if k < n && s.tokens[s.mentions[k]].PlainStart <= b {
		return s.mentions[k]
	}
	return -1
}

// inside returns the mention token strictly containing the plain byte
// offset b, meaning b is neither its start nor its end.
func (s *snapshot) inside(b int) (Token, bool) {
	i := s.tokenAt(b)
	if i < 0 {
		return Token{}, false
	}
	tok := s.tokens[i]
	if b == tok.PlainStart {
		return Token{}, false
	}
	return tok, true
}
