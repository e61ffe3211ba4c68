package parser

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yangbooom/mentions-go/internal/converter"
	"github.com/yangbooom/mentions-go/internal/markup"
)

// mentionParser turns serialized mention tokens inside Markdown into
// converter.Mention nodes before the link parser can claim them.
type mentionParser struct {
	configs  []*markup.Config
	triggers []byte
}

// NewMentionParser returns an inline parser for the given mention types.
// Types whose template starts with a placeholder have no fixed first byte
// and are not recognized inside Markdown.
func NewMentionParser(configs []*markup.Config) parser.InlineParser {
	p := &mentionParser{configs: configs}
	seen := make(map[byte]bool)
	for _, c := range configs {
		tpl := c.Template()
		if strings.HasPrefix(tpl, markup.PlaceholderID) || strings.HasPrefix(tpl, markup.PlaceholderDisplay) {
			continue
		}
		if !seen[tpl[0]] {
			seen[tpl[0]] = true
			p.triggers = append(p.triggers, tpl[0])
		}
	}
	return p
}

func (p *mentionParser) Trigger() []byte {
	return p.triggers
}

func (p *mentionParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	for i, c := range p.configs {
		tok, ok := c.MatchPrefix(string(line))
		if !ok {
			continue
		}
		block.Advance(tok.MarkupEnd)
		return converter.NewMention(tok.ID, tok.Display, i)
	}
	return nil
}
