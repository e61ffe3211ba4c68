package parser

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yangbooom/mentions-go/internal/converter"
	"github.com/yangbooom/mentions-go/internal/markup"
	"github.com/yangbooom/mentions-go/internal/types"
)

// mentionPriority 高于 goldmark 内置的 link 解析器 (200)
const mentionPriority = 99

// Options returns the goldmark options used for mention-aware Markdown.
func Options(configs []*markup.Config) []goldmark.Option {
	return []goldmark.Option{
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithInlineParsers(
				util.Prioritized(NewMentionParser(configs), mentionPriority),
			),
		),
	}
}

// Parse 解析 Markdown 并遍历 AST 生成 (text, entities)
func Parse(markdown string, configs []*markup.Config) (string, []types.MessageEntity) {
	source := []byte(markdown)
	node := parse(source, configs)

	walker := converter.NewEventWalker(source)
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return walker.Walk(n, entering)
	})
	return walker.Result()
}

// ParseAST 仅解析为 AST，不遍历
func ParseAST(markdown string, configs []*markup.Config) ast.Node {
	return parse([]byte(markdown), configs)
}

func parse(source []byte, configs []*markup.Config) ast.Node {
	md := goldmark.New(Options(configs)...)
	return md.Parser().Parse(text.NewReader(source))
}
