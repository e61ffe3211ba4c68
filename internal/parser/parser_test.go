package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"

	"github.com/yangbooom/mentions-go/internal/converter"
	"github.com/yangbooom/mentions-go/internal/markup"
)

func userConfigs(t *testing.T) []*markup.Config {
	t.Helper()
	c, err := markup.New("@[__display__](__id__)")
	require.NoError(t, err)
	return []*markup.Config{c}
}

func collectMentions(node ast.Node) []*converter.Mention {
	var out []*converter.Mention
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if m, ok := n.(*converter.Mention); ok && entering {
			out = append(out, m)
		}
		return ast.WalkContinue, nil
	})
	return out
}

func TestParseAST_MentionNodes(t *testing.T) {
	node := ParseAST("Hi @[John](42) and @[Ann](7)", userConfigs(t))

	found := collectMentions(node)
	require.Len(t, found, 2)
	assert.Equal(t, "42", found[0].ID)
	assert.Equal(t, "John", found[0].Display)
	assert.Equal(t, "Ann", found[1].Display)
	assert.Equal(t, converter.KindMention, found[0].Kind())
}

func TestParseAST_NoLinkForMention(t *testing.T) {
	node := ParseAST("@[John](42)", userConfigs(t))

	var links int
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if _, ok := n.(*ast.Link); ok && entering {
			links++
		}
		return ast.WalkContinue, nil
	})
	assert.Zero(t, links)
}

func TestParseAST_TemplateStartingWithPlaceholder(t *testing.T) {
	c, err := markup.New("__id__@host")
	require.NoError(t, err)

	node := ParseAST("mail bob@host", []*markup.Config{c})
	assert.Empty(t, collectMentions(node))
}

func TestParse(t *testing.T) {
	text, entities := Parse("_hey_ @[John](42)", userConfigs(t))
	assert.Equal(t, "hey John", text)
	require.Len(t, entities, 2)
	assert.Equal(t, converter.EntityItalic, entities[0].Type)
	assert.Equal(t, converter.EntityMention, entities[1].Type)
	assert.Equal(t, 4, entities[1].Offset)
	assert.Equal(t, 4, entities[1].Length)
	assert.Equal(t, "42", entities[1].MentionID)
}
