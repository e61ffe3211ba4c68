package converter

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
)

// KindMention is the goldmark node kind of a mention.
var KindMention = ast.NewNodeKind("Mention")

// Mention is an inline AST node holding one serialized mention token.
type Mention struct {
	ast.BaseInline

	ID        string
	Display   string
	TypeIndex int
}

// NewMention returns a mention node.
func NewMention(id, display string, typeIndex int) *Mention {
	return &Mention{ID: id, Display: display, TypeIndex: typeIndex}
}

// Kind implements ast.Node.
func (n *Mention) Kind() ast.NodeKind {
	return KindMention
}

// Dump implements ast.Node.
func (n *Mention) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"ID":        n.ID,
		"Display":   n.Display,
		"TypeIndex": fmt.Sprint(n.TypeIndex),
	}, nil)
}
