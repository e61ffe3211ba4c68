package converter

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yangbooom/mentions-go/internal/buffer"
	"github.com/yangbooom/mentions-go/internal/types"
)

// Entity types emitted by the walker.
const (
	EntityMention       = "mention"
	EntityBold          = "bold"
	EntityItalic        = "italic"
	EntityStrikethrough = "strikethrough"
	EntityCode          = "code"
	EntityPre           = "pre"
	EntityTextLink      = "text_link"
	EntityBlockquote    = "blockquote"
)

// EventWalker 遍历 goldmark AST 并生成 (text, entities)
type EventWalker struct {
	buf         *buffer.TextBuffer
	source      []byte
	entityStack []EntityScope
	entities    []types.MessageEntity

	// Block-level state
	blockCount int
	listStack  []*int // nil=unordered, *int=ordered(next_number)

	blockquoteScopes []EntityScope
}

// NewEventWalker 创建新的 EventWalker
func NewEventWalker(source []byte) *EventWalker {
	return &EventWalker{
		buf:    buffer.New(),
		source: source,
	}
}

// Walk 遍历 AST 节点
func (w *EventWalker) Walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	// --- Inline elements ---
	case *Mention:
		if entering {
			w.onMention(n)
		}

	case *ast.Text:
		if entering {
			w.onText(n.Segment, n.SoftLineBreak(), n.HardLineBreak())
		}

	case *ast.String:
		if entering {
			w.buf.Write(string(n.Value))
		}

	case *ast.CodeSpan:
		if entering {
			w.onInlineCode(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		etype := EntityItalic
		if n.Level == 2 {
			etype = EntityBold
		}
		if entering {
			w.pushEntity(etype, "")
		} else {
			w.popEntity(etype)
		}

	case *east.Strikethrough:
		if entering {
			w.pushEntity(EntityStrikethrough, "")
		} else {
			w.popEntity(EntityStrikethrough)
		}

	case *ast.Link:
		if entering {
			if dest := string(n.Destination); dest != "" {
				w.pushEntity(EntityTextLink, dest)
			}
		} else {
			w.popEntity(EntityTextLink)
		}

	case *ast.AutoLink:
		if entering {
			url := string(n.URL(w.source))
			w.pushEntity(EntityTextLink, url)
			w.buf.Write(url)
			w.popEntity(EntityTextLink)
			return ast.WalkSkipChildren, nil
		}

	// --- Block elements ---
	case *ast.Paragraph:
		if entering {
			if len(w.listStack) == 0 {
				w.ensureBlockSpacing()
			}
		} else {
			w.onEndParagraph()
		}

	case *ast.Heading:
		if entering {
			w.ensureBlockSpacing()
			w.pushEntity(EntityBold, "")
		} else {
			w.popEntity(EntityBold)
			w.blockCount++
		}

	case *ast.Blockquote:
		if entering {
			w.onStartBlockquote()
		} else {
			w.onEndBlockquote()
		}

	case *ast.List:
		if entering {
			w.onStartList(n)
		} else {
			w.onEndList()
		}

	case *ast.ListItem:
		if entering {
			w.onStartItem()
		} else if w.buf.TrailingNewlineCount() == 0 {
			w.buf.Write("\n")
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.onCodeBlock(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.ThematicBreak:
		if entering {
			w.ensureBlockSpacing()
			w.buf.Write("————————")
			w.blockCount++
		}

	case *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

// Result 返回转换结果
func (w *EventWalker) Result() (string, []types.MessageEntity) {
	return w.buf.String(), w.entities
}

// --- Inline handling ---

func (w *EventWalker) onMention(n *Mention) {
	start := w.buf.UTF16Offset()
	w.buf.Write(n.Display)
	length := w.buf.UTF16Offset() - start
	if length > 0 {
		w.entities = append(w.entities, types.MessageEntity{
			Type:        EntityMention,
			Offset:      start,
			Length:      length,
			MentionID:   n.ID,
			MentionType: n.TypeIndex,
		})
	}
}

func (w *EventWalker) onText(seg text.Segment, softBreak bool, hardBreak bool) {
	textContent := string(seg.Value(w.source))
	if softBreak || hardBreak {
		textContent += "\n"
	}
	w.buf.Write(textContent)
}

func (w *EventWalker) onInlineCode(n *ast.CodeSpan) {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(w.source))
		}
	}
	w.writeEntity(EntityCode, sb.String(), "")
}

// --- Blocks ---

func (w *EventWalker) onEndParagraph() {
	if len(w.listStack) == 0 {
		w.blockCount++
	} else if w.buf.TrailingNewlineCount() == 0 {
		// loose list 中段落结束时写入换行，避免多段落粘连
		w.buf.Write("\n")
	}
}

func (w *EventWalker) onCodeBlock(n ast.Node) {
	var lang string
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		lang = strings.TrimSpace(strings.Split(string(fenced.Language(w.source)), ",")[0])
	}

	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(w.source))
	}
	code := strings.TrimSuffix(sb.String(), "\n")

	w.ensureBlockSpacing()
	w.writeEntity(EntityPre, code, lang)
	w.blockCount++
}

func (w *EventWalker) onStartBlockquote() {
	w.ensureBlockSpacing()
	w.blockquoteScopes = append(w.blockquoteScopes, EntityScope{
		EntityType:  EntityBlockquote,
		StartOffset: w.buf.UTF16Offset(),
	})
}

func (w *EventWalker) onEndBlockquote() {
	if n := len(w.blockquoteScopes); n > 0 {
		scope := w.blockquoteScopes[n-1]
		w.blockquoteScopes = w.blockquoteScopes[:n-1]
		w.finalizeEntity(scope)
	}
	w.blockCount++
}

func (w *EventWalker) onStartList(n *ast.List) {
	if len(w.listStack) == 0 {
		w.ensureBlockSpacing()
	}
	if n.IsOrdered() {
		start := n.Start
		w.listStack = append(w.listStack, &start)
	} else {
		w.listStack = append(w.listStack, nil)
	}
}

func (w *EventWalker) onStartItem() {
	depth := len(w.listStack)
	if depth == 0 {
		return
	}
	indent := strings.Repeat("  ", depth-1)

	// 嵌套列表：父项文本后没有换行时，插入换行确保子项独占一行
	if w.buf.ByteOffset() > 0 && w.buf.TrailingNewlineCount() == 0 {
		w.buf.Write("\n")
	}

	if next := w.listStack[depth-1]; next != nil {
		w.buf.Write(fmt.Sprintf("%s%d. ", indent, *next))
		*next++
	} else {
		w.buf.Write(indent + "⦁ ")
	}
}

func (w *EventWalker) onEndList() {
	if len(w.listStack) > 0 {
		w.listStack = w.listStack[:len(w.listStack)-1]
	}
	if len(w.listStack) == 0 {
		w.blockCount++
	}
}

// --- Entity helpers ---

func (w *EventWalker) writeEntity(etype, content, lang string) {
	start := w.buf.UTF16Offset()
	w.buf.Write(content)
	if length := w.buf.UTF16Offset() - start; length > 0 {
		w.entities = append(w.entities, types.MessageEntity{
			Type:     etype,
			Offset:   start,
			Length:   length,
			Language: lang,
		})
	}
}

func (w *EventWalker) pushEntity(entityType string, url string) {
	w.entityStack = append(w.entityStack, EntityScope{
		EntityType:  entityType,
		StartOffset: w.buf.UTF16Offset(),
		URL:         url,
	})
}

func (w *EventWalker) popEntity(entityType string) {
	for i := len(w.entityStack) - 1; i >= 0; i-- {
		if w.entityStack[i].EntityType == entityType {
			scope := w.entityStack[i]
			w.entityStack = append(w.entityStack[:i], w.entityStack[i+1:]...)
			w.finalizeEntity(scope)
			return
		}
	}
}

func (w *EventWalker) finalizeEntity(scope EntityScope) {
	length := w.buf.UTF16Offset() - scope.StartOffset
	if length <= 0 {
		return
	}
	w.entities = append(w.entities, types.MessageEntity{
		Type:     scope.EntityType,
		Offset:   scope.StartOffset,
		Length:   length,
		URL:      scope.URL,
		Language: scope.Language,
	})
}

func (w *EventWalker) ensureBlockSpacing() {
	// 块之间保留一个空行
	if w.blockCount > 0 {
		if needed := 2 - w.buf.TrailingNewlineCount(); needed > 0 {
			w.buf.Write(strings.Repeat("\n", needed))
		}
	}
}
