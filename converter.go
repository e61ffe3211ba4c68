package mentions

import (
	"github.com/yangbooom/mentions-go/internal/buffer"
	"github.com/yangbooom/mentions-go/internal/parser"
)

// Entities 将 markup 转换为 (plain_text, entities)
//
// Every mention becomes an entity of type EntityMention covering its
// display text, carrying the mention's id and type index. Offsets are
// UTF-16 code units. With WithMarkdown the literal runs are parsed as
// Markdown: formatting entities are added and Markdown syntax is dropped
// from the text, so the text then differs from PlainText.
func (e *Engine) Entities(value string) (string, []MessageEntity) {
	if e.opts.Markdown {
		return parser.Parse(value, e.configs)
	}

	s := e.analyze(value)
	buf := buffer.New()
	var entities []MessageEntity
	for _, tok := range s.tokens {
		start := buf.UTF16Offset()
		buf.Write(tok.Text)
		if !tok.IsMention() {
			continue
		}
		if length := buf.UTF16Offset() - start; length > 0 {
			entities = append(entities, MessageEntity{
				Type:        EntityMention,
				Offset:      start,
				Length:      length,
				MentionID:   tok.ID,
				MentionType: tok.TypeIndex,
			})
		}
	}
	return buf.String(), entities
}

// Convert 将含 mention 的 Markdown 转换为 (plain_text, entities)
//
// 参数:
//   - markdown: 含序列化 mention 的 Markdown 文本
//   - configs: mention 类型，为 nil 时使用 DefaultConfigs
//
// 返回:
//   - string: 纯文本
//   - []MessageEntity: 实体列表（UTF-16 偏移）
func Convert(markdown string, configs []*MarkupConfig) (string, []MessageEntity) {
	if len(configs) == 0 {
		configs = DefaultConfigs()
	}
	return parser.Parse(markdown, configs)
}
