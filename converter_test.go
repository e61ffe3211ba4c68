package mentions

import (
	"strings"
	"testing"
)

// findEntity 查找指定类型的第一个 entity
func findEntity(entities []MessageEntity, etype string) *MessageEntity {
	for i := range entities {
		if entities[i].Type == etype {
			return &entities[i]
		}
	}
	return nil
}

// findEntities 查找指定类型的所有 entities
func findEntities(entities []MessageEntity, etype string) []MessageEntity {
	result := []MessageEntity{}
	for _, e := range entities {
		if e.Type == etype {
			result = append(result, e)
		}
	}
	return result
}

// extractEntityText 从纯文本中提取 entity 覆盖的子串
func extractEntityText(text string, entity *MessageEntity) string {
	utf16Offset := 0
	start, end := -1, -1
	for i, ch := range text {
		if utf16Offset == entity.Offset && start == -1 {
			start = i
		}
		if utf16Offset == entity.Offset+entity.Length && end == -1 {
			end = i
			break
		}
		if ch > 0xFFFF {
			utf16Offset += 2
		} else {
			utf16Offset++
		}
	}
	if start != -1 && end == -1 {
		end = len(text)
	}
	if start == -1 {
		return ""
	}
	return text[start:end]
}

// TestEntities_Mention 测试 mention 实体
func TestEntities_Mention(t *testing.T) {
	e := newEngine(t)
	text, entities := e.Entities(sample)
	if text != "Hi John, how are you?" {
		t.Errorf("Entities() text = %q", text)
	}
	if len(entities) != 1 {
		t.Fatalf("Entities() returned %d entities, want 1", len(entities))
	}
	m := entities[0]
	if m.Type != EntityMention || m.Offset != 3 || m.Length != 4 {
		t.Errorf("mention entity = %+v", m)
	}
	if m.MentionID != "42" {
		t.Errorf("mention id = %q, want 42", m.MentionID)
	}
}

// TestEntities_UTF16Offset 测试 emoji 之后的 UTF-16 偏移
func TestEntities_UTF16Offset(t *testing.T) {
	e := newEngine(t)
	text, entities := e.Entities("📌 @[Zoë](1) and @[Al](2)")
	mentions := findEntities(entities, EntityMention)
	if len(mentions) != 2 {
		t.Fatalf("got %d mention entities, want 2", len(mentions))
	}
	// "📌 " = 2 + 1 = 3 UTF-16 code units
	if mentions[0].Offset != 3 || mentions[0].Length != 3 {
		t.Errorf("first mention = %+v, want offset 3 length 3", mentions[0])
	}
	if got := extractEntityText(text, &mentions[1]); got != "Al" {
		t.Errorf("second mention text = %q, want Al", got)
	}
}

// TestEntities_EmptyDisplaySkipped 测试空显示文本不产生实体
func TestEntities_EmptyDisplaySkipped(t *testing.T) {
	cfg, err := NewMarkup("<@__id__>", WithDisplayTransform(func(id, display string) string { return "" }))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New([]*MarkupConfig{cfg})
	if err != nil {
		t.Fatal(err)
	}
	text, entities := e.Entities("a<@1>b")
	if text != "ab" || len(entities) != 0 {
		t.Errorf("Entities() = %q, %v", text, entities)
	}
}

// TestMarkdown_BoldAndMention 测试 Markdown 与 mention 混排
func TestMarkdown_BoldAndMention(t *testing.T) {
	e := newEngine(t, WithMarkdown(true))
	text, entities := e.Entities("**Hi** @[John](42)")
	if text != "Hi John" {
		t.Errorf("text = %q, want 'Hi John'", text)
	}
	bold := findEntity(entities, "bold")
	if bold == nil {
		t.Fatal("should have bold entity")
	}
	if extractEntityText(text, bold) != "Hi" {
		t.Errorf("bold text = %q", extractEntityText(text, bold))
	}
	m := findEntity(entities, EntityMention)
	if m == nil {
		t.Fatal("should have mention entity")
	}
	if extractEntityText(text, m) != "John" || m.MentionID != "42" {
		t.Errorf("mention entity = %+v", *m)
	}
}

// TestMarkdown_MentionIsNotALink 测试 mention 不会被解析成链接
func TestMarkdown_MentionIsNotALink(t *testing.T) {
	text, entities := Convert("ask @[John](42) or [docs](https://example.com)", nil)
	if text != "ask John or docs" {
		t.Errorf("text = %q", text)
	}
	links := findEntities(entities, "text_link")
	if len(links) != 1 || links[0].URL != "https://example.com" {
		t.Errorf("links = %v", links)
	}
	if findEntity(entities, EntityMention) == nil {
		t.Error("should have mention entity")
	}
}

// TestMarkdown_MentionInsideEmphasis 测试斜体中的 mention
func TestMarkdown_MentionInsideEmphasis(t *testing.T) {
	text, entities := Convert("*ping @[Ann](7)*", nil)
	italic := findEntity(entities, "italic")
	if italic == nil {
		t.Fatal("should have italic entity")
	}
	if extractEntityText(text, italic) != "ping Ann" {
		t.Errorf("italic text = %q", extractEntityText(text, italic))
	}
	m := findEntity(entities, EntityMention)
	if m == nil || extractEntityText(text, m) != "Ann" {
		t.Errorf("mention entity = %v", m)
	}
}

// TestMarkdown_CodeKeepsMarkup 测试代码中的 mention 保持原样
func TestMarkdown_CodeKeepsMarkup(t *testing.T) {
	text, entities := Convert("`@[John](42)`", nil)
	if text != "@[John](42)" {
		t.Errorf("text = %q", text)
	}
	if findEntity(entities, EntityMention) != nil {
		t.Error("code span should not contain mention entities")
	}
	if findEntity(entities, "code") == nil {
		t.Error("should have code entity")
	}
}

// TestMarkdown_Blocks 测试块级元素
func TestMarkdown_Blocks(t *testing.T) {
	md := `# Title

- one @[A](1)
- two

> quoted

` + "```go\nfmt.Println()\n```"

	text, entities := Convert(md, nil)
	if !strings.Contains(text, "⦁ one A") {
		t.Errorf("list item missing: %q", text)
	}
	if findEntity(entities, "bold") == nil {
		t.Error("heading should be bold")
	}
	if q := findEntity(entities, "blockquote"); q == nil || extractEntityText(text, q) != "quoted" {
		t.Errorf("blockquote = %v", q)
	}
	pre := findEntity(entities, "pre")
	if pre == nil || pre.Language != "go" || extractEntityText(text, pre) != "fmt.Println()" {
		t.Errorf("pre = %v", pre)
	}
	if !strings.HasPrefix(text, "Title\n\n") {
		t.Errorf("text should start with heading and blank line: %q", text)
	}
}
