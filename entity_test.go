package mentions

import (
	"strings"
	"testing"
)

// TestUTF16Len 测试 UTF-16 长度
func TestUTF16Len(t *testing.T) {
	tests := map[string]int{
		"":      0,
		"hello": 5,
		"你好":    2,
		"📌":     2,
		"A📌B":   4,
		"🇺🇸":    4,
	}
	for s, want := range tests {
		if got := UTF16Len(s); got != want {
			t.Errorf("UTF16Len(%q) = %d, want %d", s, got, want)
		}
	}
}

// TestMessageEntity_ToDict 测试 mention 实体转 map
func TestMessageEntity_ToDict(t *testing.T) {
	e := MessageEntity{Type: EntityMention, Offset: 3, Length: 4, MentionID: "42", MentionType: 1}
	d := e.ToDict()
	if d["type"] != EntityMention || d["offset"] != 3 || d["length"] != 4 {
		t.Errorf("ToDict() = %v", d)
	}
	if d["mention_id"] != "42" || d["mention_type"] != 1 {
		t.Errorf("ToDict() mention fields = %v", d)
	}
	if _, ok := (MessageEntity{Type: "bold"}).ToDict()["mention_id"]; ok {
		t.Error("ToDict() should omit empty mention id")
	}
}

// TestSplitEntities_NoSplitNeeded 测试无需分割
func TestSplitEntities_NoSplitNeeded(t *testing.T) {
	entities := []MessageEntity{{Type: EntityMention, Offset: 0, Length: 4}}
	chunks := SplitEntities("John", entities, 100)
	if len(chunks) != 1 || chunks[0].Text != "John" || len(chunks[0].Entities) != 1 {
		t.Errorf("SplitEntities() = %+v", chunks)
	}
}

// TestSplitEntities_SplitAtNewline 测试在换行处分割
func TestSplitEntities_SplitAtNewline(t *testing.T) {
	text := "line one\nline two\nline three"
	chunks := SplitEntities(text, nil, 12)
	if len(chunks) < 2 {
		t.Fatalf("expected split, got %d chunks", len(chunks))
	}
	if chunks[0].Text != "line one\n" {
		t.Errorf("first chunk = %q", chunks[0].Text)
	}
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	if sb.String() != text {
		t.Errorf("chunks do not reassemble the text: %q", sb.String())
	}
}

// TestSplitEntities_NeverSplitsMention 测试不会在 mention 中间分割
func TestSplitEntities_NeverSplitsMention(t *testing.T) {
	text := "aaaa John bbbb"
	entities := []MessageEntity{{Type: EntityMention, Offset: 5, Length: 4, MentionID: "1"}}

	chunks := SplitEntities(text, entities, 7)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %+v", len(chunks), chunks)
	}
	if chunks[0].Text != "aaaa " || chunks[1].Text != "John bb" || chunks[2].Text != "bb" {
		t.Errorf("chunks = %q %q %q", chunks[0].Text, chunks[1].Text, chunks[2].Text)
	}
	if len(chunks[1].Entities) != 1 {
		t.Fatalf("second chunk entities = %+v", chunks[1].Entities)
	}
	m := chunks[1].Entities[0]
	if m.Offset != 0 || m.Length != 4 || m.MentionID != "1" {
		t.Errorf("mention entity = %+v", m)
	}
}

// TestSplitEntities_OversizedMention 测试超长 mention 保持完整
func TestSplitEntities_OversizedMention(t *testing.T) {
	text := "JohnJohnJohn"
	entities := []MessageEntity{{Type: EntityMention, Offset: 0, Length: 12}}

	chunks := SplitEntities(text, entities, 5)
	if len(chunks) != 1 || chunks[0].Text != text {
		t.Errorf("SplitEntities() = %+v", chunks)
	}
}

// TestSplitEntities_ClipsOtherEntities 测试其他实体被裁剪到两个分片
func TestSplitEntities_ClipsOtherEntities(t *testing.T) {
	text := "abcdefgh"
	entities := []MessageEntity{{Type: "bold", Offset: 2, Length: 4}}

	chunks := SplitEntities(text, entities, 4)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if e := chunks[0].Entities; len(e) != 1 || e[0].Offset != 2 || e[0].Length != 2 {
		t.Errorf("first chunk entities = %+v", e)
	}
	if e := chunks[1].Entities; len(e) != 1 || e[0].Offset != 0 || e[0].Length != 2 {
		t.Errorf("second chunk entities = %+v", e)
	}
}

// TestSplitEntities_WithEmoji 测试 emoji 不会被切开
func TestSplitEntities_WithEmoji(t *testing.T) {
	text := "📌📌📌"
	chunks := SplitEntities(text, nil, 3)
	for _, c := range chunks {
		if !strings.HasPrefix(c.Text, "📌") || UTF16Len(c.Text) > 3 {
			t.Errorf("bad chunk %q", c.Text)
		}
	}
	if len(chunks) != 3 {
		t.Errorf("got %d chunks, want 3", len(chunks))
	}
}

// TestTrimSpace 测试去除首尾空白并调整实体
func TestTrimSpace(t *testing.T) {
	text, entities := TrimSpace("  Hi John \n", []MessageEntity{{Type: EntityMention, Offset: 5, Length: 4}})
	if text != "Hi John" {
		t.Errorf("TrimSpace() text = %q", text)
	}
	if len(entities) != 1 || entities[0].Offset != 3 || entities[0].Length != 4 {
		t.Errorf("TrimSpace() entities = %+v", entities)
	}
}
