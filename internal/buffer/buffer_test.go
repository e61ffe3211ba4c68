package buffer

import "testing"

func TestTextBuffer_Offsets(t *testing.T) {
	tb := New()
	tb.Write("Hi ")
	tb.Write("📌")
	tb.Write("")
	tb.Write("你好\n\n")

	if got := tb.String(); got != "Hi 📌你好\n\n" {
		t.Fatalf("String() = %q", got)
	}
	if tb.ByteOffset() != 3+4+6+2 {
		t.Errorf("ByteOffset() = %d, want 15", tb.ByteOffset())
	}
	if tb.UTF16Offset() != 3+2+2+2 {
		t.Errorf("UTF16Offset() = %d, want 9", tb.UTF16Offset())
	}
	if tb.TrailingNewlineCount() != 2 {
		t.Errorf("TrailingNewlineCount() = %d, want 2", tb.TrailingNewlineCount())
	}
}
