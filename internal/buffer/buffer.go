package buffer

import "strings"

// utf16Len returns the length of text measured in UTF-16 code units.
func utf16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// TextBuffer accumulates projected plain text and tracks the running
// offset in bytes and UTF-16 code units.
type TextBuffer struct {
	parts       []string
	byteOffset  int
	utf16Offset int
}

// New creates a new TextBuffer.
func New() *TextBuffer {
	return &TextBuffer{
		parts: make([]string, 0),
	}
}

// Write appends text to the buffer.
func (tb *TextBuffer) Write(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
	tb.byteOffset += len(text)
	tb.utf16Offset += utf16Len(text)
}

// ByteOffset returns the current byte offset (total string length).
func (tb *TextBuffer) ByteOffset() int {
	return tb.byteOffset
}

// UTF16Offset returns the current UTF-16 offset.
func (tb *TextBuffer) UTF16Offset() int {
	return tb.utf16Offset
}

// TrailingNewlineCount counts trailing newline characters in the buffer.
func (tb *TextBuffer) TrailingNewlineCount() int {
	count := 0
	for i := len(tb.parts) - 1; i >= 0; i-- {
		part := tb.parts[i]
		for j := len(part) - 1; j >= 0; j-- {
			if part[j] == '\n' {
				count++
			} else {
				return count
			}
		}
	}
	return count
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	if len(tb.parts) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(tb.byteOffset)
	for _, p := range tb.parts {
		sb.WriteString(p)
	}
	return sb.String()
}
