package types

// TokenKind 区分 markup 中的两类 token
type TokenKind uint8

const (
	// TokenText is a run of literal markup characters shown verbatim.
	TokenText TokenKind = iota
	// TokenMention is one serialized mention token.
	TokenMention
)

// String returns the string representation of TokenKind.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenMention:
		return "mention"
	default:
		return "unknown"
	}
}

// Token is one contiguous span of a markup string.
//
// All offsets are byte offsets. Markup offsets index the markup string,
// plain offsets index its plain-text projection. For a TokenText token the
// two spans have equal length and Text is the markup slice itself.
type Token struct {
	Kind TokenKind

	// Text is the visible text: the literal run, or the transformed display.
	Text string
	// Markup is the raw markup span [MarkupStart, MarkupEnd).
	Markup string

	ID        string
	Display   string
	TypeIndex int

	MarkupStart int
	MarkupEnd   int
	PlainStart  int
	PlainEnd    int
}

// IsMention reports whether t is a mention token.
func (t Token) IsMention() bool {
	return t.Kind == TokenMention
}

// Mention 是 mention token 的只读摘要
type Mention struct {
	ID             string `json:"id"`
	Display        string `json:"display"`
	TypeIndex      int    `json:"type_index"`
	MarkupIndex    int    `json:"markup_index"`
	PlainTextIndex int    `json:"plain_text_index"`
}

// Selection is a half-open range [Start, End) in plain-text coordinates.
// Active is false when the control had no editing focus; Start and End are
// then meaningless.
type Selection struct {
	Start  int  `json:"start"`
	End    int  `json:"end"`
	Active bool `json:"active"`
}

// Collapsed reports whether the selection is an active caret.
func (s Selection) Collapsed() bool {
	return s.Active && s.Start == s.End
}

// BoundaryPolicy resolves a plain index that falls strictly inside a
// mention's display text.
type BoundaryPolicy uint8

const (
	// PolicyStart snaps to the first markup byte of the mention token.
	PolicyStart BoundaryPolicy = iota
	// PolicyEnd snaps to the markup offset right after the mention token.
	PolicyEnd
	// PolicyNull reports the position as not representable.
	PolicyNull
)

// String returns the string representation of BoundaryPolicy.
func (p BoundaryPolicy) String() string {
	switch p {
	case PolicyStart:
		return "start"
	case PolicyEnd:
		return "end"
	case PolicyNull:
		return "null"
	default:
		return "unknown"
	}
}

// Unit is the measure used for plain-text indices at the API boundary.
type Unit uint8

const (
	UnitRune Unit = iota
	UnitByte
	UnitUTF16
	UnitGrapheme
)

// String returns the string representation of Unit.
func (u Unit) String() string {
	switch u {
	case UnitRune:
		return "rune"
	case UnitByte:
		return "byte"
	case UnitUTF16:
		return "utf16"
	case UnitGrapheme:
		return "grapheme"
	default:
		return "unknown"
	}
}

// MessageEntity 表示导出的消息实体（UTF-16 偏移）
type MessageEntity struct {
	Type        string `json:"type"`
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	URL         string `json:"url,omitempty"`
	Language    string `json:"language,omitempty"`
	MentionID   string `json:"mention_id,omitempty"`
	MentionType int    `json:"mention_type,omitempty"`
}

// ToDict 将 MessageEntity 转换为 map
func (e MessageEntity) ToDict() map[string]interface{} {
	result := map[string]interface{}{
		"type":   e.Type,
		"offset": e.Offset,
		"length": e.Length,
	}
	if e.URL != "" {
		result["url"] = e.URL
	}
	if e.Language != "" {
		result["language"] = e.Language
	}
	if e.MentionID != "" {
		result["mention_id"] = e.MentionID
		result["mention_type"] = e.MentionType
	}
	return result
}
