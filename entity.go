package mentions

import (
	"strings"
	"unicode/utf8"

	"github.com/yangbooom/mentions-go/internal/converter"
	"github.com/yangbooom/mentions-go/internal/types"
	"github.com/yangbooom/mentions-go/internal/util"
)

// 导出类型别名
type MessageEntity = types.MessageEntity

// EntityMention is the entity type of a mention's display text.
const EntityMention = converter.EntityMention

// UTF16Len returns the length of text measured in UTF-16 code units.
//
// Entity offsets and lengths are measured in UTF-16 code units, not Go
// string bytes or runes. Characters outside the BMP take 2 code units.
func UTF16Len(text string) int {
	return util.UTF16Len(text)
}

// TextChunk represents a chunk of text with its entities.
type TextChunk struct {
	Text     string
	Entities []MessageEntity
}

// findNewlinePositions returns the byte positions right after each newline.
func findNewlinePositions(text string) []int {
	var points []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			points = append(points, i+1)
		}
	}
	return points
}

// buildUTF16OffsetTable returns a slice where result[i] is the UTF-16
// offset of the rune containing byte position i.
func buildUTF16OffsetTable(text string) []int {
	offsets := make([]int, len(text)+1)
	cum := 0
	for i, r := range text {
		size := utf8.RuneLen(r)
		if size < 0 {
			size = 1
		}
		for j := 0; j < size && i+j < len(text); j++ {
			offsets[i+j] = cum
		}
		if r > 0xFFFF {
			cum += 2
		} else {
			cum++
		}
	}
	offsets[len(text)] = cum
	return offsets
}

// SplitEntities splits (text, entities) into chunks not exceeding
// maxUTF16Len UTF-16 code units.
//
// Tries to split at newline boundaries. A split never falls inside a
// mention entity unless the mention alone exceeds the budget; other
// entities that span a split boundary are clipped into both chunks.
func SplitEntities(text string, entities []MessageEntity, maxUTF16Len int) []TextChunk {
	if maxUTF16Len <= 0 || UTF16Len(text) <= maxUTF16Len {
		return []TextChunk{{Text: text, Entities: entities}}
	}

	offsets := buildUTF16OffsetTable(text)
	splitPoints := findNewlinePositions(text)

	var chunksRanges [][2]int // [byteStart, byteEnd]
	byteStart := 0

	for byteStart < len(text) {
		utf16Budget := offsets[byteStart] + maxUTF16Len

		if offsets[len(text)] <= utf16Budget {
			chunksRanges = append(chunksRanges, [2]int{byteStart, len(text)})
			break
		}

		// 预算内最后一个换行位置
		bestSplit := -1
		for _, sp := range splitPoints {
			if sp <= byteStart {
				continue
			}
			if offsets[sp] > utf16Budget {
				break
			}
			bestSplit = sp
		}

		if bestSplit <= byteStart {
			// 没有合适的换行，按预算在字符边界硬切
			bestSplit = byteStart
			for i := byteStart + 1; i <= len(text); i++ {
				if i < len(text) && !utf8.RuneStart(text[i]) {
					continue
				}
				if offsets[i] > utf16Budget {
					break
				}
				bestSplit = i
			}
		}

		bestSplit = avoidMentionSplit(text, offsets, entities, byteStart, bestSplit)
		if bestSplit <= byteStart {
			_, size := utf8.DecodeRuneInString(text[byteStart:])
			bestSplit = byteStart + max(size, 1)
		}

		chunksRanges = append(chunksRanges, [2]int{byteStart, bestSplit})
		byteStart = bestSplit
	}

	var result []TextChunk
	for _, chunkRange := range chunksRanges {
		chunkByteStart, chunkByteEnd := chunkRange[0], chunkRange[1]
		chunkUTF16Start := offsets[chunkByteStart]
		chunkUTF16End := offsets[chunkByteEnd]
		var chunkEntities []MessageEntity

		for _, ent := range entities {
			clippedStart := max(ent.Offset, chunkUTF16Start)
			clippedEnd := min(ent.Offset+ent.Length, chunkUTF16End)
			if clippedEnd <= clippedStart {
				continue
			}
			ent.Offset = clippedStart - chunkUTF16Start
			ent.Length = clippedEnd - clippedStart
			chunkEntities = append(chunkEntities, ent)
		}

		result = append(result, TextChunk{
			Text:     text[chunkByteStart:chunkByteEnd],
			Entities: chunkEntities,
		})
	}

	return result
}

// avoidMentionSplit moves split out of any mention entity it cuts: back to
// the mention's start when that still makes progress, else past its end.
func avoidMentionSplit(text string, offsets []int, entities []MessageEntity, byteStart, split int) int {
	u := offsets[split]
	for _, ent := range entities {
		if ent.Type != EntityMention || u <= ent.Offset || u >= ent.Offset+ent.Length {
			continue
		}
		if b := byteAtUTF16(text, offsets, ent.Offset); b > byteStart {
			return b
		}
		return byteAtUTF16(text, offsets, ent.Offset+ent.Length)
	}
	return split
}

// byteAtUTF16 returns the first rune-aligned byte position at or after the
// UTF-16 offset u.
func byteAtUTF16(text string, offsets []int, u int) int {
	for i := 0; i <= len(text); i++ {
		if (i == len(text) || utf8.RuneStart(text[i])) && offsets[i] >= u {
			return i
		}
	}
	return len(text)
}

// TrimSpace removes leading and trailing whitespace while adjusting entities.
func TrimSpace(text string, entities []MessageEntity) (string, []MessageEntity) {
	trimmed := strings.TrimSpace(text)
	if trimmed == text {
		return text, entities
	}

	startOffset := strings.Index(text, trimmed)
	utf16Start := UTF16Len(text[:startOffset])
	utf16Len := UTF16Len(trimmed)

	var adjusted []MessageEntity
	for _, ent := range entities {
		newOffset := max(0, ent.Offset-utf16Start)
		newEnd := min(ent.Offset-utf16Start+ent.Length, utf16Len)
		if newEnd <= newOffset {
			continue
		}
		ent.Offset = newOffset
		ent.Length = newEnd - newOffset
		adjusted = append(adjusted, ent)
	}

	return trimmed, adjusted
}
