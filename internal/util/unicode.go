package util

import (
	"sort"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/yangbooom/mentions-go/internal/types"
)

// UTF16Len returns the length of text measured in UTF-16 code units.
// Characters outside the BMP take a surrogate pair (2 units).
func UTF16Len(text string) int {
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

// Index converts offsets of one string between bytes and a Unit.
//
// starts[u] is the byte offset where unit u begins; the final element is
// len(text). A UTF-16 surrogate pair contributes two units that share the
// rune's start, so an offset between the two halves snaps to the rune.
type Index struct {
	unit   types.Unit
	size   int
	starts []int // nil when every unit is one byte
}

// NewIndex builds the offset table for text.
func NewIndex(text string, unit types.Unit) *Index {
	ix := &Index{unit: unit, size: len(text)}
	if unit == types.UnitByte || (unit != types.UnitGrapheme && isASCII(text)) {
		return ix
	}

	starts := make([]int, 0, len(text)+1)
	switch unit {
	case types.UnitRune:
		for i := range text {
			starts = append(starts, i)
		}
	case types.UnitUTF16:
		for i, r := range text {
			starts = append(starts, i)
			if r > 0xFFFF {
				starts = append(starts, i)
			}
		}
	case types.UnitGrapheme:
		g := uniseg.NewGraphemes(text)
		for g.Next() {
			from, _ := g.Positions()
			starts = append(starts, from)
		}
	}
	ix.starts = append(starts, len(text))
	return ix
}

// Unit returns the unit of the index.
func (ix *Index) Unit() types.Unit {
	return ix.unit
}

// Len returns the length of the text in units.
func (ix *Index) Len() int {
	if ix.starts == nil {
		return ix.size
	}
	return len(ix.starts) - 1
}

// ToByte converts a unit offset to a byte offset, clamping to the text.
func (ix *Index) ToByte(off int) int {
	if off <= 0 {
		return 0
	}
	if ix.starts == nil {
		if off > ix.size {
			return ix.size
		}
		return off
	}
	if off >= len(ix.starts) {
		return ix.size
	}
	return ix.starts[off]
}

// FromByte converts a byte offset to a unit offset. A byte offset inside a
// unit maps to the unit that contains it.
func (ix *Index) FromByte(b int) int {
	if b <= 0 {
		return 0
	}
	if ix.starts == nil {
		if b > ix.size {
			return ix.size
		}
		return b
	}
	if b >= ix.size {
		return len(ix.starts) - 1
	}
	u := sort.SearchInts(ix.starts, b)
	if ix.starts[u] > b {
		u--
	}
	for u > 0 && ix.starts[u-1] == ix.starts[u] {
		u--
	}
	return u
}

// Snap moves a byte offset back to the start of the unit containing it.
func (ix *Index) Snap(b int) int {
	return ix.ToByte(ix.FromByte(b))
}

// RuneStart moves i back to the first byte of the rune containing it.
func RuneStart(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
