package util

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yangbooom/mentions-go/internal/types"
)

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 0, UTF16Len(""))
	assert.Equal(t, 5, UTF16Len("hello"))
	assert.Equal(t, 2, UTF16Len("你好"))
	assert.Equal(t, 3, UTF16Len("📌 "))
}

func TestIndex_ASCIIIsIdentity(t *testing.T) {
	for _, unit := range []types.Unit{types.UnitByte, types.UnitRune, types.UnitUTF16, types.UnitGrapheme} {
		t.Run(unit.String(), func(t *testing.T) {
			ix := NewIndex("hello", unit)
			assert.Equal(t, 5, ix.Len())
			for i := 0; i <= 5; i++ {
				assert.Equal(t, i, ix.ToByte(i))
				assert.Equal(t, i, ix.FromByte(i))
			}
		})
	}
}

func TestIndex_Units(t *testing.T) {
	// "a" + "😀" (4 bytes, 2 UTF-16 units) + "e\u0301" (2 runes, 1 grapheme) + "b"
	text := "a😀e\u0301b"

	tests := []struct {
		unit     types.Unit
		length   int
		toByte   map[int]int
		fromByte map[int]int
	}{
		{
			unit:     types.UnitByte,
			length:   9,
			toByte:   map[int]int{0: 0, 3: 3, 9: 9, 12: 9},
			fromByte: map[int]int{3: 3, 9: 9},
		},
		{
			unit:     types.UnitRune,
			length:   5,
			toByte:   map[int]int{0: 0, 1: 1, 2: 5, 3: 6, 4: 8, 5: 9, 7: 9},
			fromByte: map[int]int{1: 1, 3: 1, 5: 2, 6: 3, 8: 4, 9: 5},
		},
		{
			unit:     types.UnitUTF16,
			length:   6,
			toByte:   map[int]int{1: 1, 2: 1, 3: 5, 4: 6, 5: 8, 6: 9},
			fromByte: map[int]int{1: 1, 2: 1, 5: 3, 6: 4, 9: 6},
		},
		{
			unit:     types.UnitGrapheme,
			length:   4,
			toByte:   map[int]int{1: 1, 2: 5, 3: 8, 4: 9},
			fromByte: map[int]int{1: 1, 5: 2, 6: 2, 7: 2, 8: 3, 9: 4},
		},
	}

	for _, tc := range tests {
		t.Run(tc.unit.String(), func(t *testing.T) {
			ix := NewIndex(text, tc.unit)
			assert.Equal(t, tc.unit, ix.Unit())
			assert.Equal(t, tc.length, ix.Len())
			for in, want := range tc.toByte {
				assert.Equal(t, want, ix.ToByte(in), "ToByte(%d)", in)
			}
			for in, want := range tc.fromByte {
				assert.Equal(t, want, ix.FromByte(in), "FromByte(%d)", in)
			}
		})
	}
}

func TestIndex_ClampsNegative(t *testing.T) {
	ix := NewIndex("héllo", types.UnitRune)
	assert.Equal(t, 0, ix.ToByte(-3))
	assert.Equal(t, 0, ix.FromByte(-1))
}

func TestIndex_Snap(t *testing.T) {
	ix := NewIndex("x😀y", types.UnitRune)
	assert.Equal(t, 1, ix.Snap(3))
	assert.Equal(t, 5, ix.Snap(5))
}

func TestRuneStart(t *testing.T) {
	s := "aé😀"
	assert.Equal(t, 0, RuneStart(s, 0))
	assert.Equal(t, 1, RuneStart(s, 2))
	assert.Equal(t, 3, RuneStart(s, 5))
	assert.Equal(t, len(s), RuneStart(s, 99))
}
