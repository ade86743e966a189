package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCPack_Lines(t *testing.T) {
	rep := make([]uint32, 16)
	for i := range rep {
		rep[i] = 0xdeadbeef
	}

	tests := []struct {
		name     string
		words    []uint32
		length   int
		patterns []int64
	}{
		{
			name:   "zero",
			length: 32,
		},
		{
			name:     "repeated word",
			words:    rep,
			length:   34 + 15*6,
			patterns: []int64{CPackPatternLiteral, CPackPatternFull},
		},
		{
			name:     "zzzx",
			words:    []uint32{0x000000ab},
			length:   12 + 15*2,
			patterns: []int64{CPackPatternZZZX},
		},
		{
			// an empty slot matches the zero top half
			name:     "match2 against empty slot",
			words:    []uint32{0x000012ab},
			length:   24 + 15*2,
			patterns: []int64{CPackPatternMatch2},
		},
		{
			name:     "partial matches",
			words:    []uint32{0xdeadbeef, 0xdeadbe01, 0xdead0000},
			length:   34 + 16 + 24 + 13*2,
			patterns: []int64{CPackPatternLiteral, CPackPatternMatch3, CPackPatternMatch2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCPack(geom512, "")
			out := c.Encode(dwordLine(geom512, tt.words...))
			require.Equal(t, tt.length, out.Length)
			for _, id := range tt.patterns {
				require.Contains(t, out.Patterns, id)
			}
		})
	}
}

func cpackWord(k int) uint32 {
	v := uint32(k + 1)
	return v<<24 | v<<16 | 0x5a5a
}

func TestCPack_FIFOEviction(t *testing.T) {
	t.Run("hit within sixteen literals", func(t *testing.T) {
		words := make([]uint32, 0, 32)
		for k := range 15 {
			words = append(words, cpackWord(k))
		}
		words = append(words, cpackWord(0))

		c := NewCPack(geom1024, "")
		out := c.Encode(dwordLine(geom1024, words...))
		require.Equal(t, CPackPatternFull, out.Patterns[15])
		require.Equal(t, 15*34+6+16*2, out.Length)
	})

	t.Run("seventeenth literal evicts the first", func(t *testing.T) {
		words := make([]uint32, 0, 32)
		for k := range 17 {
			words = append(words, cpackWord(k))
		}
		words = append(words, cpackWord(0))

		c := NewCPack(geom1024, "")
		out := c.Encode(dwordLine(geom1024, words...))
		require.Equal(t, CPackPatternLiteral, out.Patterns[17])
		require.Equal(t, 18*34+14*2, out.Length)
	})
}

func TestCPack_DictionaryClearedPerLine(t *testing.T) {
	c := NewCPack(geom512, "")
	l := dwordLine(geom512, 0xdeadbeef)

	first := c.Encode(l)
	require.Equal(t, CPackPatternLiteral, first.Patterns[0])

	second := c.Encode(l)
	require.Equal(t, CPackPatternLiteral, second.Patterns[0])
	require.Equal(t, 34+15*2, second.Length)
}
