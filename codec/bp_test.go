package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBP_Lines(t *testing.T) {
	ascending := make([]uint32, 16)
	constant := make([]uint32, 16)
	step := make([]uint32, 16)
	for i := range ascending {
		ascending[i] = 5 + uint32(i)
		constant[i] = 0x12345678
		if i >= 2 {
			step[i] = 2
		}
	}

	tests := []struct {
		name     string
		words    []uint32
		length   int
		patterns []int64
	}{
		{
			name:     "zero",
			length:   3 + 7,
			patterns: []int64{BPPatternFirstZero, 32},
		},
		{
			name:     "ascending",
			words:    ascending,
			length:   7 + 7 + 5,
			patterns: []int64{BPPatternFirstSign4, 31, 35},
		},
		{
			name:     "constant",
			words:    constant,
			length:   33 + 7,
			patterns: []int64{BPPatternFirstRaw, 32},
		},
		{
			name:     "single step",
			words:    step,
			length:   3 + 7 + 10 + 5,
			patterns: []int64{BPPatternFirstZero, 30, 38, 34},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBP(geom512, "")
			out := c.Encode(dwordLine(geom512, tt.words...))
			require.Equal(t, tt.length, out.Length)
			require.Equal(t, tt.patterns, out.Patterns)
		})
	}
}

func TestBP64_Lines(t *testing.T) {
	ascending := make([]uint64, 8)
	for i := range ascending {
		ascending[i] = 5 + uint64(i)
	}

	c := NewBP64(geom512, "")

	out := c.Encode(zeroLine(geom512))
	require.Equal(t, 3+9, out.Length)
	require.Equal(t, []int64{BPPatternFirstZero, 64}, out.Patterns)

	out = c.Encode(qwordLine(geom512, ascending...))
	require.Equal(t, 8+8+5, out.Length)
	require.Equal(t, []int64{BPPatternFirstSign4, 63, 34}, out.Patterns)
}

func TestBitPlane_RandomLinesFallBackToRaw(t *testing.T) {
	for _, c := range []*BitPlane{NewBP(geom512, ""), NewBP64(geom512, "")} {
		t.Run(c.Name(), func(t *testing.T) {
			require.Equal(t, 513, c.MaxBits())
			for _, l := range randomLines(geom512, 16, 7) {
				out := c.Encode(l)
				require.Equal(t, c.MaxBits(), out.Length)
				require.Equal(t, BPPatternRaw, out.Patterns[len(out.Patterns)-1])
			}
		})
	}
}

func TestBitPlane_FirstWord(t *testing.T) {
	tests := []struct {
		first   uint32
		pattern int64
		bits    int
	}{
		{0, BPPatternFirstZero, 3},
		{0xfffffff9, BPPatternFirstSign4, 7},
		{100, BPPatternFirstSign8, 11},
		{0xffff8000, BPPatternFirstSign16, 19},
		{0x10000, BPPatternFirstRaw, 33},
	}

	c := NewBP(geom512, "")
	for _, tt := range tests {
		require.Equal(t, tt.bits, c.encodeFirst32(int32(tt.first)), "first=%#x", tt.first)
		require.Equal(t, tt.pattern, c.fired[len(c.fired)-1])
	}
}
