package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/format"
)

func newTestBPS64(t *testing.T, opts ...Option) *BPS64 {
	t.Helper()

	cfg, err := newConfig(format.CodecBPS64, opts...)
	require.NoError(t, err)
	c, err := NewBPS64(geom512, cfg)
	require.NoError(t, err)

	return c
}

func TestBPS64_Lines(t *testing.T) {
	constant := make([]uint32, 16)
	fourths := make([]uint32, 16)
	for i := range constant {
		constant[i] = 0xa5a5a5a5
		if i > 0 {
			fourths[i] = 4
		}
	}
	leading := append([]uint32{8}, fourths[1:]...)

	tests := []struct {
		name     string
		words    []uint32
		length   int
		patterns []int64
	}{
		{
			name:     "zero line is free",
			length:   0,
			patterns: []int64{15},
		},
		{
			// the first word is outside the planes
			name:     "constant line is free",
			words:    constant,
			length:   0,
			patterns: []int64{15},
		},
		{
			// the dbx run of 15 is flushed, then raw word 0 opens a zero run
			name:     "raw zero word joins the run",
			words:    []uint32{0, 1},
			length:   8 + 5,
			patterns: []int64{14, 0},
		},
		{
			name:     "single bit unit",
			words:    fourths,
			length:   10 + 10 + 5,
			patterns: []int64{13, 64, 0},
		},
		{
			name:     "zero dbp unit",
			words:    leading,
			length:   10 + 10 + 5,
			patterns: []int64{13, 80, 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestBPS64(t)
			out := c.Encode(dwordLine(geom512, tt.words...))
			require.Equal(t, tt.length, out.Length)
			require.Equal(t, tt.patterns, out.Patterns)
		})
	}
}

func TestBPS64_RandomLinesWithinLine(t *testing.T) {
	c := newTestBPS64(t)
	for _, l := range randomLines(geom512, 16, 5) {
		n := c.CompressLine(l)
		require.Positive(t, n)
		require.LessOrEqual(t, n, c.MaxBits())
	}
}

func TestBPS64_UnsupportedModes(t *testing.T) {
	cfg, err := newConfig(format.CodecBPS64, WithPlaneMode(format.PlaneDBX))
	require.NoError(t, err)
	_, err = NewBPS64(geom512, cfg)
	require.ErrorIs(t, err, errs.ErrUnsupportedMode)

	cfg, err = newConfig(format.CodecBPS64, WithCodeMode(format.CodePaper2))
	require.NoError(t, err)
	_, err = NewBPS64(geom512, cfg)
	require.ErrorIs(t, err, errs.ErrUnsupportedMode)

	_, err = NewBPS64(geom1024, nil)
	require.ErrorIs(t, err, errs.ErrUnsupportedMode)
}
