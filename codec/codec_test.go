package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

func newAll(t *testing.T, g line.Geometry) []Codec {
	t.Helper()

	var codecs []Codec
	for _, kind := range format.CodecKinds() {
		if kind == format.CodecBPS64 && g.Bits() != 512 {
			continue
		}
		c, err := New(kind, g)
		require.NoError(t, err, kind.String())
		codecs = append(codecs, c)
	}

	return codecs
}

func TestNew(t *testing.T) {
	for _, kind := range format.CodecKinds() {
		c, err := New(kind, geom512)
		require.NoError(t, err)
		require.Equal(t, kind, c.Kind())
		require.Equal(t, kind.String(), c.Name())
		require.Equal(t, geom512, c.Geometry())
	}

	c, err := New(format.CodecFPC, geom512, WithName("fpc-custom"))
	require.NoError(t, err)
	require.Equal(t, "fpc-custom", c.Name())

	_, err = New(format.CodecKind(0), geom512)
	require.Error(t, err)

	_, err = New(format.CodecBP, line.Geometry{})
	require.Error(t, err)

	_, err = New(format.CodecBPS64, geom1024)
	require.ErrorIs(t, err, errs.ErrUnsupportedMode)

	_, err = New(format.CodecBPS, geom512, WithCodeMode(format.CodeMode(1)))
	require.ErrorIs(t, err, errs.ErrUnsupportedMode)
}

func TestCodecs_Properties(t *testing.T) {
	for _, g := range []line.Geometry{geom512, geom1024} {
		lines := mixedLines(g)
		for _, c := range newAll(t, g) {
			t.Run(c.Name()+"/"+g.String(), func(t *testing.T) {
				zero := c.CompressLine(zeroLine(g))
				require.Less(t, zero, g.Bits(), "zero line must compress")

				c.Reset()
				first := lengths(c, lines)
				for _, n := range first {
					require.GreaterOrEqual(t, n, 0)
					require.LessOrEqual(t, n, c.MaxBits())
				}
				stats := c.Stats().Clone()

				c.Reset()
				require.Zero(t, c.Stats().TotalLines())
				require.Equal(t, first, lengths(c, lines))
				require.Equal(t, stats.Lengths(), c.Stats().Lengths())
				require.Equal(t, stats.Patterns(), c.Stats().Patterns())
				require.Equal(t, uint64(len(lines)), c.Stats().TotalLines())
			})
		}
	}
}

func TestCodecs_EncodeMatchesCompressLine(t *testing.T) {
	lines := mixedLines(geom512)
	for _, kind := range format.CodecKinds() {
		a, err := New(kind, geom512)
		require.NoError(t, err)
		b, err := New(kind, geom512)
		require.NoError(t, err)

		for _, l := range lines {
			out := a.Encode(l)
			require.Equal(t, out.Length, b.CompressLine(l), kind.String())
		}
		require.Equal(t, a.Stats().TotalPatterns(), b.Stats().TotalPatterns())
	}
}

func TestCodecs_LineSizeMismatchPanics(t *testing.T) {
	for _, c := range newAll(t, geom512) {
		require.Panics(t, func() {
			c.CompressLine(zeroLine(geom1024))
		}, c.Name())
	}
}

func TestRunCoder(t *testing.T) {
	z := newRunCoder(fillTable(34, 3, 7, 0), 33)
	require.Equal(t, 3, z.cost(1, false))
	require.Equal(t, 7, z.cost(32, false))
	require.Equal(t, 7, z.cost(33, true))
	require.Panics(t, func() { z.cost(33, false) })
	require.Panics(t, func() { z.cost(34, true) })

	require.Panics(t, func() { newRunCoder([]int{0, 1}, 4) })
	require.Panics(t, func() { newRunCoder([]int{1, 1, 1}, 2) })

	require.Equal(t, []int{0, 3, 8, 8, 9}, fillTable(5, 3, 8, 9))
}

func TestShapeOf(t *testing.T) {
	tests := []struct {
		plane uint64
		want  planeShape
	}{
		{0b1, planeShape{ones: 1, firstPos: 0}},
		{0b1000, planeShape{ones: 1, firstPos: 3}},
		{0b110, planeShape{ones: 2, firstPos: 1, adjacent: true}},
		{0b101, planeShape{ones: 2, firstPos: 0}},
		{0b111, planeShape{ones: 3, firstPos: 0}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, shapeOf(tt.plane), "plane=%b", tt.plane)
	}

	require.Equal(t, uint64(0x7fff), lowMask(15))
	require.Equal(t, ^uint64(0), lowMask(64))
}

func TestTranspose(t *testing.T) {
	planes := make([]uint64, 4)
	transpose(planes, []uint64{0b0001, 0b0011, 0b1000})
	require.Equal(t, []uint64{0b011, 0b010, 0b000, 0b100}, planes)
}
