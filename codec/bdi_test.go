package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseDelta_CostTable(t *testing.T) {
	tests := []struct {
		name    string
		codec   *BaseDelta
		pattern int64
		want    int
	}{
		{"bd zero", NewBD(geom512, ""), BDIPatternZero, 12},
		{"bd repeat", NewBD(geom512, ""), BDIPatternRepeat, 68},
		{"bd b8d1", NewBD(geom512, ""), 0x2, 132},
		{"bd b4d1", NewBD(geom512, ""), 0x5, 164},
		{"bd b2d1", NewBD(geom512, ""), 0x7, 276},
		{"bd b8d4", NewBD(geom512, ""), 0x4, 324},
		{"bd raw", NewBD(geom512, ""), BDIPatternRaw, 516},
		{"bdi b8d1", NewBDI(geom512, ""), 0x2, 140},
		{"bdi b4d1", NewBDI(geom512, ""), 0x5, 180},
		{"bdi b2d1", NewBDI(geom512, ""), 0x7, 308},
		{"bdi raw", NewBDI(geom512, ""), BDIPatternRaw, 516},
		{"bdi b8d1 1024", NewBDI(geom1024, ""), 0x2, 212},
		{"bd b2d1 1024", NewBD(geom1024, ""), 0x7, 532},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.codec.CostOf(tt.pattern)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	_, ok := NewBD(geom512, "").CostOf(0x9)
	require.False(t, ok)
}

func TestBaseDelta_Classify(t *testing.T) {
	ramp := make([]uint64, 8)
	for i := range ramp {
		ramp[i] = 0x1122334455667788 + uint64(i)
	}

	up := make([]uint32, 16)
	down := make([]uint32, 16)
	for i := range up {
		up[i] = 100 + uint32(i)
		down[i] = 100 - uint32(i)
	}

	// dwords on both sides of 0x1000
	around := make([]uint32, 16)
	for i := range around {
		if i%2 == 0 {
			around[i] = 0x1000 + uint32(i/2)
		} else {
			around[i] = 0x1000 - uint32(i/2+1)
		}
	}
	near := []uint64{0x1000, 0x1003, 0x0ffd, 0x1007, 0x0ff9, 0x1010, 0x0ff0, 0x1000}

	mixed := qwordLine(geom512, 5, 0x7fff000000000000, 3, 0x7fff000000000010)
	rep := qwordLine(geom512, 0x0101010101010101, 0x0101010101010101, 0x0101010101010101, 0x0101010101010101,
		0x0101010101010101, 0x0101010101010101, 0x0101010101010101, 0x0101010101010101)

	tests := []struct {
		name    string
		bdi     bool
		data    []uint32
		qwords  []uint64
		pattern int64
		length  int
	}{
		{name: "bd zero", pattern: BDIPatternZero, length: 12},
		{name: "bdi zero", bdi: true, pattern: BDIPatternZero, length: 12},
		{name: "bd ramp", qwords: ramp, pattern: 0x2, length: 132},
		{name: "bdi ramp", bdi: true, qwords: ramp, pattern: 0x2, length: 140},
		{name: "bd increasing dwords", data: up, pattern: 0x5, length: 164},
		// a dword below the base wraps to a large unsigned delta
		{name: "bd decreasing dwords", data: down, pattern: 0x7, length: 276},
		{name: "bdi decreasing dwords", bdi: true, data: down, pattern: 0x5, length: 180},
		{name: "bd dwords around base", data: around, pattern: BDIPatternRaw, length: 516},
		{name: "bdi dwords around base", bdi: true, data: around, pattern: 0x5, length: 180},
		{name: "bd qwords around base", qwords: near, pattern: 0x2, length: 132},
		{name: "bdi qwords around base", bdi: true, qwords: near, pattern: 0x2, length: 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBD(geom512, "")
			if tt.bdi {
				c = NewBDI(geom512, "")
			}

			l := zeroLine(geom512)
			switch {
			case tt.data != nil:
				l = dwordLine(geom512, tt.data...)
			case tt.qwords != nil:
				l = qwordLine(geom512, tt.qwords...)
			}

			out := c.Encode(l)
			require.Equal(t, tt.length, out.Length)
			require.Equal(t, []int64{tt.pattern}, out.Patterns)
		})
	}

	t.Run("repeat wins over base delta", func(t *testing.T) {
		for _, c := range []*BaseDelta{NewBD(geom512, ""), NewBDI(geom512, "")} {
			out := c.Encode(rep)
			require.Equal(t, []int64{BDIPatternRepeat}, out.Patterns)
			require.Equal(t, 68, out.Length)
		}
	})

	t.Run("immediates rescue mixed line", func(t *testing.T) {
		require.Equal(t, 140, NewBDI(geom512, "").CompressLine(mixed))
		require.Equal(t, 516, NewBD(geom512, "").CompressLine(mixed))
	})
}

func TestBaseDelta_Stats(t *testing.T) {
	c := NewBDI(geom512, "bdi-test")
	require.Equal(t, "bdi-test", c.Name())

	c.CompressLine(zeroLine(geom512))
	c.CompressLine(zeroLine(geom512))
	c.CompressLine(qwordLine(geom512, 0xdeadbeefcafebabe, 1, 2, 3, 4, 5, 6, 7))

	st := c.Stats()
	require.Equal(t, uint64(3), st.TotalLines())
	require.Equal(t, uint64(2), st.PatternCount(BDIPatternZero))
	require.Equal(t, uint64(2), st.LengthCount(12))

	c.Reset()
	require.Equal(t, uint64(0), st.TotalLines())
	require.Empty(t, st.PatternIDs())
}

func TestLaneDelta(t *testing.T) {
	require.Equal(t, ^uint64(0), laneDelta(2, 99, 100))
	require.Equal(t, uint64(0xffffffff), laneDelta(4, 99, 100))
	require.Equal(t, ^uint64(0), laneDelta(8, 99, 100))
	require.Equal(t, uint64(1), laneDelta(4, 101, 100))
}

func TestFitsBaseDeltaImmediate_BelowBase(t *testing.T) {
	// base 0x1000, then one dword a step below it
	l := dwordLine(geom512, 0x1000, 0x0fff)
	require.True(t, fitsBaseDeltaImmediate(l, 4, 1))
	require.False(t, fitsBaseDelta(l, 4, 1))

	l = dwordLine(geom512, 0x1000, 0x0f00)
	require.False(t, fitsBaseDeltaImmediate(l, 4, 1))
	require.True(t, fitsBaseDeltaImmediate(l, 4, 2))
}
