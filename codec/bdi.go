package codec

import (
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

// Base-delta pattern identifiers.
const (
	BDIPatternZero   int64 = 0x0
	BDIPatternRepeat int64 = 0x1
	BDIPatternRaw    int64 = 0xf
)

const bdiTagBits = 4

// bdStep is one rung of a base-delta ladder: words of base bytes, deltas of
// delta bytes.
type bdStep struct {
	id    int64
	base  int
	delta int
}

var (
	bdLadder = []bdStep{
		{id: 0x2, base: 8, delta: 1},
		{id: 0x5, base: 4, delta: 1},
		{id: 0x3, base: 8, delta: 2},
		{id: 0x7, base: 2, delta: 1},
		{id: 0x6, base: 4, delta: 2},
		{id: 0x4, base: 8, delta: 4},
	}
	bdiLadder = []bdStep{
		{id: 0x2, base: 8, delta: 1},
		{id: 0x5, base: 4, delta: 1},
		{id: 0x3, base: 8, delta: 2},
		{id: 0x6, base: 4, delta: 2},
		{id: 0x7, base: 2, delta: 1},
		{id: 0x4, base: 8, delta: 4},
	}
)

// BaseDelta implements BD and BDI. Both classify a line as zero, a repeated
// qword, the first base/delta layout that fits, or raw.
//
// BD measures every word against word 0. BDI lets words that fit the delta
// width on their own ride as immediates, takes the first remaining word as the
// base and measures the others against it; every word then costs one extra
// flag bit.
type BaseDelta struct {
	base

	ladder    []bdStep
	immediate bool
	costs     map[int64]int
}

var _ Codec = (*BaseDelta)(nil)

// NewBD returns a base-delta codec.
func NewBD(geom line.Geometry, name string) *BaseDelta {
	return newBaseDelta(format.CodecBD, geom, name, bdLadder, false)
}

// NewBDI returns a base-delta-immediate codec.
func NewBDI(geom line.Geometry, name string) *BaseDelta {
	return newBaseDelta(format.CodecBDI, geom, name, bdiLadder, true)
}

func newBaseDelta(kind format.CodecKind, geom line.Geometry, name string, ladder []bdStep, immediate bool) *BaseDelta {
	c := &BaseDelta{
		base:      newBase(kind, geom, name),
		ladder:    ladder,
		immediate: immediate,
		costs:     make(map[int64]int, len(ladder)+3),
	}

	c.costs[BDIPatternZero] = 8 + bdiTagBits
	c.costs[BDIPatternRepeat] = 64 + bdiTagBits
	for _, step := range ladder {
		n := geom.Lanes(step.base)
		bits := 8*(step.base+n*step.delta) + bdiTagBits
		if immediate {
			bits += n
		}
		c.costs[step.id] = bits
	}
	c.costs[BDIPatternRaw] = geom.Bits() + bdiTagBits

	return c
}

// CostOf returns the encoded size of a line classified as pattern.
func (c *BaseDelta) CostOf(pattern int64) (int, bool) {
	bits, ok := c.costs[pattern]
	return bits, ok
}

// MaxBits returns the raw encoding size.
func (c *BaseDelta) MaxBits() int {
	return c.geom.Bits() + bdiTagBits
}

// CompressLine returns the size of the first layout that fits l.
func (c *BaseDelta) CompressLine(l line.Line) int {
	return c.Encode(l).Length
}

// Encode is CompressLine that also reports the chosen layout.
func (c *BaseDelta) Encode(l line.Line) Outcome {
	c.begin(l)
	id := c.classify(l)
	c.pattern(id)

	return c.finish(c.costs[id])
}

// Reset clears the statistics.
func (c *BaseDelta) Reset() {
	c.stats.reset()
}

func (c *BaseDelta) classify(l line.Line) int64 {
	if l.IsZero() {
		return BDIPatternZero
	}
	if repeatsQWord(l) {
		return BDIPatternRepeat
	}

	for _, step := range c.ladder {
		var fits bool
		if c.immediate {
			fits = fitsBaseDeltaImmediate(l, step.base, step.delta)
		} else {
			fits = fitsBaseDelta(l, step.base, step.delta)
		}
		if fits {
			return step.id
		}
	}

	return BDIPatternRaw
}

func repeatsQWord(l line.Line) bool {
	first := l.QWord(0)
	for i := 1; i < l.Len()/8; i++ {
		if l.QWord(i) != first {
			return false
		}
	}

	return true
}

func fitsBaseDelta(l line.Line, width, delta int) bool {
	deltaBits := uint(delta * 8)
	n := l.Len() / width
	first := l.Lane(width, 0)
	for i := 1; i < n; i++ {
		if !line.SignExtended(laneDelta(width, l.Lane(width, i), first), deltaBits) {
			return false
		}
	}

	return true
}

// fitsBaseDeltaImmediate reports whether every word of the given width is
// either an immediate or within delta bytes of the first non-immediate word.
// Differences are taken on zero-extended 64-bit values at every width.
func fitsBaseDeltaImmediate(l line.Line, width, delta int) bool {
	deltaBits := uint(delta * 8)
	n := l.Len() / width

	var baseVal uint64
	hasBase := false
	for i := range n {
		v := l.Lane(width, i)
		if line.SignExtended(v, deltaBits) {
			continue
		}
		if !hasBase {
			baseVal = v
			hasBase = true

			continue
		}
		if !line.SignExtended(v-baseVal, deltaBits) {
			return false
		}
	}

	return true
}

// laneDelta returns the BD difference v-base for zero-extended words of the
// given width.
//
// 8-byte differences wrap at 64 bits and 2-byte differences keep their sign.
// 4-byte differences wrap at 32 bits and are zero-extended, so a 4-byte word
// below its base never fits a narrow delta. BDI does not use it: its base is
// held as a 64-bit value, so every BDI difference wraps at 64 bits.
func laneDelta(width int, v, base uint64) uint64 {
	switch width {
	case 2:
		return uint64(int64(v) - int64(base))
	case 4:
		return uint64(uint32(v) - uint32(base))
	default:
		return v - base
	}
}
