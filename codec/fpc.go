package codec

import (
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

// FPC pattern identifiers.
const (
	FPCPatternZeroRun     int64 = 0
	FPCPatternSign4       int64 = 1
	FPCPatternSign8       int64 = 2
	FPCPatternSign16      int64 = 3
	FPCPatternLowHalfZero int64 = 4
	FPCPatternHalves8     int64 = 5
	FPCPatternRepBytes    int64 = 6
	FPCPatternRaw         int64 = 7
)

const (
	fpcPrefixBits = 3
	fpcRunBits    = 3
	fpcMaxRun     = 8
)

// FPC implements frequent pattern compression over 32-bit words.
//
// Each word costs a 3-bit prefix plus a payload. Zero words are coalesced into
// runs of up to eight words that cost one prefix and a 3-bit run length.
type FPC struct {
	base
}

var _ Codec = (*FPC)(nil)

// NewFPC returns a frequent pattern codec.
func NewFPC(geom line.Geometry, name string) *FPC {
	return &FPC{base: newBase(format.CodecFPC, geom, name)}
}

// MaxBits returns the cost of a line of raw words, each with its prefix.
func (c *FPC) MaxBits() int {
	return c.geom.Bits() + c.geom.DWords()*fpcPrefixBits
}

// CompressLine returns the FPC size of l in bits.
func (c *FPC) CompressLine(l line.Line) int {
	return c.Encode(l).Length
}

// Encode compresses l and reports the per-word patterns, zero runs included.
func (c *FPC) Encode(l line.Line) Outcome {
	c.begin(l)

	length := 0
	run := 0
	for i := range c.geom.DWords() {
		w := l.DWord(i)
		if w == 0 {
			run++
			if run == fpcMaxRun {
				length += fpcPrefixBits + fpcRunBits
				c.pattern(FPCPatternZeroRun)
				run = 0
			}

			continue
		}

		if run > 0 {
			length += fpcPrefixBits + fpcRunBits
			c.pattern(FPCPatternZeroRun)
			run = 0
		}

		id, payload := c.classify(l, i, w)
		length += fpcPrefixBits + payload
		c.pattern(id)
	}

	if run > 0 {
		length += fpcPrefixBits + fpcRunBits
		c.pattern(FPCPatternZeroRun)
	}

	return c.finish(length)
}

// classify returns the pattern and payload size of the non-zero word w at
// dword index i. The fit tests see w zero-extended.
func (c *FPC) classify(l line.Line, i int, w uint32) (int64, int) {
	v := uint64(w)
	switch {
	case line.SignExtended(v, 4):
		return FPCPatternSign4, 4
	case line.SignExtended(v, 8):
		return FPCPatternSign8, 8
	case repeatedBytes(l, i):
		return FPCPatternRepBytes, 8
	case line.SignExtended(v, 16):
		return FPCPatternSign16, 16
	case l.Word(2*i) == 0:
		return FPCPatternLowHalfZero, 16
	case line.SignExtended(uint64(l.Word(2*i)), 8) && line.SignExtended(uint64(l.Word(2*i+1)), 8):
		return FPCPatternHalves8, 16
	default:
		return FPCPatternRaw, 32
	}
}

func repeatedBytes(l line.Line, i int) bool {
	b := l.Byte(4 * i)

	return l.Byte(4*i+1) == b && l.Byte(4*i+2) == b && l.Byte(4*i+3) == b
}

// Reset clears the statistics.
func (c *FPC) Reset() {
	c.stats.reset()
}
