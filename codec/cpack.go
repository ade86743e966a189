package codec

import (
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

// CPack pattern identifiers.
const (
	CPackPatternZero     int64 = 0
	CPackPatternLiteral  int64 = 1
	CPackPatternFull     int64 = 2
	CPackPatternMatch2   int64 = 12
	CPackPatternZZZX     int64 = 13
	CPackPatternMatch3   int64 = 14
	cpackDictionaryWords       = 16
	cpackDictionaryIndex       = 4
)

// CPack implements C-Pack: a 16-entry FIFO dictionary of 32-bit words that is
// cleared at the start of every line.
//
// Zeroed dictionary entries take part in partial matching, so a word whose
// top two bytes are zero partially matches an empty slot.
type CPack struct {
	base

	dict  [cpackDictionaryWords]uint32
	wrPtr int
}

var _ Codec = (*CPack)(nil)

// NewCPack returns a C-Pack codec.
func NewCPack(geom line.Geometry, name string) *CPack {
	return &CPack{base: newBase(format.CodecCPack, geom, name)}
}

// MaxBits returns the cost of a line of uncompressed words.
func (c *CPack) MaxBits() int {
	return c.geom.Bits() + c.geom.DWords()*2
}

// CompressLine returns the C-Pack size of l in bits.
func (c *CPack) CompressLine(l line.Line) int {
	return c.Encode(l).Length
}

// Encode compresses l against a freshly cleared dictionary.
func (c *CPack) Encode(l line.Line) Outcome {
	c.begin(l)
	clear(c.dict[:])
	c.wrPtr = 0

	length := 0
	for i := range c.geom.DWords() {
		w := l.DWord(i)
		if w == 0 {
			length += 2
			c.pattern(CPackPatternZero)

			continue
		}

		full, match3, match2 := c.lookup(w)
		switch {
		case full:
			length += 2 + cpackDictionaryIndex
			c.pattern(CPackPatternFull)
		case l.Byte(4*i+1) == 0 && l.Byte(4*i+2) == 0 && l.Byte(4*i+3) == 0:
			length += 4 + 8
			c.pattern(CPackPatternZZZX)
		case match3:
			length += 4 + cpackDictionaryIndex + 8
			c.pattern(CPackPatternMatch3)
		case match2:
			length += 4 + cpackDictionaryIndex + 16
			c.pattern(CPackPatternMatch2)
		default:
			length += 2 + 32
			c.pattern(CPackPatternLiteral)
			c.dict[c.wrPtr] = w
			c.wrPtr = (c.wrPtr + 1) % cpackDictionaryWords
		}
	}

	return c.finish(length)
}

func (c *CPack) lookup(w uint32) (full, match3, match2 bool) {
	for _, entry := range c.dict {
		if entry == w {
			full = true
		}
		if entry&0xffffff00 == w&0xffffff00 {
			match3 = true
		}
		if entry&0xffff0000 == w&0xffff0000 {
			match2 = true
		}
	}

	return full, match3, match2
}

// Reset clears the statistics and the dictionary.
func (c *CPack) Reset() {
	c.stats.reset()
	clear(c.dict[:])
	c.wrPtr = 0
}
