package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

const (
	bps64LineBits = 512
	bps64Units    = 16
)

var bps64RunTable = []int{0, 4, 6, 7, 8, 7, 6, 8, 8, 8, 8, 9, 9, 9, 9, 7, 5}

// BPS64 is the stateful bit-plane codec for 512-bit lines that also coalesces
// zero words of the raw line into the zero runs.
//
// The 32 planes over words 1..15 are 15 bits wide and are priced in pairs:
// unit i joins plane 2i and plane 2i+1. A unit whose DBX is zero extends the
// DBX run. A unit facing a zero raw word at index i, with no DBX run pending,
// extends the raw-zero run. Both runs are flushed together as one run code.
// A line where either run covers all 16 units costs nothing.
type BPS64 struct {
	base

	diff  format.DiffMode
	runs  runCoder
	state diffState
	words []uint32
	out   []uint32
	dbp   [bps64Units]uint32
	dbx   [bps64Units]uint32
}

var _ Codec = (*BPS64)(nil)

// NewBPS64 returns the coalesced-zero bit-plane codec. It requires 512-bit
// lines, planes over words 1..n-1 and the paper cost model; the diff mode is
// free.
func NewBPS64(geom line.Geometry, cfg *Config) (*BPS64, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if geom.Bits() != bps64LineBits {
		return nil, errors.Wrapf(errs.ErrUnsupportedMode, "BPS64 needs %d-bit lines, got %d", bps64LineBits, geom.Bits())
	}
	if cfg.plane != format.PlaneDBXSkipFirst {
		return nil, errors.Wrapf(errs.ErrUnsupportedMode, "BPS64 plane mode %s", cfg.plane)
	}
	if cfg.code != format.CodePaper {
		return nil, errors.Wrapf(errs.ErrUnsupportedMode, "BPS64 code mode %s", cfg.code)
	}

	n := geom.DWords()

	return &BPS64{
		base:  newBase(format.CodecBPS64, geom, cfg.name),
		diff:  cfg.diff,
		runs:  newRunCoder(bps64RunTable, bps64Units),
		state: newDiffState(n),
		words: make([]uint32, n),
		out:   make([]uint32, n),
	}, nil
}

// MaxBits returns the line size; larger encodings fall back to raw.
func (c *BPS64) MaxBits() int {
	return c.geom.Bits()
}

// CompressLine returns the size of l in bits and advances the xor state.
func (c *BPS64) CompressLine(l line.Line) int {
	return c.Encode(l).Length
}

// Encode is CompressLine that also reports the unit patterns.
func (c *BPS64) Encode(l line.Line) Outcome {
	c.begin(l)

	for i := range c.words {
		c.words[i] = l.DWord(i)
	}
	c.state = c.state.next(c.diff, c.words, c.out)
	c.buildUnits()

	return c.finish(c.encodeUnits())
}

// Reset clears the statistics and the previous line.
func (c *BPS64) Reset() {
	c.stats.reset()
	c.state = c.state.reset()
}

func (c *BPS64) buildUnits() {
	var dbp, dbx [bpsPlanes]uint16
	for j := bpsPlanes - 1; j >= 0; j-- {
		var p uint16
		for i := len(c.out) - 1; i >= 1; i-- {
			p = p<<1 | uint16(c.out[i]>>j)&1
		}
		dbp[j] = p
		if j == bpsPlanes-1 {
			dbx[j] = p
		} else {
			dbx[j] = p ^ dbp[j+1]
		}
	}

	for i := range bps64Units {
		c.dbp[i] = uint32(dbp[2*i]) | uint32(dbp[2*i+1])<<16
		c.dbx[i] = uint32(dbx[2*i]) | uint32(dbx[2*i+1])<<16
	}
}

func (c *BPS64) encodeUnits() int {
	length := 0
	run, zeros := 0, 0
	for i := bps64Units - 1; i >= 0; i-- {
		dbx := c.dbx[i]
		raw := c.words[i]
		switch {
		case dbx == 0:
			run++
			continue
		case run == 0 && raw == 0:
			zeros++
			continue
		}

		if run > 0 || zeros > 0 {
			c.pattern(int64(run + zeros - 1))
			length += c.runs.cost(run+zeros, false) + 1
		}
		run, zeros = 0, 0

		if raw == 0 {
			zeros = 1
			continue
		}

		switch {
		case c.dbp[i] == 0:
			length += 5
			c.pattern(33)
		case dbx == 0xffffffff:
			length += 5
			c.pattern(34)
		default:
			shape := shapeOf(uint64(dbx))
			switch {
			case shape.ones == 1:
				length += 10
				c.pattern(64 + int64(shape.firstPos))
			case shape.adjacent:
				length += 10
				c.pattern(128 + int64(shape.firstPos))
			default:
				length += 32
				c.pattern(36)
			}
		}
	}

	if run > 0 || zeros > 0 {
		length += c.runs.cost(run+zeros, true) + 1
		c.pattern(int64(run + zeros - 1))
	}
	if run == bps64Units || zeros == bps64Units {
		length = 0
	}

	return length
}
