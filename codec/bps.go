package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
	"github.com/arloliu/linecomp/page"
)

const bpsPlanes = 32

var (
	paperRunTable  = []int{0, 4, 6, 7, 8, 9, 6, 10, 12, 12, 8, 8, 9, 10, 9, 11, 11, 9, 9, 9, 10, 11, 10, 9, 7, 8, 8, 5, 7, 11, 10, 11, 8}
	paper2RunTable = []int{0, 4, 6, 7, 9, 8, 5, 9, 11, 11, 8, 8, 10, 10, 9, 11, 12, 9, 8, 8, 9, 10, 10, 10, 10, 8, 7, 5, 6, 9, 8, 6, 6}
)

// BPS implements the stateful bit-plane codec over 32-bit words:
// diff transform, bit-plane transposition, entropy cost model and line
// quantization.
//
// The diff modes delta, xor, block-delta and delta-delta carry state from one
// line to the next, so the result for a line depends on every line encoded
// since the last Reset.
type BPS struct {
	base

	diff  format.DiffMode
	plane format.PlaneMode
	code  format.CodeMode
	table page.SizeClassTable
	runs  runCoder

	state diffState
	words []uint32
	out   []uint32
	width int
	dbp   [bpsPlanes]uint64
	dbx   [bpsPlanes]uint64
}

var _ Codec = (*BPS)(nil)

// NewBPS returns a stateful bit-plane codec configured by cfg.
func NewBPS(geom line.Geometry, cfg *Config) (*BPS, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var runTable []int
	switch cfg.code {
	case format.CodePaper:
		runTable = paperRunTable
	case format.CodePaper2:
		runTable = paper2RunTable
	default:
		return nil, errors.Wrapf(errs.ErrUnsupportedMode, "BPS code mode %d", cfg.code)
	}

	n := geom.DWords()
	width := n
	if cfg.plane == format.PlaneDBXSkipFirst {
		width = n - 1
	}

	return &BPS{
		base:  newBase(format.CodecBPS, geom, cfg.name),
		diff:  cfg.diff,
		plane: cfg.plane,
		code:  cfg.code,
		table: cfg.lineTable,
		runs:  newRunCoder(runTable, bpsPlanes),
		state: newDiffState(n),
		words: make([]uint32, n),
		out:   make([]uint32, n),
		width: width,
	}, nil
}

// MaxBits returns the line size; larger encodings fall back to raw.
func (c *BPS) MaxBits() int {
	return c.geom.Bits()
}

// CompressLine returns the size of l in bits and advances the diff state.
func (c *BPS) CompressLine(l line.Line) int {
	return c.Encode(l).Length
}

// Encode is CompressLine that also reports the plane patterns.
func (c *BPS) Encode(l line.Line) Outcome {
	c.begin(l)

	for i := range c.words {
		c.words[i] = l.DWord(i)
	}
	c.state = c.state.next(c.diff, c.words, c.out)
	c.buildPlanes()

	var length int
	if c.code == format.CodePaper2 {
		length = leadingWordBits(c.out[0]) + c.encodePaper2()
	} else {
		length = c.encodePaper()
	}

	if c.table != nil {
		length = c.table.RoundUp(length)
	}

	return c.finish(min(length, c.geom.Bits()))
}

// Reset clears the statistics and the word carried from the previous line.
func (c *BPS) Reset() {
	c.stats.reset()
	c.state = c.state.reset()
}

// buildPlanes fills DBP with bit j of every transformed word and DBX with the
// xor of bit j and bit j+1 of the same word. The top DBX plane is the top DBP
// plane.
func (c *BPS) buildPlanes() {
	if c.plane == format.PlaneNone {
		clear(c.dbp[:])
		clear(c.dbx[:])

		return
	}

	words := c.out
	if c.plane == format.PlaneDBXSkipFirst {
		words = c.out[1:]
	}

	for j := bpsPlanes - 1; j >= 0; j-- {
		var p uint64
		for i := len(words) - 1; i >= 0; i-- {
			p = p<<1 | uint64(words[i]>>j)&1
		}
		c.dbp[j] = p
		if j == bpsPlanes-1 {
			c.dbx[j] = p
		} else {
			c.dbx[j] = p ^ c.dbp[j+1]
		}
	}
}

func (c *BPS) encodePaper() int {
	allOnes := lowMask(c.width)

	length := 0
	run := 0
	for i := bpsPlanes - 1; i >= 0; i-- {
		dbx := c.dbx[i]
		if dbx == 0 {
			run++
			continue
		}

		if run > 0 {
			c.pattern(int64(run - 1))
			length += c.runs.cost(run, false) + 1
			run = 0
		}

		length++
		switch {
		case dbx == 1:
			length += 3
			c.pattern(32)
		case c.dbp[i] == 0:
			length += 4
			c.pattern(33)
		case dbx == allOnes:
			length += 7
			c.pattern(34)
		case dbx == allOnes&^1:
			length += 9
			c.pattern(35)
		default:
			shape := shapeOf(dbx)
			switch {
			case shape.ones == 1:
				length += 10
				c.pattern(64 + int64(shape.firstPos))
			case shape.ones == 2 && shape.firstPos == 0:
				length += 9
				c.pattern(96)
			case shape.adjacent:
				length += 11
				c.pattern(128 + int64(shape.firstPos))
			default:
				length += c.width + 1
				c.pattern(36)
			}
		}
	}

	if run > 0 {
		length += c.runs.cost(run, true)
		c.pattern(int64(run - 1))
	}

	return length
}

func (c *BPS) encodePaper2() int {
	allOnes := lowMask(min(c.width, 31))

	length := 0
	run := 0
	for i := bpsPlanes - 1; i >= 0; i-- {
		dbx := c.dbx[i]
		if dbx == 0 {
			run++
			continue
		}

		if run > 0 {
			c.pattern(int64(run - 1))
			length += c.runs.cost(run, false)
			run = 0
		}

		if c.dbp[i] == 0 {
			length += 4
			c.pattern(33)

			continue
		}
		if dbx == allOnes {
			length += 5
			c.pattern(34)

			continue
		}

		shape := shapeOf(dbx)
		switch {
		case shape.ones == 1:
			length += 8
			c.pattern(64 + int64(shape.firstPos))
		case shape.adjacent:
			length += 10
			c.pattern(128 + int64(shape.firstPos))
		default:
			length += c.width
			c.pattern(36)
		}
	}

	if run > 0 {
		length += c.runs.cost(run, true)
		c.pattern(int64(run - 1))
	}

	return length
}

// leadingWordBits prices the first transformed word of the paper2 model:
// an 8-bit or 16-bit literal behind a 2-bit prefix, or 32 bits behind one.
func leadingWordBits(w uint32) int {
	switch {
	case w&0xffffff00 == 0:
		return 10
	case w&0xffff0000 == 0:
		return 18
	default:
		return 33
	}
}
