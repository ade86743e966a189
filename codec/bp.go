package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

// BPPatternRaw fires when a bit-plane estimate exceeds the uncompressed line
// and the line is stored raw behind a one-bit escape.
const BPPatternRaw int64 = 512

const bpEscapeBits = 1

// Leading word pattern identifiers shared by BP and BP64.
const (
	BPPatternFirstZero   int64 = 256
	BPPatternFirstSign4  int64 = 257
	BPPatternFirstSign8  int64 = 258
	BPPatternFirstSign16 int64 = 259
	BPPatternFirstSign32 int64 = 260
	BPPatternFirstRaw    int64 = 263
)

// bpModel holds the plane costs of one bit-plane variant.
type bpModel struct {
	zeroDBP int
	allOnes int
	single  int
	pair    int

	patZeroDBP    int64
	patAllOnes    int64
	patGeneric    int64
	patSingleBase int64
	patPairBase   int64
}

var (
	bp32Model = bpModel{
		zeroDBP:       5,
		allOnes:       5,
		single:        10,
		pair:          10,
		patZeroDBP:    34,
		patAllOnes:    35,
		patGeneric:    36,
		patSingleBase: 37,
		patPairBase:   69,
	}
	bp64Model = bpModel{
		zeroDBP:       5,
		allOnes:       5,
		single:        9,
		pair:          9,
		patZeroDBP:    33,
		patAllOnes:    34,
		patGeneric:    35,
		patSingleBase: 36,
		patPairBase:   68,
	}
)

// BitPlane implements BP and BP64.
//
// The first element is coded on its own. The deltas between consecutive
// elements are transposed into bit-planes, one bit per delta, and each plane
// is xored with the plane above it (DBX). The top plane holds the delta signs.
// Runs of zero DBX planes are run-length coded; other planes are priced by
// shape.
type BitPlane struct {
	base

	wide   bool
	width  int
	model  bpModel
	runs   runCoder
	deltas []uint64
	planes [64]uint64
	dbp    []uint64
	dbx    []uint64
}

var _ Codec = (*BitPlane)(nil)

// NewBP returns a bit-plane codec over 32-bit elements: 33 planes of
// DWords()-1 bits.
func NewBP(geom line.Geometry, name string) *BitPlane {
	width := geom.DWords() - 1

	return &BitPlane{
		base:   newBase(format.CodecBP, geom, name),
		width:  width,
		model:  bp32Model,
		runs:   newRunCoder(fillTable(34, 3, 7, 0), 33),
		deltas: make([]uint64, width),
		dbp:    make([]uint64, 33),
		dbx:    make([]uint64, 33),
	}
}

// NewBP64 returns a bit-plane codec over 64-bit elements: 65 planes of
// QWords()-1 bits.
func NewBP64(geom line.Geometry, name string) *BitPlane {
	width := geom.QWords() - 1

	return &BitPlane{
		base:   newBase(format.CodecBP64, geom, name),
		wide:   true,
		width:  width,
		model:  bp64Model,
		runs:   newRunCoder(fillTable(66, 3, 8, 9), 65),
		deltas: make([]uint64, width),
		dbp:    make([]uint64, 65),
		dbx:    make([]uint64, 65),
	}
}

// MaxBits returns the raw fallback size: the line plus a one-bit tag.
func (c *BitPlane) MaxBits() int {
	return c.geom.Bits() + bpEscapeBits
}

// CompressLine returns the bit-plane size of l in bits.
func (c *BitPlane) CompressLine(l line.Line) int {
	return c.Encode(l).Length
}

// Encode compresses l and reports the first word and plane patterns.
func (c *BitPlane) Encode(l line.Line) Outcome {
	c.begin(l)

	var length int
	if c.wide {
		length = c.encodeFirst64(l.SQWord(0))
		c.buildPlanes64(l)
	} else {
		length = c.encodeFirst32(l.SDWord(0))
		c.buildPlanes32(l)
	}
	length += c.encodeDeltas()

	if length > c.MaxBits() {
		length = c.MaxBits()
		c.pattern(BPPatternRaw)
	}

	return c.finish(length)
}

// Reset clears the statistics.
func (c *BitPlane) Reset() {
	c.stats.reset()
}

func (c *BitPlane) buildPlanes32(l line.Line) {
	for i := 1; i <= c.width; i++ {
		c.deltas[i-1] = uint64(int64(l.SDWord(i)) - int64(l.SDWord(i-1)))
	}
	transpose(c.planes[:], c.deltas)

	// a difference of two 32-bit values needs 33 bits: planes 62..32 repeat the sign
	sign := c.planes[63]
	for j := 62; j >= 32; j-- {
		if c.planes[j] != sign {
			panic(errors.AssertionFailedf("bit-plane %d differs from the sign plane", j))
		}
	}

	c.dbp[32], c.dbx[32] = sign, sign
	prev := sign
	for j := 31; j >= 0; j-- {
		c.dbp[j] = c.planes[j]
		c.dbx[j] = c.planes[j] ^ prev
		prev = c.planes[j]
	}
}

func (c *BitPlane) buildPlanes64(l line.Line) {
	var signs uint64
	for i := 1; i <= c.width; i++ {
		cur, prev := l.SQWord(i), l.SQWord(i-1)
		c.deltas[i-1] = uint64(cur - prev)
		if cur < prev {
			signs |= 1 << (i - 1)
		}
	}
	transpose(c.planes[:], c.deltas)

	c.dbp[64], c.dbx[64] = signs, signs
	prev := signs
	for j := 63; j >= 0; j-- {
		c.dbp[j] = c.planes[j]
		c.dbx[j] = c.planes[j] ^ prev
		prev = c.planes[j]
	}
}

func (c *BitPlane) encodeFirst32(sym int32) int {
	v := uint64(int64(sym))
	switch {
	case v == 0:
		c.pattern(BPPatternFirstZero)
		return 3
	case line.SignExtended(v, 4):
		c.pattern(BPPatternFirstSign4)
		return 3 + 4
	case line.SignExtended(v, 8):
		c.pattern(BPPatternFirstSign8)
		return 3 + 8
	case line.SignExtended(v, 16):
		c.pattern(BPPatternFirstSign16)
		return 3 + 16
	default:
		c.pattern(BPPatternFirstRaw)
		return 1 + 32
	}
}

func (c *BitPlane) encodeFirst64(sym int64) int {
	v := uint64(sym)
	switch {
	case v == 0:
		c.pattern(BPPatternFirstZero)
		return 3
	case line.SignExtended(v, 4):
		c.pattern(BPPatternFirstSign4)
		return 4 + 4
	case line.SignExtended(v, 8):
		c.pattern(BPPatternFirstSign8)
		return 4 + 8
	case line.SignExtended(v, 16):
		c.pattern(BPPatternFirstSign16)
		return 3 + 16
	case line.SignExtended(v, 32):
		c.pattern(BPPatternFirstSign32)
		return 3 + 32
	default:
		c.pattern(BPPatternFirstRaw)
		return 1 + 64
	}
}

func (c *BitPlane) encodeDeltas() int {
	m := &c.model
	allOnes := lowMask(c.width)

	length := 0
	run := 0
	for i := len(c.dbx) - 1; i >= 0; i-- {
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
			length += m.zeroDBP
			c.pattern(m.patZeroDBP)

			continue
		}
		if dbx == allOnes {
			length += m.allOnes
			c.pattern(m.patAllOnes)

			continue
		}

		shape := shapeOf(dbx)
		switch {
		case shape.ones == 1:
			length += m.single
			c.pattern(m.patSingleBase + int64(shape.firstPos))
		case shape.adjacent:
			length += m.pair
			c.pattern(m.patPairBase + int64(shape.firstPos))
		default:
			// plane bits plus a one-bit tag
			length += c.width + 1
			c.pattern(m.patGeneric)
		}
	}

	if run > 0 {
		length += c.runs.cost(run, true)
		c.pattern(int64(run - 1))
	}

	return length
}
