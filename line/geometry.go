package line

import (
	"math/bits"
	"strconv"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultBits is the cache line size used when none is configured.
	DefaultBits = 512
	// MaxBits is the largest supported line. Bit-planes of one bit per word
	// must fit a uint64.
	MaxBits = 2048
)

// Geometry describes the fixed line size of a run.
type Geometry struct {
	bits int
}

// NewGeometry validates a line size in bits. The size must be a power of two
// between 64 and MaxBits.
func NewGeometry(lineBits int) (Geometry, error) {
	if lineBits < 64 || lineBits > MaxBits || bits.OnesCount(uint(lineBits)) != 1 {
		return Geometry{}, errors.Newf("line size must be a power of two between 64 and %d bits, got %d", MaxBits, lineBits)
	}

	return Geometry{bits: lineBits}, nil
}

// MustGeometry is like NewGeometry but panics on an invalid size.
func MustGeometry(lineBits int) Geometry {
	g, err := NewGeometry(lineBits)
	if err != nil {
		panic(err)
	}

	return g
}

// DefaultGeometry returns the 512-bit geometry.
func DefaultGeometry() Geometry {
	return Geometry{bits: DefaultBits}
}

// Bits returns the line size in bits.
func (g Geometry) Bits() int { return g.bits }

// Bytes returns the line size in bytes.
func (g Geometry) Bytes() int { return g.bits / 8 }

// Words returns the number of 16-bit words per line.
func (g Geometry) Words() int { return g.bits / 16 }

// DWords returns the number of 32-bit words per line.
func (g Geometry) DWords() int { return g.bits / 32 }

// QWords returns the number of 64-bit words per line.
func (g Geometry) QWords() int { return g.bits / 64 }

// Lanes returns the number of words of the given byte width per line.
func (g Geometry) Lanes(width int) int { return g.Bytes() / width }

// IsZero reports whether g is the zero value.
func (g Geometry) IsZero() bool { return g.bits == 0 }

// String returns the line size, for example "512b".
func (g Geometry) String() string { return strconv.Itoa(g.bits) + "b" }
