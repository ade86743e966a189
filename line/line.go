// Package line provides a zero-copy view over a raw cache line.
//
// A Line exposes the same bytes as unsigned and signed words of 8, 16, 32 and
// 64 bits and as IEEE floats. Index i of a view of width w covers the bytes
// [i*w/8, (i+1)*w/8). Multi-byte views are decoded with the line's byte order,
// little-endian unless NewWithOrder is used:
//
//	l := line.New(raw)          // len(raw) == 64 for a 512-bit line
//	first := l.QWord(0)
//	sign := l.SDWord(3) < 0
//
// No view allocates and a Line never copies or mutates its backing bytes, so
// the bytes must stay unchanged while the Line is in use.
package line

import (
	"encoding/binary"
	"math"
)

// Line is a read-only view over the raw bytes of one cache line.
type Line struct {
	data  []byte
	order ByteOrder
}

// New returns a little-endian view over data.
func New(data []byte) Line {
	return Line{data: data, order: binary.LittleEndian}
}

// NewWithOrder returns a view over data decoded with the given byte order.
func NewWithOrder(data []byte, order ByteOrder) Line {
	if order == nil {
		order = binary.LittleEndian
	}

	return Line{data: data, order: order}
}

// FromDWords builds a little-endian line from 32-bit words.
func FromDWords(words ...uint32) Line {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}

	return New(buf)
}

// FromQWords builds a little-endian line from 64-bit words.
func FromQWords(words ...uint64) Line {
	buf := make([]byte, 0, len(words)*8)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}

	return New(buf)
}

// FromWords builds a little-endian line from 16-bit words.
func FromWords(words ...uint16) Line {
	buf := make([]byte, 0, len(words)*2)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint16(buf, w)
	}

	return New(buf)
}

// Bytes returns the backing bytes. Callers must not modify them.
func (l Line) Bytes() []byte { return l.data }

// Len returns the line length in bytes.
func (l Line) Len() int { return len(l.data) }

// Bits returns the line length in bits.
func (l Line) Bits() int { return len(l.data) * 8 }

// Order returns the byte order used by the multi-byte views.
func (l Line) Order() ByteOrder { return l.order }

// Byte returns byte i.
func (l Line) Byte(i int) uint8 { return l.data[i] }

// Word returns the 16-bit word i.
func (l Line) Word(i int) uint16 { return l.order.Uint16(l.data[i*2:]) }

// DWord returns the 32-bit word i.
func (l Line) DWord(i int) uint32 { return l.order.Uint32(l.data[i*4:]) }

// QWord returns the 64-bit word i.
func (l Line) QWord(i int) uint64 { return l.order.Uint64(l.data[i*8:]) }

// SByte returns byte i as a signed value.
func (l Line) SByte(i int) int8 { return int8(l.data[i]) }

// SWord returns word i as a signed value.
func (l Line) SWord(i int) int16 { return int16(l.Word(i)) }

// SDWord returns dword i as a signed value.
func (l Line) SDWord(i int) int32 { return int32(l.DWord(i)) }

// SQWord returns qword i as a signed value.
func (l Line) SQWord(i int) int64 { return int64(l.QWord(i)) }

// Float32 returns dword i as an IEEE 754 single.
func (l Line) Float32(i int) float32 { return math.Float32frombits(l.DWord(i)) }

// Float64 returns qword i as an IEEE 754 double.
func (l Line) Float64(i int) float64 { return math.Float64frombits(l.QWord(i)) }

// Lane returns word i of the given byte width (1, 2, 4 or 8), zero-extended.
func (l Line) Lane(width, i int) uint64 {
	switch width {
	case 1:
		return uint64(l.Byte(i))
	case 2:
		return uint64(l.Word(i))
	case 4:
		return uint64(l.DWord(i))
	case 8:
		return l.QWord(i)
	default:
		panic("line: unsupported lane width")
	}
}

// IsZero reports whether every byte of the line is zero.
func (l Line) IsZero() bool {
	for i := 0; i+8 <= len(l.data); i += 8 {
		if binary.LittleEndian.Uint64(l.data[i:]) != 0 {
			return false
		}
	}
	for i := len(l.data) &^ 7; i < len(l.data); i++ {
		if l.data[i] != 0 {
			return false
		}
	}

	return true
}
