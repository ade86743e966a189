package codec

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// lowMask returns a mask of the low w bits.
func lowMask(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}

	return uint64(1)<<w - 1
}

// planeShape describes the set bits of a non-zero plane.
type planeShape struct {
	ones     int
	firstPos int
	adjacent bool
}

func shapeOf(plane uint64) planeShape {
	ones := bits.OnesCount64(plane)
	first := bits.TrailingZeros64(plane)

	return planeShape{
		ones:     ones,
		firstPos: first,
		adjacent: ones == 2 && plane>>first == 0b11,
	}
}

// runCoder prices runs of all-zero DBX planes through a lookup table indexed
// by run length. Entry 0 is free. A run may only span every plane when the
// line ends with it.
type runCoder struct {
	table  []int
	planes int
}

func newRunCoder(table []int, planes int) runCoder {
	if len(table) < planes+1 || table[0] != 0 {
		panic(errors.AssertionFailedf("zero-run table of %d entries cannot code %d planes", len(table), planes))
	}

	return runCoder{table: table, planes: planes}
}

// cost returns the size of a run flushed by a non-zero plane (final false) or
// by the end of the line (final true).
func (z runCoder) cost(run int, final bool) int {
	if run < 0 || run > z.planes || (!final && run == z.planes) {
		panic(errors.AssertionFailedf("zero run of %d planes is not codable (planes=%d, final=%t)", run, z.planes, final))
	}

	return z.table[run]
}

// transpose fills planes[j] with bit j of every element, element i landing on
// bit i of the plane.
func transpose(planes []uint64, elems []uint64) {
	for j := range planes {
		var p uint64
		for i := len(elems) - 1; i >= 0; i-- {
			p = p<<1 | (elems[i]>>j)&1
		}
		planes[j] = p
	}
}

// fillTable returns a table of n entries: table[0] = 0, table[1] = first, the
// rest = rest, and the last entry overridden by last when last > 0.
func fillTable(n, first, rest, last int) []int {
	t := make([]int, n)
	t[1] = first
	for i := 2; i < n; i++ {
		t[i] = rest
	}
	if last > 0 {
		t[n-1] = last
	}

	return t
}
