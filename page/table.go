package page

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/errs"
)

// SizeClassTable is an ascending list of allowed storage sizes in bits.
type SizeClassTable []int

// NewSizeClassTable validates and returns a table.
func NewSizeClassTable(sizes ...int) (SizeClassTable, error) {
	t := SizeClassTable(sizes)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks that the table is non-empty, non-negative and ascending.
func (t SizeClassTable) Validate() error {
	if len(t) == 0 {
		return errors.Wrap(errs.ErrInvalidTable, "empty table")
	}
	for i, size := range t {
		if size < 0 {
			return errors.Wrapf(errs.ErrInvalidTable, "negative size %d at index %d", size, i)
		}
		if i > 0 && size < t[i-1] {
			return errors.Wrapf(errs.ErrInvalidTable, "size %d at index %d is below its predecessor %d", size, i, t[i-1])
		}
	}

	return nil
}

// RoundUp returns the first entry that is at least bits, or the largest entry
// when none is.
func (t SizeClassTable) RoundUp(bits int) int {
	for _, size := range t {
		if size >= bits {
			return size
		}
	}

	return t[len(t)-1]
}

// Max returns the largest entry.
func (t SizeClassTable) Max() int {
	return t[len(t)-1]
}

// Scaled returns a copy of the table with every entry multiplied by num/den.
func (t SizeClassTable) Scaled(num, den int) SizeClassTable {
	out := make(SizeClassTable, len(t))
	for i, size := range t {
		out[i] = size * num / den
	}

	return out
}

// ScaleTables scales every table by num/den.
func ScaleTables(tables []SizeClassTable, num, den int) []SizeClassTable {
	out := make([]SizeClassTable, len(tables))
	for i, t := range tables {
		out[i] = t.Scaled(num, den)
	}

	return out
}

// DefaultLineTables returns the line size-class tables for fragmentation modes
// 0, 1 and 2.
func DefaultLineTables() []SizeClassTable {
	return []SizeClassTable{
		{0, 0, 64, 64, 256, 256, 512, 512},
		{0, 0, 176, 176, 352, 352, 512, 512},
		{0, 0, 128, 128, 256, 256, 512, 512},
	}
}

// DefaultPageTables returns the page size-class tables for page modes 0 and 1.
func DefaultPageTables() []SizeClassTable {
	return []SizeClassTable{
		{4096, 8192, 12288, 16384, 20480, 24576, 28672, 32768},
		{4096, 4096, 8192, 8192, 16384, 16384, 32768, 32768},
	}
}
