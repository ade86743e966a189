package page

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/errs"
)

// DefaultPageBytes is the uncompressed page size.
const DefaultPageBytes = 4096

// Policy selects one line table and one page table of a Quantizer.
type Policy struct {
	LineFrag int
	PageFrag int
}

func (p Policy) String() string {
	return fmt.Sprintf("%d_%d", p.LineFrag, p.PageFrag)
}

// Quantizer rounds per-line lengths and page totals to the sizes a memory
// allocator can actually hand out.
type Quantizer struct {
	lineTables []SizeClassTable
	pageTables []SizeClassTable
	pageBytes  int
}

// NewQuantizer returns a quantizer over the given tables.
//
// Parameters:
//   - pageBytes: uncompressed page size; page totals are capped at pageBytes*8 bits
//   - lineTables: line size-class tables, indexed by Policy.LineFrag
//   - pageTables: page size-class tables, indexed by Policy.PageFrag
//
// Returns:
//   - *Quantizer: the quantizer
//   - error: a table failed validation or pageBytes is not positive
func NewQuantizer(pageBytes int, lineTables, pageTables []SizeClassTable) (*Quantizer, error) {
	if pageBytes <= 0 {
		return nil, errors.Newf("page size must be positive, got %d", pageBytes)
	}
	if len(lineTables) == 0 || len(pageTables) == 0 {
		return nil, errors.Wrap(errs.ErrInvalidTable, "at least one line table and one page table are required")
	}
	for i, t := range lineTables {
		if err := t.Validate(); err != nil {
			return nil, errors.Wrapf(err, "line table %d", i)
		}
	}
	for i, t := range pageTables {
		if err := t.Validate(); err != nil {
			return nil, errors.Wrapf(err, "page table %d", i)
		}
	}

	return &Quantizer{lineTables: lineTables, pageTables: pageTables, pageBytes: pageBytes}, nil
}

// DefaultQuantizer returns a quantizer for 4 KiB pages over the default tables.
func DefaultQuantizer() *Quantizer {
	return &Quantizer{
		lineTables: DefaultLineTables(),
		pageTables: DefaultPageTables(),
		pageBytes:  DefaultPageBytes,
	}
}

// PageBytes returns the uncompressed page size in bytes.
func (q *Quantizer) PageBytes() int { return q.pageBytes }

// PageBits returns the uncompressed page size in bits.
func (q *Quantizer) PageBits() int { return q.pageBytes * 8 }

// LineTable returns the line table at index frag.
func (q *Quantizer) LineTable(frag int) SizeClassTable { return q.lineTables[frag] }

// PageTable returns the page table at index frag.
func (q *Quantizer) PageTable(frag int) SizeClassTable { return q.pageTables[frag] }

// Validate reports whether p names existing tables.
func (q *Quantizer) Validate(p Policy) error {
	if p.LineFrag < 0 || p.LineFrag >= len(q.lineTables) {
		return errors.Wrapf(errs.ErrInvalidPolicy, "line fragmentation mode %d out of range [0,%d)", p.LineFrag, len(q.lineTables))
	}
	if p.PageFrag < 0 || p.PageFrag >= len(q.pageTables) {
		return errors.Wrapf(errs.ErrInvalidPolicy, "page fragmentation mode %d out of range [0,%d)", p.PageFrag, len(q.pageTables))
	}

	return nil
}

// Policies returns every line/page table combination, line mode major.
func (q *Quantizer) Policies() []Policy {
	policies := make([]Policy, 0, len(q.lineTables)*len(q.pageTables))
	for lf := range q.lineTables {
		for pf := range q.pageTables {
			policies = append(policies, Policy{LineFrag: lf, PageFrag: pf})
		}
	}

	return policies
}

// Quantize returns the storage a page of line lengths occupies under p.
//
// Each line is rounded up in the line table, the sum is capped at the
// uncompressed page size, and a non-zero total is rounded up in the page
// table. A page whose lines all quantize to zero occupies nothing.
func (q *Quantizer) Quantize(lengths []int, p Policy) int {
	lineTable := q.lineTables[p.LineFrag]

	total := 0
	for _, length := range lengths {
		total += lineTable.RoundUp(length)
	}

	total = min(total, q.PageBits())
	if total == 0 {
		return 0
	}

	return q.pageTables[p.PageFrag].RoundUp(total)
}
