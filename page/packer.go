package page

import (
	"github.com/cockroachdb/errors"
)

// Packer groups consecutive line lengths into pages and quantizes every
// completed page under each configured policy.
//
// Lines that do not fill a whole page are never counted.
type Packer struct {
	q            *Quantizer
	policies     []Policy
	linesPerPage int
	pending      []int
	acc          *Accumulator
	last         []int
}

// NewPacker returns a packer for lines of lineBits bits.
//
// Parameters:
//   - q: quantizer holding the size-class tables
//   - lineBits: uncompressed line size; a page holds q.PageBits()/lineBits lines
//   - policies: packing policies to evaluate on every page; all of them when empty
//
// Returns:
//   - *Packer: the packer
//   - error: a policy names a missing table or a line does not fit in a page
func NewPacker(q *Quantizer, lineBits int, policies ...Policy) (*Packer, error) {
	if lineBits <= 0 || q.PageBits()%lineBits != 0 {
		return nil, errors.Newf("page of %d bits cannot hold whole lines of %d bits", q.PageBits(), lineBits)
	}
	if len(policies) == 0 {
		policies = q.Policies()
	}
	for _, p := range policies {
		if err := q.Validate(p); err != nil {
			return nil, err
		}
	}

	linesPerPage := q.PageBits() / lineBits

	return &Packer{
		q:            q,
		policies:     policies,
		linesPerPage: linesPerPage,
		pending:      make([]int, 0, linesPerPage),
		acc:          NewAccumulator(q.PageBytes()),
		last:         make([]int, len(policies)),
	}, nil
}

// Add appends the compressed length of the next line. It returns true when the
// line completed a page.
func (p *Packer) Add(length int) bool {
	p.pending = append(p.pending, length)
	if len(p.pending) < p.linesPerPage {
		return false
	}

	for i, policy := range p.policies {
		bits := p.q.Quantize(p.pending, policy)
		p.acc.Add(policy, bits)
		p.last[i] = bits
	}
	p.pending = p.pending[:0]

	return true
}

// LastPage returns the packed size of the most recent page per policy, in the
// order of Policies. The slice is reused by the next completed page.
func (p *Packer) LastPage() []int { return p.last }

// Policies returns the policies evaluated on every page.
func (p *Packer) Policies() []Policy { return p.policies }

// LinesPerPage returns the number of lines in a page.
func (p *Packer) LinesPerPage() int { return p.linesPerPage }

// Pending returns the number of lines waiting for their page to complete.
func (p *Packer) Pending() int { return len(p.pending) }

// Accumulator returns the per-policy totals.
func (p *Packer) Accumulator() *Accumulator { return p.acc }
