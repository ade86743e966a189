package page

import (
	"slices"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/arloliu/linecomp/errs"
)

const histogramSigFigs = 3

// Totals accumulates the packed size of every page seen under one policy.
type Totals struct {
	Pages             uint64
	UncompressedBytes uint64
	CompressedBits    uint64

	hist *hdrhistogram.Histogram
}

func newTotals(pageBytes int) *Totals {
	return &Totals{hist: hdrhistogram.New(1, int64(pageBytes)*8, histogramSigFigs)}
}

func (t *Totals) add(pageBytes, bits int) {
	t.Pages++
	t.UncompressedBytes += uint64(pageBytes)
	t.CompressedBits += uint64(bits)
	_ = t.hist.RecordValue(int64(bits))
}

// CompressedBytes returns the packed size rounded down to whole bytes.
func (t *Totals) CompressedBytes() uint64 {
	return t.CompressedBits / 8
}

// Ratio returns uncompressed bits over packed bits.
// It returns errs.ErrNoData when no page was seen and errs.ErrEmptyPages when
// every page packed to zero bits.
func (t *Totals) Ratio() (float64, error) {
	if t == nil || t.Pages == 0 {
		return 0, errs.ErrNoData
	}
	if t.CompressedBits == 0 {
		return 0, errs.ErrEmptyPages
	}

	return float64(t.UncompressedBytes*8) / float64(t.CompressedBits), nil
}

// Quantile returns the packed page size in bits at quantile q (0-100).
func (t *Totals) Quantile(q float64) int64 {
	if t == nil || t.hist == nil {
		return 0
	}

	return t.hist.ValueAtQuantile(q)
}

// Mean returns the mean packed page size in bits.
func (t *Totals) Mean() float64 {
	if t == nil || t.hist == nil {
		return 0
	}

	return t.hist.Mean()
}

func (t *Totals) merge(o *Totals) {
	t.Pages += o.Pages
	t.UncompressedBytes += o.UncompressedBytes
	t.CompressedBits += o.CompressedBits
	t.hist.Merge(o.hist)
}

// Accumulator keeps one Totals per packing policy.
type Accumulator struct {
	pageBytes int
	totals    map[Policy]*Totals
}

// NewAccumulator returns an empty accumulator for pages of pageBytes bytes.
func NewAccumulator(pageBytes int) *Accumulator {
	return &Accumulator{pageBytes: pageBytes, totals: make(map[Policy]*Totals)}
}

// Add records one page packed into bits under p.
func (a *Accumulator) Add(p Policy, bits int) {
	t, ok := a.totals[p]
	if !ok {
		t = newTotals(a.pageBytes)
		a.totals[p] = t
	}
	t.add(a.pageBytes, bits)
}

// Totals returns the totals for p, or nil when no page was recorded under it.
func (a *Accumulator) Totals(p Policy) *Totals {
	return a.totals[p]
}

// Policies returns the recorded policies in ascending order.
func (a *Accumulator) Policies() []Policy {
	policies := make([]Policy, 0, len(a.totals))
	for p := range a.totals {
		policies = append(policies, p)
	}
	slices.SortFunc(policies, func(x, y Policy) int {
		if x.LineFrag != y.LineFrag {
			return x.LineFrag - y.LineFrag
		}

		return x.PageFrag - y.PageFrag
	})

	return policies
}

// Merge adds every total of o into a.
func (a *Accumulator) Merge(o *Accumulator) {
	if o == nil {
		return
	}
	for p, ot := range o.totals {
		t, ok := a.totals[p]
		if !ok {
			t = newTotals(a.pageBytes)
			a.totals[p] = t
		}
		t.merge(ot)
	}
}
