package codec

import (
	"maps"
	"slices"

	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/line"
)

// Stats holds the pattern and length histograms of one codec.
//
// Counts only grow until the owning codec is reset. Exported methods are
// read-only; a codec records into its own Stats while encoding.
type Stats struct {
	patterns      map[int64]uint64
	lengths       map[int]uint64
	totalPatterns uint64
	totalLines    uint64
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{
		patterns: make(map[int64]uint64),
		lengths:  make(map[int]uint64),
	}
}

func (s *Stats) recordPattern(id int64) {
	s.totalPatterns++
	s.patterns[id]++
}

func (s *Stats) recordLength(bits int) {
	s.totalLines++
	s.lengths[bits]++
}

func (s *Stats) reset() {
	clear(s.patterns)
	clear(s.lengths)
	s.totalPatterns = 0
	s.totalLines = 0
}

// TotalPatterns returns the number of pattern occurrences recorded.
func (s *Stats) TotalPatterns() uint64 { return s.totalPatterns }

// TotalLines returns the number of lines encoded.
func (s *Stats) TotalLines() uint64 { return s.totalLines }

// PatternCount returns how often pattern id fired.
func (s *Stats) PatternCount(id int64) uint64 { return s.patterns[id] }

// LengthCount returns how many lines encoded to exactly bits.
func (s *Stats) LengthCount(bits int) uint64 { return s.lengths[bits] }

// Patterns returns a copy of the pattern histogram.
func (s *Stats) Patterns() map[int64]uint64 { return maps.Clone(s.patterns) }

// Lengths returns a copy of the length histogram.
func (s *Stats) Lengths() map[int]uint64 { return maps.Clone(s.lengths) }

// PatternIDs returns the recorded pattern identifiers in ascending order.
func (s *Stats) PatternIDs() []int64 {
	return slices.Sorted(maps.Keys(s.patterns))
}

// LengthKeys returns the recorded lengths in ascending order.
func (s *Stats) LengthKeys() []int {
	return slices.Sorted(maps.Keys(s.lengths))
}

// CompressedBits returns the sum of all recorded line lengths.
func (s *Stats) CompressedBits() uint64 {
	var sum uint64
	for length, count := range s.lengths {
		sum += uint64(length) * count
	}

	return sum
}

// Coverage returns the fraction of lines whose length is at most threshold bits.
// It returns errs.ErrNoData before the first line.
func (s *Stats) Coverage(threshold int) (float64, error) {
	if s.totalLines == 0 {
		return 0, errs.ErrNoData
	}

	var covered uint64
	for length, count := range s.lengths {
		if length <= threshold {
			covered += count
		}
	}

	return float64(covered) / float64(s.totalLines), nil
}

// Summary is the per-codec digest printed at the end of a run.
type Summary struct {
	Lines uint64
	// DataCount32 is the number of 32-bit words encoded.
	DataCount32 uint64
	// CompressedBits is the sum of all line lengths.
	CompressedBits uint64
	// Ratio is uncompressed bits over compressed bits.
	Ratio float64
	// BitsPerDWord is the mean compressed size of a 32-bit word.
	BitsPerDWord float64
	// BitsPerByte is the mean compressed size of a byte.
	BitsPerByte float64
}

// Summarize computes the Summary for lines of geometry g.
// It returns errs.ErrNoData when no line was encoded or every line encoded to
// zero bits.
func (s *Stats) Summarize(g line.Geometry) (Summary, error) {
	sum := Summary{
		Lines:          s.totalLines,
		DataCount32:    s.totalLines * uint64(g.DWords()),
		CompressedBits: s.CompressedBits(),
	}
	if sum.Lines == 0 || sum.CompressedBits == 0 {
		return sum, errs.ErrNoData
	}

	sum.Ratio = float64(sum.DataCount32*32) / float64(sum.CompressedBits)
	sum.BitsPerDWord = float64(sum.CompressedBits) / float64(sum.DataCount32)
	sum.BitsPerByte = float64(sum.CompressedBits) / float64(sum.Lines*uint64(g.Bytes()))

	return sum, nil
}

// Merge adds every count of o into s.
func (s *Stats) Merge(o *Stats) {
	if o == nil {
		return
	}
	for id, count := range o.patterns {
		s.patterns[id] += count
	}
	for length, count := range o.lengths {
		s.lengths[length] += count
	}
	s.totalPatterns += o.totalPatterns
	s.totalLines += o.totalLines
}

// Clone returns an independent copy of s.
func (s *Stats) Clone() *Stats {
	return &Stats{
		patterns:      maps.Clone(s.patterns),
		lengths:       maps.Clone(s.lengths),
		totalPatterns: s.totalPatterns,
		totalLines:    s.totalLines,
	}
}
