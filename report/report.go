// Package report formats simulation results for people and spreadsheets.
package report

import (
	"fmt"
	"io"
	"maps"
	"math"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/line"
	"github.com/arloliu/linecomp/page"
)

// maxPatternRows is the number of distinct patterns printed individually.
// Larger sets are grouped by the top 16 bits of the identifier.
const (
	maxPatternRows    = 1 << 16
	patternGroupShift = 48
)

// WriteSummary writes the per-codec digest of stats:
//
//	Comp        <name>
//	dataCnt32   <32-bit words encoded>
//	compratio   <uncompressed bits / compressed bits>
//	Comp32b     <bits per 32-bit word>
//	Comp8b      <bits per byte>
//
// A run without usable lines prints "no data" in place of the figures.
func WriteSummary(w io.Writer, name string, stats *codec.Stats, g line.Geometry) error {
	sum, err := stats.Summarize(g)
	if errors.Is(err, errs.ErrNoData) {
		_, err = fmt.Fprintf(w, "Comp\t%s\nno data\n", name)
		return err
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Comp\t%s\ndataCnt32\t%d\ncompratio  \t%f\nComp32b    \t%f\nComp8b     \t%f\n",
		name, sum.DataCount32, sum.Ratio, sum.BitsPerDWord, sum.BitsPerByte)

	return err
}

// WriteDetails writes the pattern frequency table and the compressed line
// size distribution. Every row carries the fraction and its information
// content in bits.
func WriteDetails(w io.Writer, stats *codec.Stats) error {
	if _, err := io.WriteString(w, "Pattern frequency\n"); err != nil {
		return err
	}
	patterns := groupPatterns(stats.Patterns(), maxPatternRows)
	if total := stats.TotalPatterns(); total > 0 {
		for _, id := range slices.Sorted(maps.Keys(patterns)) {
			f := float64(patterns[id]) / float64(total)
			if _, err := fmt.Fprintf(w, "%16x\t%f\t%f\n", uint64(id), f, information(f)); err != nil {
				return err
			}
		}
	}

	if _, err := io.WriteString(w, "Compressed line size\n"); err != nil {
		return err
	}
	if total := stats.TotalLines(); total > 0 {
		for _, length := range stats.LengthKeys() {
			f := float64(stats.LengthCount(length)) / float64(total)
			if _, err := fmt.Fprintf(w, "%02d\t%f\t%f\n", length, f, information(f)); err != nil {
				return err
			}
		}
	}

	return nil
}

// WriteRatioLine writes the one-line page ratio of a policy:
//
//	<name>_<lineFrag>_<pageFrag> Total Bytes <uncompressed> Comp_Ratio: <ratio>
//
// The ratio reads "no data" without pages and "all pages empty" when every
// page packed to zero bits.
func WriteRatioLine(w io.Writer, name string, p page.Policy, t *page.Totals) error {
	var uncompressed uint64
	if t != nil {
		uncompressed = t.UncompressedBytes
	}

	ratio, err := t.Ratio()
	if errors.Is(err, errs.ErrNoData) || errors.Is(err, errs.ErrEmptyPages) {
		_, err = fmt.Fprintf(w, "%s_%d_%d Total Bytes %d Comp_Ratio: %v\n", name, p.LineFrag, p.PageFrag, uncompressed, err)
		return err
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s_%d_%d Total Bytes %d Comp_Ratio: %.2f \n", name, p.LineFrag, p.PageFrag, uncompressed, ratio)

	return err
}

// groupPatterns returns patterns unchanged when it has at most limit entries,
// and otherwise the counts summed per group of id>>48.
func groupPatterns(patterns map[int64]uint64, limit int) map[int64]uint64 {
	if len(patterns) <= limit {
		return patterns
	}

	groups := make(map[int64]uint64)
	for id, n := range patterns {
		groups[id>>patternGroupShift] += n
	}

	return groups
}

// information returns -log2(f), the cost in bits of an event of frequency f.
func information(f float64) float64 {
	return 0 - math.Log2(f)
}
