package report

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/arloliu/linecomp"
)

// SourceRow is one CSV record: the pages of one source under one policy.
type SourceRow struct {
	Source         string  `csv:"source"`
	Codec          string  `csv:"codec"`
	Policy         string  `csv:"policy"`
	Lines          uint64  `csv:"lines"`
	TrailingBytes  int     `csv:"trailing_bytes"`
	Pages          uint64  `csv:"pages"`
	CompressedBits uint64  `csv:"compressed_bits"`
	Ratio          float64 `csv:"ratio"`
}

// SourceRows flattens res into one row per source and policy, in source
// order. Policies without a completed page get a zero ratio.
func SourceRows(res *linecomp.Result) []*SourceRow {
	rows := make([]*SourceRow, 0, len(res.Files)*len(res.Policies))
	for _, f := range res.Files {
		for _, p := range res.Policies {
			row := &SourceRow{
				Source:        f.Name,
				Codec:         res.CodecName,
				Policy:        p.String(),
				Lines:         f.Lines,
				TrailingBytes: f.TrailingBytes,
			}
			if t := f.Totals.Totals(p); t != nil {
				row.Pages = t.Pages
				row.CompressedBits = t.CompressedBits
				row.Ratio, _ = t.Ratio()
			}
			rows = append(rows, row)
		}
	}

	return rows
}

// WriteCSV writes SourceRows(res) with a header line.
func WriteCSV(w io.Writer, res *linecomp.Result) error {
	return gocsv.Marshal(SourceRows(res), w)
}
