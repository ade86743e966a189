package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"

	"github.com/arloliu/linecomp"
	"github.com/arloliu/linecomp/errs"
)

const noData = "no data"

// WritePageTable renders the packed page totals of every policy, followed by
// the baseline compressors and the duplicate page counts when present.
func WritePageTable(w io.Writer, res *linecomp.Result) error {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Policy", "Pages", "Uncompressed", "Packed", "Ratio", "Mean bits", "P50 bits", "P99 bits"})
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range res.Policies {
		t := res.Pages.Totals(p)
		if t == nil {
			tbl.Append([]string{res.CodecName + "_" + p.String(), "0", "0", "0", noData, "-", "-", "-"})
			continue
		}
		tbl.Append([]string{
			res.CodecName + "_" + p.String(),
			strconv.FormatUint(t.Pages, 10),
			strconv.FormatUint(t.UncompressedBytes, 10),
			strconv.FormatUint(t.CompressedBytes(), 10),
			formatRatio(t.Ratio()),
			fmt.Sprintf("%.1f", t.Mean()),
			strconv.FormatInt(t.Quantile(50), 10),
			strconv.FormatInt(t.Quantile(99), 10),
		})
	}
	tbl.Render()

	if len(res.Baselines) > 0 {
		bt := tablewriter.NewWriter(w)
		bt.SetHeader([]string{"Baseline", "Pages", "Uncompressed", "Compressed", "Ratio", "Savings"})
		bt.SetAlignment(tablewriter.ALIGN_RIGHT)
		for _, b := range res.Baselines {
			ratio := noData
			if b.CompressedBits > 0 {
				ratio = fmt.Sprintf("%.2f", b.Ratio())
			}
			bt.Append([]string{
				b.Algorithm.String(),
				strconv.FormatUint(b.Pages, 10),
				strconv.FormatUint(b.UncompressedBytes, 10),
				strconv.FormatUint(b.CompressedBits/8, 10),
				ratio,
				fmt.Sprintf("%.1f%%", b.SpaceSavings()),
			})
		}
		bt.Render()
	}

	if res.Dedup != nil {
		d := res.Dedup
		_, err := fmt.Fprintf(w, "pages %d, zero %d, duplicate %d, unique %d (%.1f%% deduplicable)\n",
			d.Pages, d.Zero, d.Duplicate, d.Unique, d.DuplicateFraction()*100)
		if err != nil {
			return err
		}
	}

	return nil
}

func formatRatio(r float64, err error) string {
	if errors.Is(err, errs.ErrEmptyPages) {
		return "empty"
	}
	if err != nil {
		return noData
	}

	return fmt.Sprintf("%.2f", r)
}
