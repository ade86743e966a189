package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/errs"
)

// LengthGraph plots the cumulative share of lines, in percent, whose
// compressed size is at most x bits, sampled every step bits up to maxBits.
func LengthGraph(stats *codec.Stats, maxBits, step, height int) (string, error) {
	if stats.TotalLines() == 0 {
		return "", errs.ErrNoData
	}
	if step <= 0 {
		step = 8
	}

	values := make([]float64, 0, maxBits/step+1)
	for bits := 0; bits <= maxBits; bits += step {
		cov, err := stats.Coverage(bits)
		if err != nil {
			return "", err
		}
		values = append(values, cov*100)
	}

	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("lines <= x*%d bits (%%)", step)),
	), nil
}
