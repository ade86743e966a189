package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/linecomp"
	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/config"
	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/line"
	"github.com/arloliu/linecomp/page"
	"github.com/arloliu/linecomp/trace"
)

var geom = line.MustGeometry(512)

func fpcStats(t *testing.T, lines ...line.Line) *codec.Stats {
	t.Helper()

	c := codec.NewFPC(geom, "")
	for _, l := range lines {
		c.CompressLine(l)
	}

	return c.Stats()
}

func zeroLine() line.Line { return line.New(make([]byte, 64)) }

func sign4Line() line.Line {
	words := make([]uint32, 16)
	words[0] = 3

	return line.FromDWords(words...)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, "FPC", fpcStats(t, zeroLine(), zeroLine()), geom))
	require.Equal(t, "Comp\tFPC\n"+
		"dataCnt32\t32\n"+
		"compratio  \t42.666667\n"+
		"Comp32b    \t0.750000\n"+
		"Comp8b     \t0.187500\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, "FPC", codec.NewStats(), geom))
	require.Equal(t, "Comp\tFPC\nno data\n", buf.String())
}

func TestWriteDetails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetails(&buf, fpcStats(t, zeroLine(), sign4Line())))
	require.Equal(t, "Pattern frequency\n"+
		"               0\t0.800000\t0.321928\n"+
		"               1\t0.200000\t2.321928\n"+
		"Compressed line size\n"+
		"12\t0.500000\t1.000000\n"+
		"19\t0.500000\t1.000000\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteDetails(&buf, codec.NewStats()))
	require.Equal(t, "Pattern frequency\nCompressed line size\n", buf.String())
}

func TestGroupPatterns(t *testing.T) {
	patterns := map[int64]uint64{
		1:         2,
		1 << 48:   3,
		1<<48 + 5: 1,
		-1:        4,
	}
	require.Equal(t, patterns, groupPatterns(patterns, 4))
	require.Equal(t, map[int64]uint64{0: 2, 1: 4, -1: 4}, groupPatterns(patterns, 3))
}

func TestWriteRatioLine(t *testing.T) {
	p := page.Policy{LineFrag: 2, PageFrag: 0}
	acc := page.NewAccumulator(4096)
	acc.Add(p, 4096)

	var buf bytes.Buffer
	require.NoError(t, WriteRatioLine(&buf, "BPS64", p, acc.Totals(p)))
	require.Equal(t, "BPS64_2_0 Total Bytes 4096 Comp_Ratio: 8.00 \n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRatioLine(&buf, "BPS64", page.Policy{LineFrag: 1}, acc.Totals(page.Policy{LineFrag: 1})))
	require.Equal(t, "BPS64_1_0 Total Bytes 0 Comp_Ratio: no data\n", buf.String())

	empty := page.Policy{LineFrag: 0, PageFrag: 1}
	acc.Add(empty, 0)
	buf.Reset()
	require.NoError(t, WriteRatioLine(&buf, "BPS64", empty, acc.Totals(empty)))
	require.Equal(t, "BPS64_0_1 Total Bytes 4096 Comp_Ratio: all pages empty\n", buf.String())
}

func TestFormatRatio(t *testing.T) {
	require.Equal(t, "2.50", formatRatio(2.5, nil))
	require.Equal(t, "no data", formatRatio(0, errs.ErrNoData))
	require.Equal(t, "empty", formatRatio(0, errs.ErrEmptyPages))
}

func TestLengthGraph(t *testing.T) {
	_, err := LengthGraph(codec.NewStats(), 512, 8, 10)
	require.ErrorIs(t, err, errs.ErrNoData)

	plot, err := LengthGraph(fpcStats(t, zeroLine(), sign4Line()), 64, 8, 5)
	require.NoError(t, err)
	require.Contains(t, plot, "lines <= x*8 bits (%)")
	require.Contains(t, plot, "100")
}

// runSimulation runs two sources of ramp lines, one page each, with baselines
// and duplicate tracking enabled.
func runSimulation(t *testing.T) *linecomp.Result {
	t.Helper()

	lines := make([]line.Line, 64)
	for i := range lines {
		words := make([]uint32, 16)
		for j := range words {
			words[j] = uint32(i*1000 + j)
		}
		lines[i] = line.FromDWords(words...)
	}
	var buf bytes.Buffer
	require.NoError(t, trace.WriteLines(&buf, lines...))
	data := buf.Bytes()

	cfg := config.Default()
	cfg.Baselines = []string{"zstd"}
	cfg.Dedup = true
	sim, err := linecomp.NewSimulator(cfg)
	require.NoError(t, err)

	res, err := sim.Run(context.Background(),
		linecomp.ReaderSource("a.bin", bytes.NewReader(data)),
		linecomp.ReaderSource("b.bin", bytes.NewReader(data)),
	)
	require.NoError(t, err)

	return res
}

func TestWritePageTable(t *testing.T) {
	res := runSimulation(t)

	var buf bytes.Buffer
	require.NoError(t, WritePageTable(&buf, res))
	out := buf.String()
	require.Contains(t, out, "BPS64_2_0")
	require.Contains(t, out, "Zstd")
	require.Contains(t, out, "pages 2, zero 0, duplicate 1, unique 1 (50.0% deduplicable)")
}

func TestWriteCSV(t *testing.T) {
	res := runSimulation(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "source,codec,policy,lines,trailing_bytes,pages,compressed_bits,ratio", lines[0])

	var rows []*SourceRow
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "a.bin", rows[0].Source)
	require.Equal(t, "b.bin", rows[1].Source)
	require.Equal(t, "2_0", rows[0].Policy)
	require.Equal(t, uint64(64), rows[0].Lines)
	require.Equal(t, uint64(1), rows[0].Pages)
	require.Greater(t, rows[0].Ratio, 1.0)
}
