package linecomp

import (
	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/compress"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/internal/dedup"
	"github.com/arloliu/linecomp/line"
	"github.com/arloliu/linecomp/page"
)

// Result is the merged outcome of a run.
type Result struct {
	CodecName string
	Kind      format.CodecKind
	Geometry  line.Geometry
	PageBytes int
	Policies  []page.Policy

	// Stats holds the line length and pattern histograms of every line.
	Stats *codec.Stats
	// Pages holds the packed page totals per policy.
	Pages *page.Accumulator
	// Baselines holds one entry per configured general-purpose compressor,
	// in configuration order.
	Baselines []compress.Totals
	// Files lists the sources in the order they were given.
	Files []FileResult

	Lines         uint64
	TrailingBytes int
	// PendingLines counts lines that never completed a page.
	PendingLines int
	// Dedup is nil unless duplicate tracking was enabled.
	Dedup *dedup.Counts
}

// Ratio returns the page compression ratio under p.
func (r *Result) Ratio(p page.Policy) (float64, error) {
	return r.Pages.Totals(p).Ratio()
}

// FileResult describes one source. Its totals cover the pages that completed
// while the source was read, so with a single worker a page that began in the
// previous source is counted here.
type FileResult struct {
	Name          string
	Lines         uint64
	Pages         uint64
	TrailingBytes int
	Totals        *page.Accumulator
}

// Ratio returns the compression ratio of the pages completed in this source.
func (f FileResult) Ratio(p page.Policy) (float64, error) {
	return f.Totals.Totals(p).Ratio()
}
