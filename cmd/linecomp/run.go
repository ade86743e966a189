package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/arloliu/linecomp"
	"github.com/arloliu/linecomp/config"
	"github.com/arloliu/linecomp/report"
)

var runConfig struct {
	configPath    string
	lineBits      int
	pageBytes     int
	codec         string
	codecName     string
	diffMode      string
	planeMode     string
	codeMode      string
	codecLineFrag int
	lineFrag      int
	pageFrag      int
	allPolicies   bool
	baselines     []string
	dedup         bool
	workers       int
	progress      uint64

	verbose bool
	details bool
	table   bool
	graph   bool
	csvPath string
}

var runCmd = &cobra.Command{
	Use:   "run <trace>...",
	Short: "run traces through a codec and report page compression ratios",
	Long: `Run every trace through one codec. With a single worker the traces are
processed as one stream, in the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	defaults := config.Default()
	f := runCmd.Flags()
	f.StringVar(&runConfig.configPath, "config", "", "YAML configuration file; flags override its values")
	f.IntVar(&runConfig.lineBits, "line-bits", defaults.LineBits, "cache line size in bits")
	f.IntVar(&runConfig.pageBytes, "page-bytes", defaults.PageBytes, "page size in bytes")
	f.StringVar(&runConfig.codec, "codec", defaults.Codec, "codec kind (see the codecs command)")
	f.StringVar(&runConfig.codecName, "codec-name", "", "display name of the codec")
	f.StringVar(&runConfig.diffMode, "diff", defaults.DiffMode, "word transform of the stateful bit-plane codecs")
	f.StringVar(&runConfig.planeMode, "plane", defaults.PlaneMode, "plane mode of the stateful bit-plane codecs")
	f.StringVar(&runConfig.codeMode, "code", defaults.CodeMode, "cost model of the stateful bit-plane codecs")
	f.IntVar(&runConfig.codecLineFrag, "codec-line-frag", defaults.CodecLineFrag,
		"line table the stateful bit-plane codecs round to (-1 disables)")
	f.IntVar(&runConfig.lineFrag, "line-frag", defaults.Policies[0].LineFrag, "line table of the packing policy")
	f.IntVar(&runConfig.pageFrag, "page-frag", defaults.Policies[0].PageFrag, "page table of the packing policy")
	f.BoolVar(&runConfig.allPolicies, "all-policies", false, "evaluate every line/page table combination")
	f.StringSliceVar(&runConfig.baselines, "baseline", nil, "general-purpose page compressor to compare against (repeatable)")
	f.BoolVar(&runConfig.dedup, "dedup", false, "count zero and duplicate pages")
	f.IntVarP(&runConfig.workers, "concurrency", "c", defaults.Workers, "number of traces processed concurrently")
	f.Uint64Var(&runConfig.progress, "progress", defaults.ProgressInterval, "lines between progress messages (0 disables)")
	f.BoolVarP(&runConfig.verbose, "verbose", "v", false, "log progress and per-trace summaries")
	f.BoolVar(&runConfig.details, "details", false, "print pattern frequencies and the line size distribution")
	f.BoolVar(&runConfig.table, "table", false, "print the per-policy page table")
	f.BoolVar(&runConfig.graph, "graph", false, "plot the cumulative line size distribution")
	f.StringVar(&runConfig.csvPath, "csv", "", "write per-trace results to this CSV file")
}

// loadConfig reads --config, if any, and applies every flag set on the
// command line over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if runConfig.configPath != "" {
		var err error
		if cfg, err = config.Load(runConfig.configPath); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("line-bits") {
		cfg.LineBits = runConfig.lineBits
	}
	if f.Changed("page-bytes") {
		cfg.PageBytes = runConfig.pageBytes
	}
	if f.Changed("codec") {
		cfg.Codec = runConfig.codec
	}
	if f.Changed("codec-name") {
		cfg.CodecName = runConfig.codecName
	}
	if f.Changed("diff") {
		cfg.DiffMode = runConfig.diffMode
	}
	if f.Changed("plane") {
		cfg.PlaneMode = runConfig.planeMode
	}
	if f.Changed("code") {
		cfg.CodeMode = runConfig.codeMode
	}
	if f.Changed("codec-line-frag") {
		cfg.CodecLineFrag = runConfig.codecLineFrag
	}
	if f.Changed("line-frag") || f.Changed("page-frag") {
		cfg.Policies = []config.Policy{{LineFrag: runConfig.lineFrag, PageFrag: runConfig.pageFrag}}
	}
	if runConfig.allPolicies {
		cfg.Policies = nil
	}
	if f.Changed("baseline") {
		cfg.Baselines = runConfig.baselines
	}
	if f.Changed("dedup") {
		cfg.Dedup = runConfig.dedup
	}
	if f.Changed("concurrency") {
		cfg.Workers = runConfig.workers
	}
	if f.Changed("progress") {
		cfg.ProgressInterval = runConfig.progress
	}

	return cfg, cfg.Validate()
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var opts []linecomp.Option
	if runConfig.verbose {
		opts = append(opts, linecomp.WithLogger(linecomp.DefaultLogger{}))
	}
	sim, err := linecomp.NewSimulator(cfg, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := sim.Run(ctx, linecomp.FileSources(args...)...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.WriteSummary(out, res.CodecName, res.Stats, res.Geometry); err != nil {
		return err
	}
	if runConfig.details {
		if err := report.WriteDetails(out, res.Stats); err != nil {
			return err
		}
	}
	for _, p := range res.Policies {
		if err := report.WriteRatioLine(out, res.CodecName, p, res.Pages.Totals(p)); err != nil {
			return err
		}
	}
	if runConfig.table {
		if err := report.WritePageTable(out, res); err != nil {
			return err
		}
	}
	if runConfig.graph {
		plot, err := report.LengthGraph(res.Stats, res.Geometry.Bits(), 8, 12)
		if err != nil {
			plot = err.Error()
		}
		fmt.Fprintln(out, plot)
	}
	if runConfig.csvPath != "" {
		if err := writeCSV(runConfig.csvPath, res); err != nil {
			return err
		}
	}

	return nil
}

func writeCSV(path string, res *linecomp.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	if err := report.WriteCSV(f, res); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", path)
	}

	return f.Close()
}
