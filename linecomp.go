// Package linecomp estimates how well memory traces compress under hardware
// cache-line compression schemes.
//
// A trace is a flat sequence of fixed-size cache lines. Every line goes
// through one codec, which returns the bits the line would occupy. Lines are
// grouped into pages, and each page is packed under one or more size-class
// policies that model what a compressed memory allocator can hand out. The
// ratio of uncompressed to packed bits is the figure of merit.
//
// # Codecs
//
//   - BD, BDI: base plus narrow deltas, with or without immediates
//   - BP, BP64: bit-plane transposition of element deltas
//   - BPS, BPS64: stateful bit-plane compression with a configurable transform
//   - CPack: a small FIFO dictionary with partial matches
//   - FPC: frequent pattern compression with zero runs
//
// Next to the line codecs, completed page images can be fed to general
// purpose compressors (Zstd, S2, LZ4) and to a duplicate page tracker.
//
// # Basic Usage
//
//	cfg := config.Default()
//	cfg.Codec = "BDI"
//	sim, err := linecomp.NewSimulator(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := sim.Run(ctx, linecomp.FileSource("trace.bin"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	ratio, _ := res.Pages.Totals(page.Policy{LineFrag: 2}).Ratio()
//
// # Concurrency
//
// With one worker the sources are processed in order by a single codec, so
// stateful codecs and page boundaries carry from one source into the next.
// With more workers every source gets its own codec and packer and the
// results are merged; pages never span sources in that mode.
package linecomp

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/config"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/internal/dedup"
	"github.com/arloliu/linecomp/internal/options"
	"github.com/arloliu/linecomp/line"
	"github.com/arloliu/linecomp/page"
)

// Simulator runs traces through one codec and the page packer.
type Simulator struct {
	geom      line.Geometry
	quantizer *page.Quantizer
	policies  []page.Policy
	kind      format.CodecKind
	codecOpts []codec.Option
	baselines []format.CompressionType
	dedup     bool

	workers  int
	progress uint64
	logger   Logger
}

// NewSimulator builds a simulator from cfg.
//
// Parameters:
//   - cfg: run configuration; config.Default() when nil
//   - opts: overrides for logging, progress reporting and parallelism
//
// Returns:
//   - *Simulator: the simulator
//   - error: cfg failed validation or an option was rejected
func NewSimulator(cfg *config.Config, opts ...Option) (*Simulator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	geom, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	q, err := cfg.Quantizer()
	if err != nil {
		return nil, err
	}
	kind, codecOpts, err := cfg.CodecSetup()
	if err != nil {
		return nil, err
	}
	baselines, err := cfg.CompressionTypes()
	if err != nil {
		return nil, err
	}

	policies := cfg.PagePolicies()
	if len(policies) == 0 {
		policies = q.Policies()
	}

	s := &Simulator{
		geom:      geom,
		quantizer: q,
		policies:  policies,
		kind:      kind,
		codecOpts: codecOpts,
		baselines: baselines,
		dedup:     cfg.Dedup,
		workers:   cfg.Workers,
		progress:  cfg.ProgressInterval,
		logger:    NoopLogger{},
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Geometry returns the line geometry of the run.
func (s *Simulator) Geometry() line.Geometry { return s.geom }

// Policies returns the packing policies evaluated on every page.
func (s *Simulator) Policies() []page.Policy { return s.policies }

// Run processes sources and returns the merged result.
//
// Cancelling ctx stops the run at the next page boundary.
func (s *Simulator) Run(ctx context.Context, sources ...Source) (*Result, error) {
	if len(sources) == 0 {
		return nil, errors.New("no trace source given")
	}

	var tracker *dedup.Tracker
	if s.dedup {
		tracker = dedup.NewTracker()
	}

	if s.workers <= 1 || len(sources) == 1 {
		return s.runSequential(ctx, tracker, sources)
	}

	return s.runParallel(ctx, tracker, sources)
}

func (s *Simulator) runSequential(ctx context.Context, tracker *dedup.Tracker, sources []Source) (*Result, error) {
	w, err := s.newWorker(tracker)
	if err != nil {
		return nil, err
	}
	defer w.close()

	files := make([]FileResult, 0, len(sources))
	for _, src := range sources {
		fr, err := w.run(ctx, src)
		if err != nil {
			return nil, err
		}
		files = append(files, fr)
	}

	return s.collect(tracker, []*worker{w}, files), nil
}

func (s *Simulator) runParallel(ctx context.Context, tracker *dedup.Tracker, sources []Source) (*Result, error) {
	workers := make([]*worker, len(sources))
	files := make([]FileResult, len(sources))
	failures := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, src := range sources {
		g.Go(func() error {
			w, err := s.newWorker(tracker)
			if err != nil {
				return err
			}
			defer w.close()

			fr, err := w.run(gctx, src)
			if err != nil {
				// cancellation stops every worker; source errors are reported together
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				failures[i] = err

				return nil
			}
			workers[i] = w
			files[i] = fr

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merr *multierror.Error
	for _, err := range failures {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	return s.collect(tracker, workers, files), nil
}

// collect merges the worker totals in source order.
func (s *Simulator) collect(tracker *dedup.Tracker, workers []*worker, files []FileResult) *Result {
	res := &Result{
		CodecName: workers[0].codec.Name(),
		Kind:      s.kind,
		Geometry:  s.geom,
		PageBytes: s.quantizer.PageBytes(),
		Policies:  s.policies,
		Stats:     codec.NewStats(),
		Pages:     page.NewAccumulator(s.quantizer.PageBytes()),
		Baselines: newBaselineTotals(s.baselines),
		Files:     files,
	}

	for _, w := range workers {
		res.Stats.Merge(w.codec.Stats())
		res.Pages.Merge(w.packer.Accumulator())
		for i := range res.Baselines {
			res.Baselines[i].Merge(w.baselineTotals[i])
		}
		res.PendingLines += w.packer.Pending()
	}
	for _, f := range files {
		res.Lines += f.Lines
		res.TrailingBytes += f.TrailingBytes
	}
	if tracker != nil {
		counts := tracker.Counts()
		res.Dedup = &counts
	}

	return res
}
