package linecomp

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/compress"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/internal/dedup"
	"github.com/arloliu/linecomp/internal/pool"
	"github.com/arloliu/linecomp/page"
)

// worker owns one codec and one packer and is not safe for concurrent use.
//
// Codec state and the partially filled page survive from one run call to the
// next, which is what lets a sequential run treat its sources as one stream.
type worker struct {
	sim     *Simulator
	codec   codec.Codec
	packer  *page.Packer
	tracker *dedup.Tracker

	// image collects the raw bytes of the current page; nil when neither the
	// baselines nor the tracker need them.
	image          *pool.PageBuffer
	baselines      []compress.Compressor
	baselineTotals []compress.Totals

	lines uint64
}

func (s *Simulator) newWorker(tracker *dedup.Tracker) (*worker, error) {
	c, err := codec.New(s.kind, s.geom, s.codecOpts...)
	if err != nil {
		return nil, err
	}
	packer, err := page.NewPacker(s.quantizer, s.geom.Bits(), s.policies...)
	if err != nil {
		return nil, err
	}

	w := &worker{
		sim:            s,
		codec:          c,
		packer:         packer,
		tracker:        tracker,
		baselineTotals: newBaselineTotals(s.baselines),
	}
	for _, typ := range s.baselines {
		bc, err := compress.GetCodec(typ)
		if err != nil {
			return nil, err
		}
		w.baselines = append(w.baselines, bc)
	}
	if len(w.baselines) > 0 || tracker != nil {
		w.image = pool.GetPageBuffer()
	}

	return w, nil
}

// close releases the page buffer. Codec statistics and totals stay readable.
func (w *worker) close() {
	if w.image != nil {
		pool.PutPageBuffer(w.image)
		w.image = nil
	}
}

// run feeds every line of src through the codec and the packer.
func (w *worker) run(ctx context.Context, src Source) (FileResult, error) {
	fr := FileResult{
		Name:   src.Name(),
		Totals: page.NewAccumulator(w.sim.quantizer.PageBytes()),
	}
	if err := ctx.Err(); err != nil {
		return fr, err
	}

	r, err := src.Open(w.sim.geom)
	if err != nil {
		return fr, errors.Wrapf(err, "source %s", fr.Name)
	}
	defer r.Close()

	for l := range r.Lines() {
		length := w.codec.CompressLine(l)
		fr.Lines++
		w.lines++
		if w.image != nil {
			_, _ = w.image.Write(l.Bytes())
		}
		if w.sim.progress > 0 && w.lines%w.sim.progress == 0 {
			w.sim.logger.Infof("%s: %d lines processed", fr.Name, w.lines)
		}

		if !w.packer.Add(length) {
			continue
		}

		fr.Pages++
		for i, p := range w.packer.Policies() {
			fr.Totals.Add(p, w.packer.LastPage()[i])
		}
		if err := w.finishPage(); err != nil {
			return fr, errors.Wrapf(err, "source %s", fr.Name)
		}
		if err := ctx.Err(); err != nil {
			return fr, err
		}
	}
	if err := r.Err(); err != nil {
		return fr, errors.Wrapf(err, "source %s", fr.Name)
	}

	fr.TrailingBytes = r.Trailing()
	if fr.TrailingBytes > 0 {
		w.sim.logger.Infof("%s: ignoring %d trailing bytes", fr.Name, fr.TrailingBytes)
	}
	w.sim.logger.Infof("%s: %d lines, %d pages, %d lines pending", fr.Name, fr.Lines, fr.Pages, w.packer.Pending())

	return fr, nil
}

// finishPage hands the completed page image to the baselines and the
// duplicate tracker.
func (w *worker) finishPage() error {
	if w.image == nil {
		return nil
	}
	defer w.image.Reset()

	img := w.image.Bytes()
	for i, bc := range w.baselines {
		bits, err := compress.PageBits(bc, img)
		if err != nil {
			return errors.Wrapf(err, "baseline %s", w.baselineTotals[i].Algorithm)
		}
		w.baselineTotals[i].Add(len(img), bits)
	}
	if w.tracker != nil {
		w.tracker.TrackBuffer(w.image)
	}

	return nil
}

func newBaselineTotals(types []format.CompressionType) []compress.Totals {
	totals := make([]compress.Totals, len(types))
	for i, typ := range types {
		totals[i].Algorithm = typ
	}

	return totals
}
