package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

// Outcome is the result of encoding one line.
type Outcome struct {
	// Length is the encoded size of the line in bits.
	Length int
	// Patterns lists every pattern identifier that fired while encoding the
	// line, in firing order. The slice is owned by the codec and is only valid
	// until its next Encode or CompressLine call.
	Patterns []int64
}

// Codec estimates the compressed size of cache lines.
//
// A codec never fails on line content: every classification chain ends in a
// fallback, so the returned length is always at most MaxBits. A line whose
// size differs from the codec geometry is a programming error and panics.
//
// Codecs are single-owner and not safe for concurrent use.
type Codec interface {
	// Name returns the display name used in reports.
	Name() string
	// Kind returns the codec kind.
	Kind() format.CodecKind
	// Geometry returns the line geometry the codec was built for.
	Geometry() line.Geometry
	// CompressLine returns the encoded size of l in bits and updates statistics.
	CompressLine(l line.Line) int
	// Encode is CompressLine that also reports the patterns that fired.
	Encode(l line.Line) Outcome
	// Reset clears statistics and any state carried between lines.
	Reset()
	// Stats returns the codec statistics.
	Stats() *Stats
	// MaxBits returns an upper bound of every length the codec returns.
	MaxBits() int
}

// base carries what every codec shares: identity, geometry and statistics.
type base struct {
	name  string
	kind  format.CodecKind
	geom  line.Geometry
	stats *Stats
	fired []int64
}

func newBase(kind format.CodecKind, geom line.Geometry, name string) base {
	if name == "" {
		name = kind.String()
	}

	return base{
		name:  name,
		kind:  kind,
		geom:  geom,
		stats: NewStats(),
		fired: make([]int64, 0, geom.DWords()+2),
	}
}

// Name returns the display name.
func (b *base) Name() string { return b.name }

// Kind returns the codec kind.
func (b *base) Kind() format.CodecKind { return b.kind }

// Geometry returns the line geometry the codec was built for.
func (b *base) Geometry() line.Geometry { return b.geom }

// Stats returns the live statistics; Reset clears them in place.
func (b *base) Stats() *Stats { return b.stats }

func (b *base) begin(l line.Line) {
	if l.Len() != b.geom.Bytes() {
		panic(errors.Wrapf(errs.ErrLineSize, "%s: got %d bytes, want %d", b.name, l.Len(), b.geom.Bytes()))
	}
	b.fired = b.fired[:0]
}

func (b *base) pattern(id int64) {
	b.fired = append(b.fired, id)
	b.stats.recordPattern(id)
}

func (b *base) finish(length int) Outcome {
	b.stats.recordLength(length)

	return Outcome{Length: length, Patterns: b.fired}
}

// New creates a codec of the given kind for lines of geometry geom.
//
// Parameters:
//   - kind: codec to create
//   - geom: line geometry; BPS64 requires 512-bit lines
//   - opts: diff, plane and code modes and the line table of the stateful
//     bit-plane codecs, and an optional display name
//
// Returns:
//   - Codec: the codec
//   - error: unknown kind, invalid option or unsupported mode combination
func New(kind format.CodecKind, geom line.Geometry, opts ...Option) (Codec, error) {
	if geom.IsZero() {
		return nil, errors.New("codec geometry is not set")
	}

	cfg, err := newConfig(kind, opts...)
	if err != nil {
		return nil, err
	}

	switch kind {
	case format.CodecBD:
		return NewBD(geom, cfg.name), nil
	case format.CodecBDI:
		return NewBDI(geom, cfg.name), nil
	case format.CodecBP:
		return NewBP(geom, cfg.name), nil
	case format.CodecBP64:
		return NewBP64(geom, cfg.name), nil
	case format.CodecBPS:
		return NewBPS(geom, cfg)
	case format.CodecBPS64:
		return NewBPS64(geom, cfg)
	case format.CodecCPack:
		return NewCPack(geom, cfg.name), nil
	case format.CodecFPC:
		return NewFPC(geom, cfg.name), nil
	default:
		return nil, errors.Newf("invalid codec kind: %s", kind)
	}
}
