package linecomp

import (
	"io"
	"iter"

	"github.com/arloliu/linecomp/line"
	"github.com/arloliu/linecomp/trace"
)

// LineReader yields the lines of one opened source.
type LineReader interface {
	// Lines returns an iterator over the complete lines of the source.
	Lines() iter.Seq[line.Line]
	// Err returns the read error that ended the iteration, if any.
	Err() error
	// Trailing returns the size in bytes of the ignored partial line.
	Trailing() int
	io.Closer
}

// Source is a named trace that can be opened for one pass.
type Source interface {
	Name() string
	Open(geom line.Geometry) (LineReader, error)
}

type fileSource string

// FileSource returns a source reading the trace file at path.
func FileSource(path string) Source { return fileSource(path) }

// FileSources returns one FileSource per path, in order.
func FileSources(paths ...string) []Source {
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = FileSource(p)
	}

	return sources
}

func (f fileSource) Name() string { return string(f) }

func (f fileSource) Open(geom line.Geometry) (LineReader, error) {
	tf, err := trace.Open(string(f), geom)
	if err != nil {
		return nil, err
	}

	return tf, nil
}

type readerSource struct {
	name string
	r    io.Reader
}

// ReaderSource returns a source over r. It can only be opened once; closing
// it does not close r.
func ReaderSource(name string, r io.Reader) Source {
	return &readerSource{name: name, r: r}
}

func (s *readerSource) Name() string { return s.name }

func (s *readerSource) Open(geom line.Geometry) (LineReader, error) {
	return nopCloser{trace.NewReader(s.r, geom)}, nil
}

type nopCloser struct {
	*trace.Reader
}

func (nopCloser) Close() error { return nil }
