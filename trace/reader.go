// Package trace reads memory traces: a flat concatenation of fixed-size cache
// lines with no header.
package trace

import (
	"bufio"
	"io"
	"iter"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/line"
)

const readBufferSize = 256 * 1024

// Reader yields the lines of a trace in file order.
//
// A trailing partial line is not an error: it is skipped and its size is
// reported by Trailing once the reader is exhausted.
type Reader struct {
	r        *bufio.Reader
	geom     line.Geometry
	order    line.ByteOrder
	buf      []byte
	count    uint64
	trailing int
	err      error
	done     bool
}

// NewReader returns a little-endian line reader over r.
func NewReader(r io.Reader, geom line.Geometry) *Reader {
	return NewReaderWithOrder(r, geom, line.LittleEndian())
}

// NewReaderWithOrder is like NewReader with an explicit byte order for the
// multi-byte line views.
func NewReaderWithOrder(r io.Reader, geom line.Geometry, order line.ByteOrder) *Reader {
	return &Reader{
		r:     bufio.NewReaderSize(r, readBufferSize),
		geom:  geom,
		order: order,
		buf:   make([]byte, geom.Bytes()),
	}
}

// Next returns the next line. The line shares the reader's buffer and is only
// valid until the following call. It returns false at the end of the trace or
// on a read error; see Err.
func (r *Reader) Next() (line.Line, bool) {
	if r.done {
		return line.Line{}, false
	}

	n, err := io.ReadFull(r.r, r.buf)
	switch {
	case err == nil:
		r.count++
		return line.NewWithOrder(r.buf, r.order), true
	case errors.Is(err, io.EOF):
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.trailing = n
	default:
		r.err = errors.Wrapf(err, "read line %d", r.count)
	}
	r.done = true

	return line.Line{}, false
}

// Lines returns an iterator over the remaining lines. Check Err after the
// loop.
func (r *Reader) Lines() iter.Seq[line.Line] {
	return func(yield func(line.Line) bool) {
		for {
			l, ok := r.Next()
			if !ok || !yield(l) {
				return
			}
		}
	}
}

// Err returns the first read error, if any. Reaching the end of the trace is
// not an error.
func (r *Reader) Err() error { return r.err }

// Count returns the number of complete lines read so far.
func (r *Reader) Count() uint64 { return r.count }

// Trailing returns the size in bytes of the ignored partial line at the end
// of the trace.
func (r *Reader) Trailing() int { return r.trailing }

// File is a Reader over an open trace file.
type File struct {
	*Reader
	f    *os.File
	size int64
}

// Open opens the trace at path.
func Open(path string, geom line.Geometry) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open trace")
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "stat trace %s", path)
	}

	return &File{Reader: NewReader(f, geom), f: f, size: info.Size()}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string { return f.f.Name() }

// Size returns the file size in bytes.
func (f *File) Size() int64 { return f.size }

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }
