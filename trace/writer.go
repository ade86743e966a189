package trace

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/line"
)

// WriteLines appends the raw bytes of lines to w, producing a trace that
// Reader reads back line for line.
func WriteLines(w io.Writer, lines ...line.Line) error {
	for i, l := range lines {
		if _, err := w.Write(l.Bytes()); err != nil {
			return errors.Wrapf(err, "write line %d", i)
		}
	}

	return nil
}
