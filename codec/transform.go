package codec

import (
	"github.com/arloliu/linecomp/format"
)

// diffState is the history a stateful diff mode carries from one line to the
// next. The zero value, with prevLine sized to the line, is the reset state.
type diffState struct {
	prevData  uint32
	prevDelta uint32
	prevLine  []uint32
}

func newDiffState(words int) diffState {
	return diffState{prevLine: make([]uint32, words)}
}

func (s diffState) reset() diffState {
	clear(s.prevLine)

	return diffState{prevLine: s.prevLine}
}

// next transforms the words of one line into out and returns the state for
// the following line. The prevLine buffer is carried over and overwritten.
func (s diffState) next(mode format.DiffMode, cur, out []uint32) diffState {
	switch mode {
	case format.DiffDelta:
		for i, w := range cur {
			out[i] = w - s.prevData
			s.prevData = w
		}
	case format.DiffXOR:
		for i, w := range cur {
			out[i] = w ^ s.prevData
			s.prevData = w
		}
	case format.DiffBlockDelta:
		for i, w := range cur {
			out[i] = s.prevLine[i] - w
		}
		copy(s.prevLine, cur)
	case format.DiffDeltaDelta:
		for i, w := range cur {
			delta := w - s.prevData
			out[i] = s.prevDelta - delta
			s.prevData = w
			s.prevDelta = delta
		}
	case format.DiffIntraDelta:
		out[0] = cur[0]
		for i := 1; i < len(cur); i++ {
			out[i] = cur[i] - cur[i-1]
		}
	case format.DiffIntraDelta2:
		out[0] = cur[0]
		if len(cur) > 1 {
			out[1] = cur[1] - cur[0]
		}
		for i := 2; i < len(cur); i++ {
			out[i] = cur[i] - cur[i-2]
		}
	default:
		copy(out, cur)
	}

	return s
}
