package codec

import (
	"math/rand/v2"

	"github.com/arloliu/linecomp/line"
)

var (
	geom512  = line.MustGeometry(512)
	geom1024 = line.MustGeometry(1024)
)

// dwordLine builds a line of g with the given leading dwords, zero padded.
func dwordLine(g line.Geometry, words ...uint32) line.Line {
	padded := make([]uint32, g.DWords())
	copy(padded, words)

	return line.FromDWords(padded...)
}

// qwordLine builds a line of g with the given leading qwords, zero padded.
func qwordLine(g line.Geometry, words ...uint64) line.Line {
	padded := make([]uint64, g.QWords())
	copy(padded, words)

	return line.FromQWords(padded...)
}

func zeroLine(g line.Geometry) line.Line {
	return line.New(make([]byte, g.Bytes()))
}

func randomLines(g line.Geometry, n int, seed uint64) []line.Line {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	lines := make([]line.Line, n)
	for i := range lines {
		words := make([]uint64, g.QWords())
		for j := range words {
			words[j] = rng.Uint64()
		}
		lines[i] = line.FromQWords(words...)
	}

	return lines
}

// mixedLines returns lines that exercise many classification paths: zero,
// repeated, small deltas, sparse and random content.
func mixedLines(g line.Geometry) []line.Line {
	n := g.DWords()
	lines := []line.Line{zeroLine(g)}

	rep := make([]uint32, n)
	ramp := make([]uint32, n)
	down := make([]uint32, n)
	sparse := make([]uint32, n)
	for i := range n {
		rep[i] = 0xcafebabe
		ramp[i] = 1000 + uint32(i)*3
		down[i] = 0x80000000 - uint32(i)*7
		if i%5 == 0 {
			sparse[i] = uint32(i) << 20
		}
	}
	lines = append(lines,
		line.FromDWords(rep...),
		line.FromDWords(ramp...),
		line.FromDWords(down...),
		line.FromDWords(sparse...),
	)

	return append(lines, randomLines(g, 8, 42)...)
}

func lengths(c Codec, lines []line.Line) []int {
	out := make([]int, len(lines))
	for i, l := range lines {
		out[i] = c.CompressLine(l)
	}

	return out
}
