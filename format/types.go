package format

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

type (
	// CodecKind identifies one of the cache-line codecs.
	CodecKind uint8
	// DiffMode selects the word transform applied by the stateful bit-plane codecs.
	DiffMode uint8
	// PlaneMode selects which words are transposed into bit-planes.
	PlaneMode uint8
	// CodeMode selects the entropy cost model of the stateful bit-plane codecs.
	CodeMode uint8
	// CompressionType identifies a general-purpose baseline page compressor.
	CompressionType uint8
)

const (
	CodecBD    CodecKind = 0x1 // CodecBD represents base-delta over qword bases.
	CodecBDI   CodecKind = 0x2 // CodecBDI represents base-delta-immediate.
	CodecBP    CodecKind = 0x3 // CodecBP represents 32-bit bit-plane compression.
	CodecBP64  CodecKind = 0x4 // CodecBP64 represents 64-bit bit-plane compression.
	CodecBPS   CodecKind = 0x5 // CodecBPS represents stateful bit-plane compression.
	CodecBPS64 CodecKind = 0x6 // CodecBPS64 represents stateful bit-plane compression with coalesced zero words.
	CodecCPack CodecKind = 0x7 // CodecCPack represents dictionary-based C-Pack.
	CodecFPC   CodecKind = 0x8 // CodecFPC represents frequent pattern compression.
)

const (
	DiffRaw         DiffMode = 0 // DiffRaw passes words through unchanged.
	DiffDelta       DiffMode = 1 // DiffDelta subtracts the previous word in stream order.
	DiffXOR         DiffMode = 2 // DiffXOR xors with the previous word in stream order.
	DiffBlockDelta  DiffMode = 3 // DiffBlockDelta subtracts the current line from the previous line.
	DiffDeltaDelta  DiffMode = 4 // DiffDeltaDelta takes the delta of consecutive stream deltas.
	DiffIntraDelta  DiffMode = 5 // DiffIntraDelta subtracts the previous word of the same line.
	DiffIntraDelta2 DiffMode = 6 // DiffIntraDelta2 subtracts the word two slots back in the same line.
)

const (
	PlaneNone         PlaneMode = 0 // PlaneNone disables transposition.
	PlaneBP           PlaneMode = 1 // PlaneBP transposes every word.
	PlaneDBX          PlaneMode = 2 // PlaneDBX transposes every word (DBX coding).
	PlaneDBX2         PlaneMode = 3 // PlaneDBX2 transposes every word (second DBX variant).
	PlaneDBXSkipFirst PlaneMode = 4 // PlaneDBXSkipFirst transposes words 1..n-1.
)

const (
	CodePaper  CodeMode = 10 // CodePaper is the published BPC cost model.
	CodePaper2 CodeMode = 11 // CodePaper2 is the retuned cost model with a leading word cost.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

var codecNames = map[CodecKind]string{
	CodecBD:    "BD",
	CodecBDI:   "BDI",
	CodecBP:    "BP",
	CodecBP64:  "BP64",
	CodecBPS:   "BPS",
	CodecBPS64: "BPS64",
	CodecCPack: "CPack",
	CodecFPC:   "FPC",
}

var diffNames = map[DiffMode]string{
	DiffRaw:         "raw",
	DiffDelta:       "delta",
	DiffXOR:         "xor",
	DiffBlockDelta:  "block-delta",
	DiffDeltaDelta:  "delta-delta",
	DiffIntraDelta:  "intra-delta",
	DiffIntraDelta2: "intra-delta2",
}

var planeNames = map[PlaneMode]string{
	PlaneNone:         "none",
	PlaneBP:           "bp",
	PlaneDBX:          "dbx",
	PlaneDBX2:         "dbx2",
	PlaneDBXSkipFirst: "dbx-skip-first",
}

var codeNames = map[CodeMode]string{
	CodePaper:  "paper",
	CodePaper2: "paper2",
}

var compressionNames = map[CompressionType]string{
	CompressionNone: "None",
	CompressionZstd: "Zstd",
	CompressionS2:   "S2",
	CompressionLZ4:  "LZ4",
}

// CodecKinds returns every codec kind in declaration order.
func CodecKinds() []CodecKind {
	return []CodecKind{CodecBD, CodecBDI, CodecBP, CodecBP64, CodecBPS, CodecBPS64, CodecCPack, CodecFPC}
}

func (k CodecKind) String() string {
	if name, ok := codecNames[k]; ok {
		return name
	}

	return "Unknown"
}

func (m DiffMode) String() string {
	if name, ok := diffNames[m]; ok {
		return name
	}

	return "unknown"
}

func (m PlaneMode) String() string {
	if name, ok := planeNames[m]; ok {
		return name
	}

	return "unknown"
}

func (m CodeMode) String() string {
	if name, ok := codeNames[m]; ok {
		return name
	}

	return "unknown"
}

func (c CompressionType) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}

	return "Unknown"
}

// ParseCodecKind parses a codec name, ignoring case.
func ParseCodecKind(s string) (CodecKind, error) {
	return parseName(codecNames, s, "codec")
}

// ParseDiffMode parses a diff mode by name or by its numeric value.
func ParseDiffMode(s string) (DiffMode, error) {
	return parseName(diffNames, s, "diff mode")
}

// ParsePlaneMode parses a plane mode by name or by its numeric value.
func ParsePlaneMode(s string) (PlaneMode, error) {
	return parseName(planeNames, s, "plane mode")
}

// ParseCodeMode parses a code mode by name or by its numeric value.
func ParseCodeMode(s string) (CodeMode, error) {
	return parseName(codeNames, s, "code mode")
}

// ParseCompressionType parses a baseline compression name, ignoring case.
func ParseCompressionType(s string) (CompressionType, error) {
	return parseName(compressionNames, s, "compression")
}

func parseName[T ~uint8](names map[T]string, s string, what string) (T, error) {
	s = strings.TrimSpace(s)
	for v, name := range names {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}

	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		if _, ok := names[T(n)]; ok {
			return T(n), nil
		}
	}

	return 0, errors.Newf("unknown %s: %q", what, s)
}
