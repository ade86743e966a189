package compress

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/format"
)

// Compressor compresses one page image.
//
// The returned slice is owned by the caller. The input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a page image produced by the matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec returns a new codec for the given compression type.
//
// Parameters:
//   - compressionType: None, Zstd, S2 or LZ4
//
// Returns:
//   - Codec: the codec
//   - error: unknown compression type
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, errors.Newf("invalid baseline compression: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if c, ok := builtinCodecs[compressionType]; ok {
		return c, nil
	}

	return nil, errors.Newf("unsupported baseline compression: %s", compressionType)
}

// PageBits compresses page with c and returns the stored size in bits.
// A page that does not shrink is stored raw, so the result never exceeds
// len(page)*8.
func PageBits(c Compressor, page []byte) (int, error) {
	if len(page) == 0 {
		return 0, nil
	}

	compressed, err := c.Compress(page)
	if err != nil {
		return 0, errors.Wrap(err, "compress page")
	}

	return min(len(compressed), len(page)) * 8, nil
}

// Totals accumulates the output of one baseline over many pages.
type Totals struct {
	Algorithm         format.CompressionType
	Pages             uint64
	UncompressedBytes uint64
	CompressedBits    uint64
}

// Add records one page of pageBytes stored in bits.
func (t *Totals) Add(pageBytes, bits int) {
	t.Pages++
	t.UncompressedBytes += uint64(pageBytes)
	t.CompressedBits += uint64(bits)
}

// Merge adds the counts of o into t.
func (t *Totals) Merge(o Totals) {
	t.Pages += o.Pages
	t.UncompressedBytes += o.UncompressedBytes
	t.CompressedBits += o.CompressedBits
}

// Ratio returns uncompressed bits over compressed bits, or 0 when nothing
// was compressed.
func (t Totals) Ratio() float64 {
	if t.CompressedBits == 0 {
		return 0
	}

	return float64(t.UncompressedBytes*8) / float64(t.CompressedBits)
}

// SpaceSavings returns the saved fraction of the input as a percentage.
func (t Totals) SpaceSavings() float64 {
	if t.UncompressedBytes == 0 {
		return 0
	}

	return (1 - float64(t.CompressedBits)/float64(t.UncompressedBytes*8)) * 100
}
