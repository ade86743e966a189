// Package compress provides the general-purpose page compressors that serve
// as baselines next to the cache-line codecs.
//
// A baseline sees a whole page image at once, so it can exploit redundancy
// across lines that no line codec can reach. Comparing the two tells how much
// of a trace's compressibility is local to a line.
//
// Supported algorithms:
//   - None (format.CompressionNone): the page is stored as is
//   - Zstd (format.CompressionZstd): klauspost/compress/zstd with pooled encoders
//   - S2 (format.CompressionS2): klauspost/compress/s2 block format
//   - LZ4 (format.CompressionLZ4): pierrec/lz4/v4 block format with pooled compressors
//
// Every codec is stateless from the caller's view and safe for concurrent use.
//
// Example:
//
//	c, err := compress.CreateCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	bits, err := compress.PageBits(c, page)
package compress
