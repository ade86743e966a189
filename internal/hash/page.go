// Package hash digests page images for duplicate detection.
package hash

import "github.com/cespare/xxhash/v2"

// Page returns the xxHash64 digest of a page image.
func Page(data []byte) uint64 {
	return xxhash.Sum64(data)
}
