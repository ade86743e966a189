// Package errs holds the sentinel errors shared across linecomp packages.
package errs

import "github.com/cockroachdb/errors"

var (
	// ErrNoData is returned by ratio computations when no line or page was seen.
	ErrNoData = errors.New("no data")
	// ErrEmptyPages is returned by page ratios when pages were seen but every
	// one of them packed to zero bits.
	ErrEmptyPages = errors.New("all pages empty")
	// ErrInvalidTable is returned for empty or non-ascending size-class tables.
	ErrInvalidTable = errors.New("invalid size-class table")
	// ErrInvalidPolicy is returned when a policy names a table that does not exist.
	ErrInvalidPolicy = errors.New("invalid packing policy")
	// ErrUnsupportedMode is returned for codec/mode combinations that have no cost model.
	ErrUnsupportedMode = errors.New("unsupported codec mode")
	// ErrLineSize is returned when a line does not match the configured geometry.
	ErrLineSize = errors.New("line size mismatch")
)
