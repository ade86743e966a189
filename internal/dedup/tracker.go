// Package dedup classifies page images as zero, duplicate or unique.
package dedup

import (
	"sync"

	"github.com/arloliu/linecomp/internal/hash"
	"github.com/arloliu/linecomp/internal/pool"
)

// Class is the verdict for one page.
type Class uint8

const (
	// Zero marks a page whose bytes are all zero.
	Zero Class = iota
	// Duplicate marks a non-zero page whose digest was seen before.
	Duplicate
	// Unique marks the first occurrence of a non-zero page.
	Unique
)

func (c Class) String() string {
	switch c {
	case Zero:
		return "zero"
	case Duplicate:
		return "duplicate"
	default:
		return "unique"
	}
}

// Counts summarizes the pages seen by a Tracker.
type Counts struct {
	Pages     uint64
	Zero      uint64
	Duplicate uint64
	Unique    uint64
}

// DuplicateFraction returns the share of pages a deduplicating store would
// not need to keep: zero pages and repeated pages.
func (c Counts) DuplicateFraction() float64 {
	if c.Pages == 0 {
		return 0
	}

	return float64(c.Zero+c.Duplicate) / float64(c.Pages)
}

// Tracker remembers the digest of every non-zero page it has seen.
//
// The counts do not depend on the order pages arrive in, so one Tracker may
// be shared by concurrent workers. It is safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	seen   map[uint64]struct{}
	counts Counts
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[uint64]struct{})}
}

// Track classifies one page image.
func (t *Tracker) Track(page []byte) Class {
	return t.TrackBuffer(&pool.PageBuffer{B: page})
}

// TrackBuffer classifies the page image held by pb.
func (t *Tracker) TrackBuffer(pb *pool.PageBuffer) Class {
	zero := pb.IsZero()

	var digest uint64
	if !zero {
		digest = hash.Page(pb.Bytes())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.track(digest, zero)
}

func (t *Tracker) track(digest uint64, zero bool) Class {
	t.counts.Pages++
	if zero {
		t.counts.Zero++
		return Zero
	}
	if _, ok := t.seen[digest]; ok {
		t.counts.Duplicate++
		return Duplicate
	}

	t.seen[digest] = struct{}{}
	t.counts.Unique++

	return Unique
}

// Counts returns a snapshot of the counters.
func (t *Tracker) Counts() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.counts
}

// Reset forgets every page.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.seen)
	t.counts = Counts{}
}
