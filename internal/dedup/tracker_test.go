package dedup

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/linecomp/internal/pool"
)

func page(fill byte) []byte {
	p := make([]byte, 4096)
	for i := range p {
		p[i] = fill
	}

	return p
}

func TestTracker_Track(t *testing.T) {
	tr := NewTracker()

	require.Equal(t, Zero, tr.Track(page(0)))
	require.Equal(t, Unique, tr.Track(page(1)))
	require.Equal(t, Duplicate, tr.Track(page(1)))
	require.Equal(t, Unique, tr.Track(page(2)))
	require.Equal(t, Zero, tr.Track(page(0)))

	require.Equal(t, Counts{Pages: 5, Zero: 2, Duplicate: 1, Unique: 2}, tr.Counts())
	require.InDelta(t, 0.6, tr.Counts().DuplicateFraction(), 1e-9)

	tr.Reset()
	require.Equal(t, Counts{}, tr.Counts())
	require.Equal(t, Unique, tr.Track(page(1)))
	require.Zero(t, Counts{}.DuplicateFraction())
}

func TestTracker_OrderIndependentCounts(t *testing.T) {
	pages := [][]byte{page(0), page(3), page(3), page(4), page(0), page(3)}
	want := Counts{Pages: 6, Zero: 2, Duplicate: 2, Unique: 2}

	tr := NewTracker()
	var wg sync.WaitGroup
	for _, p := range pages {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Track(p)
		}()
	}
	wg.Wait()
	require.Equal(t, want, tr.Counts())
}

func TestClass_String(t *testing.T) {
	require.Equal(t, "zero", Zero.String())
	require.Equal(t, "duplicate", Duplicate.String())
	require.Equal(t, "unique", Unique.String())
}

func TestTracker_TrackBuffer(t *testing.T) {
	tr := NewTracker()

	pb := pool.GetPageBuffer()
	defer pool.PutPageBuffer(pb)

	_, _ = pb.Write(page(0))
	require.Equal(t, Zero, tr.TrackBuffer(pb))

	pb.Reset()
	_, _ = pb.Write(page(7))
	require.Equal(t, Unique, tr.TrackBuffer(pb))
	require.Equal(t, Duplicate, tr.Track(page(7)))

	// a partially filled page is still classified by its bytes
	pb.Reset()
	_, _ = pb.Write([]byte{0, 0, 0})
	require.Equal(t, Zero, tr.TrackBuffer(pb))

	require.Equal(t, Counts{Pages: 4, Zero: 2, Duplicate: 1, Unique: 1}, tr.Counts())
}
