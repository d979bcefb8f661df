package log

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// The buffer always returns the newest entries of everything added, in
// insertion order.
func TestRingBuffer_MatchesTailOfHistory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(-2, 8).Draw(t, "capacity")
		added := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,4}`), 0, 30).Draw(t, "added")
		n := rapid.IntRange(-1, 12).Draw(t, "n")

		b := NewRingBuffer(capacity)
		for _, e := range added {
			b.Add(e)
		}

		keep := min(len(added), max(capacity, 1))
		require.Equal(t, keep, b.Len())

		want := added[len(added)-keep:]
		if n < len(want) {
			want = want[len(want)-max(n, 0):]
		}
		if len(want) == 0 {
			want = nil
		}
		require.Equal(t, want, b.GetLast(n))
	})
}

func TestRingBuffer_Clear(t *testing.T) {
	b := NewRingBuffer(3)
	for i := range 5 {
		b.Add(fmt.Sprint(i))
	}
	b.Clear()
	require.Zero(t, b.Len())
	require.Nil(t, b.GetLast(3))

	b.Add("after")
	require.Equal(t, []string{"after"}, b.GetLast(3))
}

func TestRingBuffer_ConcurrentAdd(t *testing.T) {
	b := NewRingBuffer(50)
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				b.Add(fmt.Sprintf("%d-%d", w, i))
				_ = b.GetLast(5)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 50, b.Len())
}
