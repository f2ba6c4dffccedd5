package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridex/nodenator/internal/testutil"
)

func TestLogicalClock_ContinuesAfterStart(t *testing.T) {
	tests := []struct {
		name  string
		clock *LogicalClock
		want  []int64
	}{
		{"fresh log", NewClock(), []int64{1, 2, 3}},
		{"after recorded run", NewClockAt(13), []int64{14, 15, 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := tt.clock.Current()
			got := make([]int64, 0, len(tt.want))
			for range tt.want {
				got = append(got, tt.clock.Next())
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, start+int64(len(tt.want)), tt.clock.Current())
			assert.Equal(t, tt.clock.Current(), tt.clock.Current(), "Current must not advance")
		})
	}
}

func TestLogicalClock_ConcurrentStampsAreUnique(t *testing.T) {
	c := NewClockAt(500)
	const workers, perWorker = 32, 64

	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				seq := c.Next()
				mu.Lock()
				seen[seq] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(500+workers*perWorker), c.Current())
	for seq := range seen {
		assert.Greater(t, seq, int64(500))
	}
}

func TestClock_Implementations(t *testing.T) {
	var _ Clock = NewClock()
	var _ Clock = testutil.NewDeterministicClock()
}
