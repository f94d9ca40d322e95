package ids

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_MonotonicWithinMillisecond(t *testing.T) {
	g := NewGenerator()
	now := time.Now()

	var prev string
	for i := 0; i < 100; i++ {
		id, err := g.New(now)
		require.NoError(t, err)
		assert.Len(t, id, 26)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestGenerator_ConcurrentUnique(t *testing.T) {
	g := NewGenerator()
	now := time.Now()

	var (
		mu   sync.Mutex
		seen = make([]string, 0, 200)
		wg   sync.WaitGroup
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := g.New(now)
			assert.NoError(t, err)
			mu.Lock()
			seen = append(seen, id)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Strings(seen)
	for i := 1; i < len(seen); i++ {
		assert.NotEqual(t, seen[i-1], seen[i])
	}
}
