package activity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_OverlappingOperations(t *testing.T) {
	tr := NewTracker(nil)
	assert.False(t, tr.Busy())

	doneCatalog := tr.Begin()
	doneList := tr.Begin()
	assert.Equal(t, 2, tr.Count())

	doneCatalog()
	assert.True(t, tr.Busy(), "still busy while one call is in flight")

	doneList()
	assert.False(t, tr.Busy())
}

func TestTracker_DoneIsIdempotent(t *testing.T) {
	tr := NewTracker(nil)
	done := tr.Begin()
	other := tr.Begin()

	done()
	done()
	assert.Equal(t, 1, tr.Count())

	other()
	assert.Equal(t, 0, tr.Count())
}

func TestTracker_OnChangeEdges(t *testing.T) {
	var edges []bool
	tr := NewTracker(func(busy bool) { edges = append(edges, busy) })

	a := tr.Begin()
	b := tr.Begin()
	a()
	b()

	assert.Equal(t, []bool{true, false}, edges)
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := tr.Begin()
			done()
		}()
	}
	wg.Wait()
	assert.False(t, tr.Busy())
}

func TestTracker_ConcurrentEdgesAlternate(t *testing.T) {
	for run := 0; run < 200; run++ {
		var edges []bool
		tr := NewTracker(func(busy bool) { edges = append(edges, busy) })

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				done := tr.Begin()
				done()
			}()
		}
		wg.Wait()

		require.NotEmpty(t, edges)
		for i, busy := range edges {
			require.Equal(t, i%2 == 0, busy, "edge %d of run %d out of order: %v", i, run, edges)
		}
		assert.False(t, edges[len(edges)-1])
	}
}

func TestMounted(t *testing.T) {
	assert.True(t, Mounted(context.Background()))

	m := NewMount()
	ctx := WithMount(context.Background(), m)
	assert.True(t, Mounted(ctx))

	m.Unmount()
	assert.False(t, Mounted(ctx))
}
