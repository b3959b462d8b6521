package status

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReturnsZeroOutcomeBeforeFirstCycle(t *testing.T) {
	store := NewStore([]string{"c1"})

	outcome := store.Get("c1")
	assert.True(t, outcome.OK())
	assert.Empty(t, outcome.Message)
	assert.True(t, outcome.Timestamp.IsZero())
}

func TestStoreReturnsZeroOutcomeForUnknownName(t *testing.T) {
	store := NewStore(nil)

	assert.True(t, store.Get("nope").OK())
}

func TestStoreUpdateReplacesEntry(t *testing.T) {
	store := NewStore([]string{"c1"})

	store.Update("c1", Error("c1 error: boom"))
	outcome := store.Get("c1")

	require.False(t, outcome.OK())
	assert.Equal(t, "c1 error: boom", outcome.Message)
	assert.False(t, outcome.Timestamp.IsZero())
}

func TestStoreSnapshotHonorsExclusion(t *testing.T) {
	store := NewStore([]string{"c1", "c2", "c3"})
	store.Update("c2", Error("boom"))

	snapshot := store.Snapshot(map[string]struct{}{"c2": {}})

	require.Len(t, snapshot, 2)
	assert.Contains(t, snapshot, "c1")
	assert.Contains(t, snapshot, "c3")
	assert.NotContains(t, snapshot, "c2")
}

func TestStoreTimestampsAreMonotone(t *testing.T) {
	store := NewStore([]string{"c1"})

	var last time.Time
	for i := 0; i < 10; i++ {
		store.Update("c1", OK(""))

		current := store.Get("c1").Timestamp
		assert.False(t, current.Before(last))
		last = current
	}
}

func TestStoreConcurrentReadersAndWriters(t *testing.T) {
	store := NewStore([]string{"c1", "c2"})

	wg := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Update("c1", OK("detail"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snapshot := store.Snapshot(nil)
				outcome := snapshot["c1"]
				if outcome.Message != "" {
					// entries are replaced wholesale; a message implies
					// a complete, untorn outcome
					assert.Equal(t, "detail", outcome.Message)
				}
			}
		}()
	}
	wg.Wait()
}
