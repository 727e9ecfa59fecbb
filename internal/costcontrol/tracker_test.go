package costcontrol

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Empty(t *testing.T) {
	tracker := NewTracker()
	assert.Equal(t, 0.0, tracker.Total())
	assert.Equal(t, 0, tracker.Sessions())
	assert.Empty(t, tracker.ByRole())
	assert.Empty(t, tracker.ByRig())
}

func TestTracker_GroupsByRoleAndRig(t *testing.T) {
	tracker := NewTracker()
	tracker.Record("mayor", "gasometer", 1.25)
	tracker.Record("polecat", "gasometer", 0.5)
	tracker.Record("polecat", "", 0.75)
	tracker.Record("unknown", "beads", 0.1)

	assert.InDelta(t, 2.6, tracker.Total(), 1e-9)
	assert.Equal(t, 4, tracker.Sessions())

	roles := tracker.ByRole()
	require.Len(t, roles, 3)
	assert.Equal(t, Breakdown{Name: "mayor", Cost: 1.25, Sessions: 1}, roles[0])
	assert.Equal(t, Breakdown{Name: "polecat", Cost: 1.25, Sessions: 2}, roles[1], "ties sort by name")
	assert.Equal(t, "unknown", roles[2].Name)

	rigs := tracker.ByRig()
	require.Len(t, rigs, 3)
	assert.Equal(t, "gasometer", rigs[0].Name)
	assert.Equal(t, 1.75, rigs[0].Cost)
	assert.Equal(t, NoRig, rigs[1].Name)
	assert.Equal(t, "beads", rigs[2].Name)
}

func TestTracker_SumIsExact(t *testing.T) {
	tracker := NewTracker()
	for i := 0; i < 10; i++ {
		tracker.Record("crew", "", 0.1)
	}
	// Decimal accumulation avoids float drift (0.1 * 10 == 1 exactly)
	assert.Equal(t, 1.0, tracker.Total())
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Record("witness", "longeye", 0.02)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, tracker.Sessions())
	assert.Equal(t, 1.0, tracker.Total())
	assert.Equal(t, 50, tracker.ByRole()[0].Sessions)
}
