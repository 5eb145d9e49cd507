// ABOUTME: Tests for the event ID tracker
// ABOUTME: Validates dedup, TTL expiry, capacity eviction, and atomicity

package dedupe

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Observe_NewEvent(t *testing.T) {
	tr := NewTracker(5*time.Minute, 100)
	defer tr.Close()

	assert.True(t, tr.Observe("$evt1"), "first sighting should be new")
}

func TestTracker_Observe_Duplicate(t *testing.T) {
	tr := NewTracker(5*time.Minute, 100)
	defer tr.Close()

	assert.True(t, tr.Observe("$evt1"))
	assert.False(t, tr.Observe("$evt1"), "second sighting should be a duplicate")
	assert.False(t, tr.Observe("$evt1"))
}

func TestTracker_Observe_DistinctEvents(t *testing.T) {
	tr := NewTracker(5*time.Minute, 100)
	defer tr.Close()

	assert.True(t, tr.Observe("$evt1"))
	assert.True(t, tr.Observe("$evt2"))
	assert.True(t, tr.Observe("$evt3"))
}

func TestTracker_Observe_ExpiredIsNewAgain(t *testing.T) {
	tr := NewTracker(10*time.Millisecond, 100)
	defer tr.Close()

	assert.True(t, tr.Observe("$evt1"))

	time.Sleep(20 * time.Millisecond)

	assert.True(t, tr.Observe("$evt1"), "an expired event should count as new")
}

func TestTracker_Observe_DuplicateRefreshesWindow(t *testing.T) {
	tr := NewTracker(50*time.Millisecond, 100)
	defer tr.Close()

	assert.True(t, tr.Observe("$evt1"))

	time.Sleep(30 * time.Millisecond)
	assert.False(t, tr.Observe("$evt1"), "still inside the window")

	// Past the original deadline but inside the refreshed one.
	time.Sleep(30 * time.Millisecond)
	assert.False(t, tr.Observe("$evt1"), "the duplicate sighting should have refreshed the window")
}

func TestTracker_CapacityEviction(t *testing.T) {
	tr := NewTracker(5*time.Minute, 3)
	defer tr.Close()

	tr.Observe("$evt1")
	tr.Observe("$evt2")
	tr.Observe("$evt3")
	tr.Observe("$evt4")

	assert.True(t, tr.Observe("$evt1"), "oldest event should have been evicted at capacity")
}

func TestTracker_DropExpired(t *testing.T) {
	tr := NewTracker(10*time.Millisecond, 100)
	defer tr.Close()

	tr.Observe("$evt1")
	tr.Observe("$evt2")
	tr.Observe("$evt3")

	time.Sleep(20 * time.Millisecond)
	tr.dropExpired()

	tr.mu.Lock()
	remaining := len(tr.seen)
	tr.mu.Unlock()
	assert.Equal(t, 0, remaining, "sweep should drop all expired entries")
}

func TestTracker_Observe_Atomic(t *testing.T) {
	tr := NewTracker(5*time.Minute, 100)
	defer tr.Close()

	const goroutines = 100

	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if tr.Observe("$contested") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins, "exactly one observer should see the event as new")
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(5*time.Minute, 1000)
	defer tr.Close()

	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				tr.Observe(fmt.Sprintf("$evt-%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, tr.Observe("$after"), "tracker should still work after concurrent load")
}

func TestTracker_Close_Idempotent(t *testing.T) {
	tr := NewTracker(5*time.Minute, 100)

	tr.Close()
	tr.Close()
}

func TestTracker_Defaults(t *testing.T) {
	tr := NewTracker(0, 0)
	defer tr.Close()

	assert.True(t, tr.Observe("$evt1"))
	assert.False(t, tr.Observe("$evt1"))
}
