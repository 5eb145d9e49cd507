// ABOUTME: Bounded TTL tracker for chat event IDs already processed
// ABOUTME: Stops redelivered sync events from double-firing commands

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

const (
	defaultTTL      = 5 * time.Minute
	defaultCapacity = 1024
)

type entry struct {
	at   time.Time
	elem *list.Element
}

// Tracker remembers recently observed event IDs. It is bounded both by
// age and by size so a long-running bot cannot grow without limit.
// Entries are kept oldest-first in a list for O(1) eviction.
type Tracker struct {
	mu    sync.Mutex
	seen  map[string]*entry
	order *list.List // event IDs, oldest at front
	ttl   time.Duration
	cap   int
	done  chan struct{}
	once  sync.Once
}

// NewTracker creates a Tracker and starts its background sweep.
// Non-positive arguments fall back to defaults.
func NewTracker(ttl time.Duration, capacity int) *Tracker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	t := &Tracker{
		seen:  make(map[string]*entry),
		order: list.New(),
		ttl:   ttl,
		cap:   capacity,
		done:  make(chan struct{}),
	}
	go t.sweep()
	return t
}

// Observe reports whether eventID is new, recording it either way.
// A false return means the event was already seen within the window
// and must not be processed again. The check and the mark are a single
// atomic step.
func (t *Tracker) Observe(eventID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if e, ok := t.seen[eventID]; ok {
		fresh := now.Sub(e.at) < t.ttl
		e.at = now
		t.order.MoveToBack(e.elem)
		return !fresh
	}

	if len(t.seen) >= t.cap {
		t.evictOldest()
	}
	t.seen[eventID] = &entry{at: now, elem: t.order.PushBack(eventID)}
	return true
}

// evictOldest drops the front entry. Must be called with mu held.
func (t *Tracker) evictOldest() {
	front := t.order.Front()
	if front == nil {
		return
	}
	id, _ := front.Value.(string)
	t.order.Remove(front)
	delete(t.seen, id)
}

// sweep periodically drops expired entries so the map does not hold
// stale IDs for a full capacity cycle.
func (t *Tracker) sweep() {
	interval := t.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.dropExpired()
		case <-t.done:
			return
		}
	}
}

// dropExpired removes expired entries from the front of the order list.
// Observe refreshes timestamps and moves entries to the back, so the
// list stays sorted by last-seen time and the walk can stop at the
// first fresh entry.
func (t *Tracker) dropExpired() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for front := t.order.Front(); front != nil; {
		id, _ := front.Value.(string)
		e := t.seen[id]
		if now.Sub(e.at) < t.ttl {
			break
		}
		next := front.Next()
		t.order.Remove(front)
		delete(t.seen, id)
		front = next
	}
}

// Close stops the background sweep. Safe to call more than once.
func (t *Tracker) Close() {
	t.once.Do(func() { close(t.done) })
}
