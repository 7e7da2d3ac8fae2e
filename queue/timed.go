// Package queue implements the three logical event queues: the timed
// queue T, the external queue X, and the view queue V — grounded on
// EventQueue (sim/simulator.go) and
// cluster.EventHeap (sim/cluster/event_heap.go), both container/heap
// implementations keyed on a composite ordering tuple.
package queue

import (
	"container/heap"

	"github.com/vle-sim/vle/simulator"
)

// ScheduleKey is the (tN, epoch) composite key: ties at
// equal tN are broken by epoch, a monotonically increasing counter
// assigned at insertion time, giving a deterministic firing order.
type ScheduleKey struct {
	Time simulator.Time
	Epoch uint64
}

func (a ScheduleKey) less(b ScheduleKey) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.Epoch < b.Epoch
}

type timedEntry struct {
	key ScheduleKey
	sim *simulator.Simulator
}

type timedHeap []timedEntry

func (h timedHeap) Len() int            { return len(h) }
func (h timedHeap) Less(i, j int) bool  { return h[i].key.less(h[j].key) }
func (h timedHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *timedHeap) Push(x interface{}) { *h = append(*h, x.(timedEntry)) }
func (h *timedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TimedQueue is T: a heap of simulators keyed by (tN, epoch). Old entries
// for a simulator are invalidated lazily (by epoch mismatch against the
// simulator's current registration) rather than removed from the heap,
// matching container/heap usage (no decrease-key support).
type TimedQueue struct {
	h timedHeap
	epoch uint64
	current map[simulator.ID]uint64 // sim ID -> latest valid epoch
}

// NewTimedQueue constructs an empty T.
func NewTimedQueue() *TimedQueue {
	return &TimedQueue{current: make(map[simulator.ID]uint64)}
}

// Push inserts sim with a fresh epoch, invalidating any earlier entry for
// the same simulator still sitting in the heap.
func (q *TimedQueue) Push(sim *simulator.Simulator) {
	q.epoch++
	key := ScheduleKey{Time: sim.NextEventTime(), Epoch: q.epoch}
	q.current[sim.ID] = q.epoch
	heap.Push(&q.h, timedEntry{key: key, sim: sim})
}

// Len reports the number of live (non-stale) entries by scanning lazily;
// callers needing a fast emptiness check should prefer PeekTime.
func (q *TimedQueue) Len() int {
	n := 0
	for _, e := range q.h {
		if q.current[e.sim.ID] == e.key.Epoch {
			n++
		}
	}
	return n
}

// PeekTime returns the smallest live tN in T, and false if T is exhausted.
func (q *TimedQueue) PeekTime() (simulator.Time, bool) {
	for len(q.h) > 0 {
		top := q.h[0]
		if q.current[top.sim.ID] != top.key.Epoch {
			heap.Pop(&q.h)
			continue
		}
		return top.key.Time, true
	}
	return 0, false
}

// PopBundle removes and returns every simulator whose tN equals now — the
// imminent bundle, in insertion-epoch order.
func (q *TimedQueue) PopBundle(now simulator.Time) []*simulator.Simulator {
	var bundle []*simulator.Simulator
	for len(q.h) > 0 {
		top := q.h[0]
		if q.current[top.sim.ID] != top.key.Epoch {
			heap.Pop(&q.h)
			continue
		}
		if top.key.Time != now {
			break
		}
		heap.Pop(&q.h)
		bundle = append(bundle, top.sim)
	}
	return bundle
}

// Remove invalidates any pending entry for sim (used when an executive
// deletes the model,).
func (q *TimedQueue) Remove(id simulator.ID) {
	delete(q.current, id)
}
