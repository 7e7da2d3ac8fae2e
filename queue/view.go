package queue

import (
	"container/heap"

	"github.com/vle-sim/vle/simulator"
)

type viewEntry struct {
	time simulator.Time
	epoch uint64
	viewName string
}

type viewHeap []viewEntry

func (h viewHeap) Len() int { return len(h) }
func (h viewHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].epoch < h[j].epoch
}
func (h viewHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *viewHeap) Push(x interface{}) { *h = append(*h, x.(viewEntry)) }
func (h *viewHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ViewQueue is V: a heap of (nextFireTime, view) for TIMED views only;
// event-triggered views never sit in V.
type ViewQueue struct {
	h viewHeap
	epoch uint64
}

// NewViewQueue constructs an empty V.
func NewViewQueue() *ViewQueue {
	return &ViewQueue{}
}

// Push schedules viewName to fire at t.
func (q *ViewQueue) Push(t simulator.Time, viewName string) {
	q.epoch++
	heap.Push(&q.h, viewEntry{time: t, epoch: q.epoch, viewName: viewName})
}

// PeekTime returns the earliest scheduled timed-view firing, and false if
// V is empty.
func (q *ViewQueue) PeekTime() (simulator.Time, bool) {
	if len(q.h) == 0 {
		return 0, false
	}
	return q.h[0].time, true
}

// PopBundle removes and returns every view name scheduled to fire at now.
func (q *ViewQueue) PopBundle(now simulator.Time) []string {
	var names []string
	for len(q.h) > 0 && q.h[0].time == now {
		e := heap.Pop(&q.h).(viewEntry)
		names = append(names, e.viewName)
	}
	return names
}

// Len reports the number of pending entries.
func (q *ViewQueue) Len() int { return len(q.h) }
