package queue

import "github.com/vle-sim/vle/simulator"

// ExternalQueue is X: a multimap from (time, destination simulator) to the
// list of external events due at that time.
type ExternalQueue struct {
	byTime map[simulator.Time]map[simulator.ID][]simulator.ExternalEvent
}

// NewExternalQueue constructs an empty X.
func NewExternalQueue() *ExternalQueue {
	return &ExternalQueue{byTime: make(map[simulator.Time]map[simulator.ID][]simulator.ExternalEvent)}
}

// Push appends an external event destined to dst at time t.
func (q *ExternalQueue) Push(t simulator.Time, dst simulator.ID, ev simulator.ExternalEvent) {
	byDst, ok := q.byTime[t]
	if !ok {
		byDst = make(map[simulator.ID][]simulator.ExternalEvent)
		q.byTime[t] = byDst
	}
	byDst[dst] = append(byDst[dst], ev)
}

// PeekTime returns the smallest pending time in X, and false if X is empty.
func (q *ExternalQueue) PeekTime() (simulator.Time, bool) {
	first := true
	var best simulator.Time
	for t := range q.byTime {
		if first || t < best {
			best = t
			first = false
		}
	}
	return best, !first
}

// PopBundle removes and returns every (destination, events) pair due at now.
func (q *ExternalQueue) PopBundle(now simulator.Time) map[simulator.ID][]simulator.ExternalEvent {
	bundle, ok := q.byTime[now]
	if !ok {
		return nil
	}
	delete(q.byTime, now)
	return bundle
}

// CancelDestination discards every pending event addressed to id, across
// every time bucket — used when an executive deletes a simulator.
func (q *ExternalQueue) CancelDestination(id simulator.ID) {
	for t, byDst := range q.byTime {
		if _, ok := byDst[id]; ok {
			delete(byDst, id)
			if len(byDst) == 0 {
				delete(q.byTime, t)
			}
		}
	}
}
