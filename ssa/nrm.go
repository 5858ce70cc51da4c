package ssa

import (
	"container/heap"
	"math"
)

// eventQueue is an indexed min-heap of absolute reaction firing times.
type eventQueue struct {
	times []float64 // by reaction
	heap  []int     // reaction indices in heap order
	pos   []int     // heap position by reaction
}

func newEventQueue(n int) *eventQueue {
	q := &eventQueue{
		times: make([]float64, n),
		heap:  make([]int, n),
		pos:   make([]int, n),
	}
	for j := range q.heap {
		q.heap[j] = j
		q.pos[j] = j
	}
	return q
}

func (q *eventQueue) Len() int { return len(q.heap) }

func (q *eventQueue) Less(i, j int) bool { return q.times[q.heap[i]] < q.times[q.heap[j]] }

func (q *eventQueue) Swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.pos[q.heap[i]] = i
	q.pos[q.heap[j]] = j
}

func (q *eventQueue) Push(x any) {
	j := x.(int)
	q.pos[j] = len(q.heap)
	q.heap = append(q.heap, j)
}

func (q *eventQueue) Pop() any {
	n := len(q.heap) - 1
	j := q.heap[n]
	q.heap = q.heap[:n]
	return j
}

// set updates the firing time of reaction j and restores heap order.
func (q *eventQueue) set(j int, t float64) {
	q.times[j] = t
	heap.Fix(q, q.pos[j])
}

func (q *eventQueue) min() (int, float64) {
	j := q.heap[0]
	return j, q.times[j]
}

// runNextReaction implements the Gibson-Bruck next reaction method. After a
// firing only the dependents of the fired reaction are updated, and their
// pending times are rescaled instead of redrawn.
func (tr *trajectory) runNextReaction() error {
	if len(tr.m.Reactions) == 0 {
		tr.finish()
		return nil
	}

	q := newEventQueue(len(tr.m.Reactions))
	for j := range tr.m.Reactions {
		aj, err := tr.m.propensity(j, tr.x)
		if err != nil {
			return err
		}
		tr.a[j] = aj
		q.times[j] = tr.nextTime(aj)
	}
	heap.Init(q)

	for !tr.done() {
		mu, tmu := q.min()
		if math.IsInf(tmu, 1) || tr.beyond(tmu) {
			break
		}

		tr.t = tmu
		tr.m.fire(mu, 1, tr.x)
		if err := tr.count(); err != nil {
			return err
		}

		for _, k := range tr.m.deps[mu] {
			old := tr.a[k]
			ak, err := tr.m.propensity(k, tr.x)
			if err != nil {
				return err
			}
			tr.a[k] = ak

			switch {
			case k == mu || old == 0:
				q.set(k, tr.nextTime(ak))
			case ak == 0:
				q.set(k, math.Inf(1))
			default:
				q.set(k, tr.t+(old/ak)*(q.times[k]-tr.t))
			}
		}
	}
	tr.finish()
	return nil
}

// nextTime draws an absolute firing time for a reaction with propensity a.
func (tr *trajectory) nextTime(a float64) float64 {
	if a == 0 {
		return math.Inf(1)
	}
	return tr.t + tr.rng.ExpFloat64()/a
}
