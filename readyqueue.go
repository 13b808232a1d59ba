// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "container/heap"

// ReadyQueue is the scheduler's time-ordered ready queue: a bounded
// collection of *Task handles, yielded in ascending due-time order, with
// ties broken by insertion order (FIFO among equal due times).
//
// Capacity is fixed at construction — ReadyQueue never grows its backing
// array, matching the "no dynamic allocation on hot paths" non-goal. A task
// appears in a ReadyQueue at most once at any instant; Insert is a no-op
// error (ErrFull aside) in that it first removes any prior entry for the
// same *Task identity before re-inserting, so callers never need to check
// Contains themselves.
//
// Internally this is an array-backed binary min-heap (soonest due time at
// the logical root), implementing container/heap.Interface. A max-heap
// keyed by furthest-in-future-first at the root, matching an older
// observable order, would satisfy the contract equally well, since only
// Peek/Pop order is specified — this implementation simply picks the
// more direct of the two.
type ReadyQueue struct {
	tasks []*Task
	cap   int
	seq   uint64
}

// NewReadyQueue creates a ready queue with the given fixed capacity.
func NewReadyQueue(capacity int) *ReadyQueue {
	q := &ReadyQueue{
		tasks: make([]*Task, 0, capacity),
		cap:   capacity,
	}
	heap.Init(q)
	return q
}

// Insert adds t to the queue, stamping its FIFO tie-break sequence. If t is
// already enqueued, its prior entry is removed first (so re-Insert moves it
// rather than duplicating it — callers rescheduling a task need not call
// Remove themselves). Returns ErrFull if the queue is at capacity and t was
// not already present.
func (q *ReadyQueue) Insert(t *Task) error {
	if t.enqueued() {
		heap.Remove(q, t.idx)
	} else if len(q.tasks) >= q.cap {
		return ErrFull
	}
	q.seq++
	t.seq = q.seq
	heap.Push(q, t)
	return nil
}

// Remove removes t from the queue by identity. Returns false if t is not
// currently enqueued (no-op).
func (q *ReadyQueue) Remove(t *Task) bool {
	if !t.enqueued() {
		return false
	}
	heap.Remove(q, t.idx)
	return true
}

// Contains reports whether t is currently enqueued in this queue.
func (q *ReadyQueue) Contains(t *Task) bool {
	return t.enqueued() && t.idx < len(q.tasks) && q.tasks[t.idx] == t
}

// PeekSoonest returns the task with the earliest due time without removing
// it, or nil if the queue is empty.
func (q *ReadyQueue) PeekSoonest() *Task {
	if len(q.tasks) == 0 {
		return nil
	}
	return q.tasks[0]
}

// PopSoonest removes and returns the task with the earliest due time, or
// nil if the queue is empty.
func (q *ReadyQueue) PopSoonest() *Task {
	if len(q.tasks) == 0 {
		return nil
	}
	return heap.Pop(q).(*Task)
}

// NextTime returns the due time of the soonest task, or ErrNotFound if the
// queue is empty.
func (q *ReadyQueue) NextTime() (Tick, error) {
	if len(q.tasks) == 0 {
		return 0, ErrNotFound
	}
	return q.tasks[0].due, nil
}

// Len returns the number of tasks currently enqueued.
func (q *ReadyQueue) Len() int { return len(q.tasks) }

// Cap returns the queue's fixed capacity.
func (q *ReadyQueue) Cap() int { return q.cap }

// IsEmpty reports whether the queue currently holds no tasks.
func (q *ReadyQueue) IsEmpty() bool { return len(q.tasks) == 0 }

// IsFull reports whether the queue is currently at capacity.
func (q *ReadyQueue) IsFull() bool { return len(q.tasks) >= q.cap }

// The methods below satisfy container/heap.Interface. Callers must still use
// Insert/Remove/PeekSoonest/PopSoonest — never container/heap directly —
// since those keep each Task's idx/seq fields consistent.

func (q *ReadyQueue) Less(i, j int) bool {
	a, b := q.tasks[i], q.tasks[j]
	if a.due != b.due {
		return Precedes(a.due, b.due)
	}
	return a.seq < b.seq
}

func (q *ReadyQueue) Swap(i, j int) {
	q.tasks[i], q.tasks[j] = q.tasks[j], q.tasks[i]
	q.tasks[i].idx = i
	q.tasks[j].idx = j
}

func (q *ReadyQueue) Push(x any) {
	t := x.(*Task)
	t.idx = len(q.tasks)
	q.tasks = append(q.tasks, t)
}

func (q *ReadyQueue) Pop() any {
	n := len(q.tasks)
	t := q.tasks[n-1]
	q.tasks[n-1] = nil
	q.tasks = q.tasks[:n-1]
	t.idx = -1
	return t
}
