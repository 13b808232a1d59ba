// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "code.hybscloud.com/atomix"

// ISRQueue is the interrupt-safe single-producer/single-consumer handoff
// queue used to carry *Task pointers from an interrupt handler to the main
// loop's [Scheduler.Step].
//
// Based on Lamport's ring buffer with cached index optimization: the
// producer caches the consumer's dequeue index and vice versa, so the
// common case (queue neither full nor empty) touches only the producer's
// own tail or the consumer's own head, not both.
//
// Capacity is a power of two, fixed at construction; backing storage is
// allocated once by [NewISRQueue] and never grown.
type ISRQueue struct {
	_          pad
	head       atomix.Uint64 // consumer (main loop) reads from here
	_          pad
	cachedTail uint64 // consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // producer (ISR) writes here
	_          pad
	cachedHead uint64 // producer's cached view of head
	_          pad
	buffer     []*Task
	mask       uint64
}

// NewISRQueue creates an ISR queue with the given capacity, which must be a
// power of two >= 2. Returns ErrSize otherwise.
func NewISRQueue(capacity int) (*ISRQueue, error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, ErrSize
	}
	return &ISRQueue{
		buffer: make([]*Task, capacity),
		mask:   uint64(capacity) - 1,
	}, nil
}

// Put enqueues t (producer-only; safe to call from an ISR). Returns ErrFull
// when the queue is at capacity.
//
// The producer's tail store happens with release ordering, and the
// consumer's tail load with acquire ordering (Get below), so a slot write
// is always observable to the consumer once its index update is visible —
// required because the ISR and the main loop may run with no shared memory
// fence beyond what the hardware interrupt entry/exit already provides.
func (q *ISRQueue) Put(t *Task) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return ErrFull
		}
	}

	q.buffer[tail&q.mask] = t
	q.tail.StoreRelease(tail + 1)
	return nil
}

// Get dequeues the oldest pending task (consumer-only; called from the main
// loop's drain step, never from an ISR). Returns ErrEmpty when the queue has
// nothing pending.
func (q *ISRQueue) Get() (*Task, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			return nil, ErrEmpty
		}
	}

	t := q.buffer[head&q.mask]
	q.buffer[head&q.mask] = nil
	q.head.StoreRelease(head + 1)
	return t, nil
}

// Reset empties the queue by zeroing both indices. Must not be called
// concurrently with Put or Get.
func (q *ISRQueue) Reset() {
	for i := range q.buffer {
		q.buffer[i] = nil
	}
	q.head.StoreRelease(0)
	q.tail.StoreRelease(0)
	q.cachedHead = 0
	q.cachedTail = 0
}

// Cap returns the queue's fixed capacity.
func (q *ISRQueue) Cap() int {
	return int(q.mask + 1)
}

// Len returns the number of pending entries. Like other single-reader
// counters in this package, this is a snapshot — accurate only when no
// concurrent Put is in flight, which holds for the scheduler's own use
// (Step is the sole consumer and reads Len only between drain iterations).
func (q *ISRQueue) Len() int {
	tail := q.tail.LoadAcquire()
	head := q.head.LoadAcquire()
	return int(tail - head)
}

// IsEmpty reports whether the queue currently has no pending entries.
func (q *ISRQueue) IsEmpty() bool {
	return q.Len() == 0
}

// IsFull reports whether the queue is currently at capacity.
func (q *ISRQueue) IsFull() bool {
	return q.Len() >= q.Cap()
}

// pad is cache line padding, preventing false sharing between the
// producer-owned and consumer-owned fields above.
type pad [64]byte
