// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// TaskFn is the function signature a [Task] invokes.
//
// By convention, when the scheduler invokes a task, ctx is the task's own
// stored context (see [Task.Init]) and arg carries the owning [*Scheduler],
// so a task body can reach scheduler APIs (NextTime, RescheduleIn, ...)
// without capturing it in a closure. Tasks must not block or busy-wait —
// they must sample, act, and return promptly.
type TaskFn func(ctx any, arg any) any

// Task is a named callable unit, scheduled by due time.
//
// Tasks are caller-allocated: the scheduler never owns task storage. A
// zero-value Task is not usable until [Task.Init] is called. A Task carries
// intrusive linkage (idx) for its membership in at most one ready queue at a
// time; idx and due time are meaningful only while the task is enqueued or
// being dispatched.
type Task struct {
	fn   TaskFn
	ctx  any
	name string

	due Tick
	seq uint64 // insertion sequence, for FIFO tie-break among equal due times
	idx int    // index into the owning ReadyQueue's heap, -1 when not enqueued

	callCount   uint32
	runtime     Duration
	maxDuration Duration
}

// Init (re-)initializes t for use. fn must not be nil; ctx is passed back
// to fn unexamined and may be nil for a task that needs no context. name
// is used only for diagnostics. Init may be called again on a Task that
// is not currently enqueued, to repurpose caller-owned storage.
func (t *Task) Init(fn TaskFn, ctx any, name string) {
	t.fn = fn
	t.ctx = ctx
	t.name = name
	t.due = 0
	t.seq = 0
	t.idx = -1
	t.callCount = 0
	t.runtime = 0
	t.maxDuration = 0
}

// Name returns the task's diagnostic name.
func (t *Task) Name() string { return t.name }

// Time returns the task's current due-time field. Meaningful only while the
// task is enqueued or being dispatched.
func (t *Task) Time() Tick { return t.due }

// SetTime sets the task's due-time field directly, bypassing any ready
// queue the task may belong to. Scheduling callers should prefer
// [Scheduler.TaskAt] and friends, which keep the ready queue's heap order
// consistent; SetTime exists for tests and for tasks not currently
// enqueued.
func (t *Task) SetTime(tick Tick) { t.due = tick }

// CallCount returns the number of times a Scheduler with profiling enabled
// has dispatched t. Direct calls to Call are not counted.
func (t *Task) CallCount() uint32 { return t.callCount }

// Runtime returns the cumulative duration of t's dispatches by a Scheduler
// with profiling enabled. Direct calls to Call are not measured.
func (t *Task) Runtime() Duration { return t.runtime }

// MaxDuration returns the longest single dispatch of t by a Scheduler with
// profiling enabled. Direct calls to Call are not measured.
func (t *Task) MaxDuration() Duration { return t.maxDuration }

// Call invokes the task's function with arg, returning whatever fn returns.
// Call itself never updates the profiling counters — the owning scheduler
// brackets the call with clock samples and calls recordCall only when
// profiling is enabled, keeping Task usable (and its Call cheap) without a
// scheduler in tests that exercise task bodies directly.
func (t *Task) Call(arg any) any {
	if t.fn == nil {
		return nil
	}
	return t.fn(t.ctx, arg)
}

// recordCall updates the profiling counters for one completed invocation
// that took d ticks. Called by the scheduler, never by Call itself.
func (t *Task) recordCall(d Duration) {
	t.callCount++
	t.runtime += d
	if d > t.maxDuration {
		t.maxDuration = d
	}
}

// enqueued reports whether t currently belongs to a ready queue.
func (t *Task) enqueued() bool { return t.idx >= 0 }
