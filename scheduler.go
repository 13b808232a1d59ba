// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// TaskStatus classifies a task from the scheduler's point of view.
type TaskStatus int

const (
	// StatusIdle means the task is not enqueued in the ready queue and is
	// not the currently executing task.
	StatusIdle TaskStatus = iota
	// StatusScheduled means the task is enqueued with a due time still in
	// the future relative to the scheduler's current time.
	StatusScheduled
	// StatusRunnable means the task is enqueued and its due time has
	// arrived (due time is not strictly in the future).
	StatusRunnable
	// StatusActive means the task is the one currently being invoked by
	// Step.
	StatusActive
)

const defaultReadyQueueCapacity = 32
const defaultISRQueueCapacity = 16

// Scheduler is the cooperative dispatch loop: it owns a ready queue, an
// ISR handoff queue, a clock source, and an idle task, and exposes the
// operations a task body uses to reschedule itself or other tasks.
//
// A Scheduler is constructed as an explicit value via [NewScheduler] — not
// a package-level singleton — so independent schedulers can coexist (for
// tests, or for an application that genuinely runs more than one). A
// single-firmware-image application is free to construct exactly one and
// treat it as its de facto singleton; nothing in this package requires
// that.
//
// Every method except [Scheduler.TaskFromISR] must be called only from the
// goroutine that owns this Scheduler (its "main loop"). TaskFromISR is the
// sole method safe to call concurrently with [Scheduler.Step], standing in
// for an interrupt handler.
type Scheduler struct {
	ready *ReadyQueue
	isr   *ISRQueue

	clock   ClockFunc
	idle    *Task
	current *Task

	profiling bool
}

// SchedulerOption configures a Scheduler at construction time.
type SchedulerOption func(*Scheduler)

// WithReadyQueueCapacity sets the ready queue's fixed capacity. Default is
// 32.
func WithReadyQueueCapacity(capacity int) SchedulerOption {
	return func(s *Scheduler) {
		s.ready = NewReadyQueue(capacity)
	}
}

// WithISRQueueCapacity sets the ISR handoff queue's fixed capacity, which
// must be a power of two. Default is 16.
func WithISRQueueCapacity(capacity int) SchedulerOption {
	return func(s *Scheduler) {
		q, err := NewISRQueue(capacity)
		if err != nil {
			// Fixed at construction time by the embedding application, not
			// by untrusted input — an invalid capacity here is a program
			// error.
			panic(err)
		}
		s.isr = q
	}
}

// WithClockSource sets the scheduler's clock function. Default is a clock
// that always returns 0 — production callers must supply a real one.
func WithClockSource(clock ClockFunc) SchedulerOption {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithIdleTask sets the task invoked when no ready task is due. Default is
// [DefaultIdleTask], a no-op.
func WithIdleTask(idle *Task) SchedulerOption {
	return func(s *Scheduler) {
		s.idle = idle
	}
}

// WithProfiling enables or disables per-call count/runtime/max-duration
// bookkeeping on every dispatched task. Default is disabled.
func WithProfiling(enabled bool) SchedulerOption {
	return func(s *Scheduler) {
		s.profiling = enabled
	}
}

var zeroClock ClockFunc = func() Tick { return 0 }

var defaultIdleTask = func() *Task {
	t := &Task{}
	t.Init(func(_ any, _ any) any { return nil }, nil, "idle")
	return t
}()

// DefaultIdleTask returns the package's no-op idle task, shared by every
// Scheduler that does not install its own via [WithIdleTask].
func DefaultIdleTask() *Task { return defaultIdleTask }

// NewScheduler constructs a Scheduler. With no options, it has a 32-entry
// ready queue, a 16-entry ISR queue, a clock fixed at zero, and the default
// no-op idle task — callers almost always supply at least WithClockSource.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		clock: zeroClock,
		idle:  defaultIdleTask,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ready == nil {
		s.ready = NewReadyQueue(defaultReadyQueueCapacity)
	}
	if s.isr == nil {
		q, err := NewISRQueue(defaultISRQueueCapacity)
		if err != nil {
			panic(err)
		}
		s.isr = q
	}
	return s
}

// Reset empties the ready queue and the ISR queue and clears the current
// task. The clock source, idle task, and profiling setting are unaffected.
func (s *Scheduler) Reset() {
	for !s.ready.IsEmpty() {
		s.ready.PopSoonest()
	}
	s.isr.Reset()
	s.current = nil
}

// CurrentTime samples the scheduler's clock source.
func (s *Scheduler) CurrentTime() Tick { return s.clock() }

// CurrentTask returns the task currently being dispatched by Step, or nil
// if none (i.e. Step is not presently inside a task invocation).
func (s *Scheduler) CurrentTask() *Task { return s.current }

// NextTask returns the soonest-due task in the ready queue without
// removing it, or nil if the ready queue is empty.
func (s *Scheduler) NextTask() *Task { return s.ready.PeekSoonest() }

// NextTime returns the due time of the soonest-due task, or ErrNotFound if
// the ready queue is empty.
func (s *Scheduler) NextTime() (Tick, error) { return s.ready.NextTime() }

// TaskCount returns the number of tasks currently in the ready queue.
func (s *Scheduler) TaskCount() int { return s.ready.Len() }

// IsEmpty reports whether the ready queue currently holds no tasks.
func (s *Scheduler) IsEmpty() bool { return s.ready.IsEmpty() }

// TaskIsScheduled reports whether t is currently enqueued in the ready
// queue (regardless of whether its due time has arrived).
func (s *Scheduler) TaskIsScheduled(t *Task) bool { return s.ready.Contains(t) }

// ReadyQueue returns the scheduler's ready queue, for diagnostics or
// direct inspection.
func (s *Scheduler) ReadyQueue() *ReadyQueue { return s.ready }

// ISRQueue returns the scheduler's ISR handoff queue.
func (s *Scheduler) ISRQueue() *ISRQueue { return s.isr }

// IdleTask returns the task currently configured to run when nothing is
// ready.
func (s *Scheduler) IdleTask() *Task { return s.idle }

// SetIdleTask replaces the idle task.
func (s *Scheduler) SetIdleTask(t *Task) { s.idle = t }

// ClockSource returns the scheduler's current clock function.
func (s *Scheduler) ClockSource() ClockFunc { return s.clock }

// SetClockSource replaces the scheduler's clock function.
func (s *Scheduler) SetClockSource(clock ClockFunc) { s.clock = clock }

// TaskAt removes any prior entry of t, sets its due time to at, and
// inserts it into the ready queue. Returns ErrFull if the ready queue is
// at capacity.
func (s *Scheduler) TaskAt(t *Task, at Tick) error {
	t.due = at
	return s.ready.Insert(t)
}

// TaskNow is equivalent to TaskAt(t, s.CurrentTime()).
func (s *Scheduler) TaskNow(t *Task) error {
	return s.TaskAt(t, s.CurrentTime())
}

// TaskIn is equivalent to TaskAt(t, Offset(s.CurrentTime(), d)).
func (s *Scheduler) TaskIn(t *Task, d Duration) error {
	return s.TaskAt(t, Offset(s.CurrentTime(), d))
}

// RescheduleIn is valid only while called from inside the currently
// executing task's own body (i.e. between Step invoking it and it
// returning). It reschedules the current task at Offset(current.Time(), d)
// — a stride from the task's own stated due time, not from CurrentTime —
// so periodic reschedule keeps pace with the nominal schedule instead of
// drifting with each dispatch's jitter. Returns ErrNotFound if no task is
// current.
func (s *Scheduler) RescheduleIn(d Duration) error {
	if s.current == nil {
		return ErrNotFound
	}
	return s.TaskAt(s.current, Offset(s.current.Time(), d))
}

// RescheduleNow reschedules the current task at s.CurrentTime(). Returns
// ErrNotFound if no task is current.
func (s *Scheduler) RescheduleNow() error {
	if s.current == nil {
		return ErrNotFound
	}
	return s.TaskAt(s.current, s.CurrentTime())
}

// TaskFromISR enqueues t into the ISR handoff queue. Safe to call
// concurrently with Step, from a goroutine standing in for an interrupt
// handler (or, on real firmware, an actual ISR). Returns ErrFull if the
// ISR queue is at capacity.
func (s *Scheduler) TaskFromISR(t *Task) error {
	return s.isr.Put(t)
}

// RemoveTask removes t from the ready queue by identity. Returns t if it
// was present, nil if it was not (no-op).
func (s *Scheduler) RemoveTask(t *Task) *Task {
	if s.ready.Remove(t) {
		return t
	}
	return nil
}

// GetTaskStatus classifies t from the scheduler's point of view: ACTIVE if
// t is the currently executing task, IDLE if not enqueued, RUNNABLE if
// enqueued with a due time that has arrived, SCHEDULED otherwise.
func (s *Scheduler) GetTaskStatus(t *Task) TaskStatus {
	if t == s.current {
		return StatusActive
	}
	if !s.ready.Contains(t) {
		return StatusIdle
	}
	if !Precedes(s.CurrentTime(), t.Time()) {
		return StatusRunnable
	}
	return StatusScheduled
}

// Step is the main loop's body. It does, in order:
//
//  1. Drain the ISR queue: repeatedly pop a pending task and schedule it
//     "at now", as TaskNow would, until the ISR queue is empty or the
//     ready queue is full. If the ready queue is already full when a
//     pending entry would need to be popped, the drain stops before
//     popping it — the entry is left in the ISR queue for the next Step —
//     and Step returns ErrFull immediately without dispatching any task
//     this call.
//  2. Peek the soonest ready task; if its due time is not strictly in the
//     future, pop it, mark it current, invoke it, clear current, and
//     return nil.
//  3. Otherwise invoke the idle task — neither popped nor tracked in any
//     queue — passing this Scheduler as arg, and return nil.
func (s *Scheduler) Step() error {
	for !s.isr.IsEmpty() {
		if s.ready.IsFull() {
			return ErrFull
		}
		t, err := s.isr.Get()
		if err != nil {
			break
		}
		if err := s.TaskNow(t); err != nil {
			return err
		}
	}

	if next := s.ready.PeekSoonest(); next != nil && !Precedes(s.CurrentTime(), next.Time()) {
		t := s.ready.PopSoonest()
		s.dispatch(t, s)
		return nil
	}

	s.dispatch(s.idle, s)
	return nil
}

// dispatch invokes t.Call(arg), bracketing it with clock samples and
// updating profiling counters when enabled, and manages s.current around
// the call.
func (s *Scheduler) dispatch(t *Task, arg any) {
	prev := s.current
	s.current = t
	if s.profiling {
		before := s.CurrentTime()
		t.Call(arg)
		after := s.CurrentTime()
		t.recordCall(Difference(after, before))
	} else {
		t.Call(arg)
	}
	s.current = prev
}
