// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// TimerMode selects whether a Timer fires once or repeats.
type TimerMode int

const (
	// TimerOneShot fires the target task exactly once, then stops.
	TimerOneShot TimerMode = iota
	// TimerPeriodic reschedules the target task every Period ticks,
	// drift-resistant (stride is taken from the task's own due time, not
	// from the time it actually fired).
	TimerPeriodic
)

// Timer wraps a target [Task] with a period and a one-shot/periodic mode,
// layered entirely on top of [Scheduler]'s public API — it holds an
// internal trampoline task that the scheduler actually dispatches, which
// calls the target and, for TimerPeriodic, reschedules itself via
// [Scheduler.RescheduleIn].
//
// A zero-value Timer is not usable until [Timer.InitOneShot] or
// [Timer.InitPeriodic] is called.
type Timer struct {
	trampoline Task
	target     *Task
	sched      *Scheduler
	Period     Duration
	Mode       TimerMode
	running    bool
}

// InitOneShot initializes t to fire target exactly once when started.
func (t *Timer) InitOneShot(sched *Scheduler, target *Task, name string) {
	t.init(sched, target, name, TimerOneShot)
}

// InitPeriodic initializes t to fire target repeatedly, every Period
// ticks, once started.
func (t *Timer) InitPeriodic(sched *Scheduler, target *Task, name string) {
	t.init(sched, target, name, TimerPeriodic)
}

func (t *Timer) init(sched *Scheduler, target *Task, name string, mode TimerMode) {
	t.sched = sched
	t.target = target
	t.Mode = mode
	t.running = false
	t.trampoline.Init(t.fire, t, name)
}

// fire is the trampoline task body: it invokes the target task, then, for
// a periodic timer, reschedules itself drift-resistantly.
func (t *Timer) fire(ctx any, arg any) any {
	self := ctx.(*Timer)
	result := self.target.Call(arg)
	if self.Mode == TimerPeriodic && self.running {
		// fire runs only while the trampoline is the scheduler's current
		// task, so RescheduleIn cannot return ErrNotFound. It returns
		// ErrFull if the target's call filled the ready queue; the
		// trampoline is then no longer scheduled, so the timer is stopped.
		if err := self.sched.RescheduleIn(self.Period); err != nil {
			self.running = false
		}
	} else {
		self.running = false
	}
	return result
}

// Start arms the timer with the given period and schedules its first
// firing at Offset(CurrentTime(), period). Returns ErrFull if the
// scheduler's ready queue is full.
func (t *Timer) Start(period Duration) error {
	t.Period = period
	t.running = true
	return t.sched.TaskIn(&t.trampoline, period)
}

// Stop disarms the timer and removes its trampoline task from the ready
// queue, if present. A stopped one-shot timer that has already fired is a
// no-op.
func (t *Timer) Stop() {
	t.running = false
	t.sched.RemoveTask(&t.trampoline)
}

// IsRunning reports whether the timer is armed — started and not yet
// stopped or (for a one-shot timer) fired.
func (t *Timer) IsRunning() bool {
	return t.running
}
