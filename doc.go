// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sched implements a cooperative, single-threaded task scheduler
// for resource-constrained embedded targets.
//
// Work is decomposed into small, non-blocking [Task] units, run in due-time
// order by a [Scheduler] driven from the application's main loop. A safe
// path exists to enqueue work from an interrupt handler via
// [Scheduler.TaskFromISR]. A [Timer] layers one-shot and periodic firing on
// top of the scheduler, and a [Registry] fans notifications out to
// subscribed handlers.
//
// # Quick Start
//
// Construct a scheduler bound to a real clock source, create tasks, and
// drive it from a loop:
//
//	blink := &sched.Task{}
//	blink.Init(func(ctx, arg any) any {
//	    toggleLED()
//	    return nil
//	}, nil, "blink")
//
//	s := sched.NewScheduler(sched.WithClockSource(rtc.Now))
//	s.TaskIn(blink, sched.MsToTicks(32768, 500))
//
//	for {
//	    if err := s.Step(); err != nil {
//	        // queue overflow: application-level recovery policy
//	    }
//	}
//
// # ISR handoff
//
// A task allocated statically can be handed to the scheduler from an
// interrupt handler, which must not touch any other Scheduler method:
//
//	func onButtonPress() { // interrupt context
//	    s.TaskFromISR(&buttonTask)
//	}
//
// # Rescheduling
//
// A task body reschedules itself using [Scheduler.RescheduleIn] (for
// drift-resistant periodic work, stride taken from its own due time) or
// [Scheduler.RescheduleNow]:
//
//	poll.Init(func(ctx, arg any) any {
//	    s := arg.(*sched.Scheduler)
//	    readSensor()
//	    s.RescheduleIn(sched.MsToTicks(32768, 100))
//	    return nil
//	}, nil, "poll")
//
// # Timers
//
// [Timer] wraps the reschedule-in-own-callback pattern above:
//
//	var hb sched.Timer
//	hb.InitPeriodic(s, &heartbeatTask, "heartbeat")
//	hb.Start(sched.MsToTicks(32768, 1000))
//
// # Broadcast
//
// [Registry] fans a notification to every handler subscribed to a channel,
// or to [AllChannels]:
//
//	storage := make([]sched.Subscriber, 8)
//	r := sched.NewRegistry(storage)
//	r.Subscribe(chanButtonEvents, onButton, nil)
//	r.Notify(chanButtonEvents, pressedArg)
//
// # Concurrency
//
// Every Scheduler method except TaskFromISR, and every Registry method,
// must be called only from the goroutine that owns the Scheduler — the
// "main loop". TaskFromISR is the sole method safe to call concurrently
// with Step.
package sched
