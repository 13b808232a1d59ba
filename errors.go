// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "errors"

// ErrFull indicates a bounded collection (the ISR queue or the ready queue)
// is at capacity and cannot accept another entry.
//
// ErrFull is a control flow signal, not necessarily a failure: the intended
// recovery policy is application-level — size the queues for the worst-case
// burst, or install an idle task that sheds backlog.
var ErrFull = errors.New("sched: full")

// ErrEmpty indicates a bounded collection has no entries to return.
var ErrEmpty = errors.New("sched: empty")

// ErrNotFound indicates the referenced task, or a required scheduling
// context (e.g. a current task), does not exist.
//
// Reschedule* operations return ErrNotFound when called outside a task's
// invocation.
var ErrNotFound = errors.New("sched: not found")

// ErrIllegalChannel indicates a broadcast channel ID below ChannelMin where
// a concrete channel is required.
var ErrIllegalChannel = errors.New("sched: illegal channel")

// ErrSize indicates an ISR queue capacity that is not a power of two of at
// least 2.
var ErrSize = errors.New("sched: capacity must be a power of two")
