// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"errors"
	"testing"

	"github.com/rdpoor/mulib"
)

const (
	chanA sched.Channel = 1
	chanB sched.Channel = 2
)

// Scenario 6, following the fixture's own subscribe/unsubscribe/notify
// sequence: a1 and a2 subscribed to channel A, a2 and a3 to channel B.
func TestBroadcastScenario(t *testing.T) {
	storage := make([]sched.Subscriber, 5)
	r := sched.NewRegistry(storage)

	var a1, a2, a3 int
	handlerA1 := func(ctx, arg any) any { a1++; return nil }
	handlerA2 := func(ctx, arg any) any { a2++; return nil }
	handlerA3 := func(ctx, arg any) any { a3++; return nil }

	if err := r.Subscribe(sched.ChannelMin-1, handlerA1, nil); !errors.Is(err, sched.ErrIllegalChannel) {
		t.Fatalf("Subscribe below ChannelMin: got %v, want ErrIllegalChannel", err)
	}

	if err := r.Subscribe(chanA, handlerA1, nil); err != nil {
		t.Fatalf("Subscribe(chanA, a1): %v", err)
	}
	if err := r.Subscribe(chanA, handlerA2, nil); err != nil {
		t.Fatalf("Subscribe(chanA, a2): %v", err)
	}
	if err := r.Subscribe(chanB, handlerA2, nil); err != nil {
		t.Fatalf("Subscribe(chanB, a2): %v", err)
	}
	if err := r.Subscribe(chanB, handlerA3, nil); err != nil {
		t.Fatalf("Subscribe(chanB, a3): %v", err)
	}

	if err := r.Notify(chanA, nil); err != nil {
		t.Fatalf("Notify(chanA): %v", err)
	}
	if a1 != 1 || a2 != 1 || a3 != 0 {
		t.Fatalf("after Notify(chanA): got a1=%d a2=%d a3=%d, want 1,1,0", a1, a2, a3)
	}

	if err := r.Notify(chanB, nil); err != nil {
		t.Fatalf("Notify(chanB): %v", err)
	}
	if a1 != 1 || a2 != 2 || a3 != 1 {
		t.Fatalf("after Notify(chanB): got a1=%d a2=%d a3=%d, want 1,2,1", a1, a2, a3)
	}

	// Re-subscribing the same (channel, handler) pair is idempotent.
	if err := r.Subscribe(chanA, handlerA1, nil); err != nil {
		t.Fatalf("re-Subscribe(chanA, a1): %v", err)
	}
	if err := r.Notify(chanA, nil); err != nil {
		t.Fatalf("Notify(chanA): %v", err)
	}
	if a1 != 2 || a2 != 3 || a3 != 1 {
		t.Fatalf("after idempotent re-subscribe + Notify(chanA): got a1=%d a2=%d a3=%d, want 2,3,1", a1, a2, a3)
	}

	if err := r.Unsubscribe(chanA, handlerA2); err != nil {
		t.Fatalf("Unsubscribe(chanA, a2): %v", err)
	}
	if err := r.Notify(chanA, nil); err != nil {
		t.Fatalf("Notify(chanA): %v", err)
	}
	if a1 != 3 || a2 != 3 || a3 != 1 {
		t.Fatalf("after Unsubscribe(chanA,a2) + Notify(chanA): got a1=%d a2=%d a3=%d, want 3,3,1", a1, a2, a3)
	}

	if err := r.Notify(sched.AllChannels, nil); err != nil {
		t.Fatalf("Notify(AllChannels): %v", err)
	}
	if a1 != 4 || a2 != 4 || a3 != 2 {
		t.Fatalf("after Notify(AllChannels): got a1=%d a2=%d a3=%d, want 4,4,2", a1, a2, a3)
	}

	if err := r.Unsubscribe(chanA, handlerA3); !errors.Is(err, sched.ErrNotFound) {
		t.Fatalf("Unsubscribe of never-subscribed pair: got %v, want ErrNotFound", err)
	}
}

func TestBroadcastSubscribeFull(t *testing.T) {
	storage := make([]sched.Subscriber, 1)
	r := sched.NewRegistry(storage)
	noop := func(ctx, arg any) any { return nil }

	if err := r.Subscribe(chanA, noop, nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	other := func(ctx, arg any) any { return nil }
	if err := r.Subscribe(chanB, other, nil); !errors.Is(err, sched.ErrFull) {
		t.Fatalf("Subscribe on full registry: got %v, want ErrFull", err)
	}
}

func TestBroadcastReentrantSubscribeNotCalledThisNotify(t *testing.T) {
	storage := make([]sched.Subscriber, 4)
	r := sched.NewRegistry(storage)

	var lateCalled bool
	late := func(ctx, arg any) any { lateCalled = true; return nil }
	first := func(ctx, arg any) any {
		r.Subscribe(chanA, late, nil)
		return nil
	}
	r.Subscribe(chanA, first, nil)

	if err := r.Notify(chanA, nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if lateCalled {
		t.Fatalf("handler subscribed mid-notify must not be invoked during that notify")
	}

	lateCalled = false
	if err := r.Notify(chanA, nil); err != nil {
		t.Fatalf("Notify (second pass): %v", err)
	}
	if !lateCalled {
		t.Fatalf("handler subscribed mid-notify should be invoked on the next notify")
	}
}
