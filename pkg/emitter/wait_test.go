package emitter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitRegistered(t *testing.T, e *Emitter, key Key, opts ...CallOption) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if listeners, _ := e.Retrieve(key, opts...); len(listeners) > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("waiter never registered")
}

func TestWait(t *testing.T) {
	e := newTestEmitter()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	type result struct {
		event any
		err   error
	}
	done := make(chan result, 1)
	go func() {
		ev, err := e.Wait(ctx, Event[UserCreated](), Namespace("N"))
		done <- result{ev, err}
	}()

	waitRegistered(t, e, Event[UserCreated](), Namespace("N"))
	sent := &UserCreated{Name: "ada"}
	if mode := mustEmit(t, e, ctx, sent, Namespace("N")); mode != HandleNamespace {
		t.Errorf("expected namespace mode, got %v", mode)
	}

	r := <-done
	if r.err != nil || r.event != sent {
		t.Fatalf("expected the emitted instance, got %v %v", r.event, r.err)
	}
	if count(t, e, Key{}, Namespace("N")) != 0 {
		t.Error("waiter should be removed after firing")
	}
}

func TestWaitFor_Typed(t *testing.T) {
	e := newTestEmitter()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan *UserEvent, 1)
	go func() {
		ev, err := WaitFor[*UserEvent](ctx, e)
		if err != nil {
			t.Error(err)
		}
		done <- ev
	}()

	waitRegistered(t, e, Event[UserEvent]())
	mustEmit(t, e, ctx, &UserCreated{UserEvent: UserEvent{ID: 11}})

	if ev := <-done; ev == nil || ev.ID != 11 {
		t.Fatalf("expected the embedded UserEvent, got %+v", ev)
	}
}

func TestWait_ScopeKey(t *testing.T) {
	e := newTestEmitter()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan any, 1)
	go func() {
		ev, _ := e.Wait(ctx, ScopeKey("orders"))
		done <- ev
	}()

	waitRegistered(t, e, ScopeKey("orders"))
	mustEmit(t, e, ctx, OrderPlaced{Total: 3}, Scope("orders.eu"))

	if ev, ok := (<-done).(OrderPlaced); !ok || ev.Total != 3 {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestWait_ContextDone(t *testing.T) {
	e := newTestEmitter()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := e.Wait(ctx, Event[UserCreated]()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if count(t, e, Key{}) != 0 {
		t.Error("waiter should be removed when the context ends")
	}
}

func TestWait_InvalidOptions(t *testing.T) {
	e := newTestEmitter()

	if _, err := e.Wait(context.Background(), Event[UserCreated](), Once()); err == nil {
		t.Error("expected Once to be rejected")
	}
	if _, err := e.Wait(context.Background(), Key{}); err == nil {
		t.Error("expected a missing key to be rejected")
	}
}
