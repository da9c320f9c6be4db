package emitter

import (
	"context"
	"sync"
	"testing"

	"github.com/shuldan/emitter/pkg/logger"
)

type UserEvent struct {
	ID int
}

type UserCreated struct {
	UserEvent
	Name string
}

type AdminUserCreated struct {
	UserCreated
	Level int
}

type OrderPlaced struct {
	Total int
}

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func record[T any](r *recorder, name string) *Listener {
	return Func(func(context.Context, T) error {
		r.add(name)
		return nil
	}).Named(name)
}

func failing[T any](r *recorder, name string, err error) *Listener {
	return Func(func(context.Context, T) error {
		r.add(name)
		return err
	}).Named(name)
}

type handledError struct {
	event    any
	listener *Listener
	err      error
}

type mockErrorHandler struct {
	mu    sync.Mutex
	calls []handledError
}

func (m *mockErrorHandler) Handle(event any, listener *Listener, err error) {
	m.mu.Lock()
	m.calls = append(m.calls, handledError{event: event, listener: listener, err: err})
	m.mu.Unlock()
}

func (m *mockErrorHandler) handled() []handledError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]handledError(nil), m.calls...)
}

type mockPanicHandler struct {
	mu     sync.Mutex
	values []any
}

func (m *mockPanicHandler) Handle(_ any, _ *Listener, value any, _ []byte) {
	m.mu.Lock()
	m.values = append(m.values, value)
	m.mu.Unlock()
}

func newTestEmitter(opts ...Option) *Emitter {
	return New(append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func mustOn(t *testing.T, e *Emitter, ctx context.Context, key Key, l *Listener, opts ...CallOption) *Listener {
	t.Helper()
	if _, err := e.On(ctx, key, l, opts...); err != nil {
		t.Fatalf("On(%s, %s): %v", key, l, err)
	}
	return l
}

func mustEmit(t *testing.T, e *Emitter, ctx context.Context, event any, opts ...CallOption) HandleMode {
	t.Helper()
	mode, err := e.Emit(ctx, event, opts...)
	if err != nil {
		t.Fatalf("Emit(%T): %v", event, err)
	}
	return mode
}

func assertCalls(t *testing.T, r *recorder, want ...string) {
	t.Helper()
	got := r.snapshot()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, got)
		}
	}
}
