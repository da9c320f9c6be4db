package emitter

import (
	"context"
	"sync"
)

var (
	defaultMu       sync.RWMutex
	defaultOnce     sync.Once
	defaultInstance *Emitter
)

// Default returns the process-wide emitter, creating it on first use.
func Default() *Emitter {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		if defaultInstance == nil {
			defaultInstance = New()
		}
		defaultMu.Unlock()
	})

	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultInstance
}

// SetDefault replaces the process-wide emitter. nil installs a fresh one.
func SetDefault(e *Emitter) {
	defaultOnce.Do(func() {})
	if e == nil {
		e = New()
	}

	defaultMu.Lock()
	defaultInstance = e
	defaultMu.Unlock()
}

func On(ctx context.Context, key Key, l *Listener, opts ...CallOption) (*Listener, error) {
	return Default().On(ctx, key, l, opts...)
}

func Subscribe(ctx context.Context, key Key, l *Listener, opts ...CallOption) (*Subscription, error) {
	return Default().Subscribe(ctx, key, l, opts...)
}

func Emit(ctx context.Context, event any, opts ...CallOption) (HandleMode, error) {
	return Default().Emit(ctx, event, opts...)
}

func Remove(key Key, l *Listener, opts ...CallOption) (bool, error) {
	return Default().Remove(key, l, opts...)
}

func Retrieve(key Key, opts ...CallOption) ([]*Listener, error) {
	return Default().Retrieve(key, opts...)
}

func Wait(ctx context.Context, key Key, opts ...CallOption) (any, error) {
	return Default().Wait(ctx, key, opts...)
}

func Open(ctx context.Context) (context.Context, *Group) {
	return Default().Open(ctx)
}

func Within(ctx context.Context, fn func(context.Context) error) error {
	return Default().Within(ctx, fn)
}

// Reset drops every listener of the process-wide emitter.
func Reset() {
	Default().Reset()
}
