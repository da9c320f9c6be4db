package loop

import (
	"context"
	"sync"

	"github.com/shuldan/emitter/pkg/contracts"
)

// Future is a single-assignment result resolving in ec.
type Future struct {
	ec   contracts.ExecutionContext
	done chan struct{}
	once sync.Once
	err  error
}

var _ contracts.Awaitable = (*Future)(nil)

func NewFuture(ec contracts.ExecutionContext) *Future {
	return &Future{ec: ec, done: make(chan struct{})}
}

// Resolve completes the future. Only the first call has an effect.
func (f *Future) Resolve(err error) bool {
	resolved := false
	f.once.Do(func() {
		f.err = err
		close(f.done)
		resolved = true
	})
	return resolved
}

func (f *Future) Cancel() bool {
	return f.Resolve(ErrFutureCancelled)
}

func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err is nil until the future resolves.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

func (f *Future) ExecutionContext() contracts.ExecutionContext {
	return f.ec
}

// Go runs fn on its own goroutine. The future is bound to the current
// execution context of ctx and, when there is one, resolves inside it.
func Go(ctx context.Context, fn func(context.Context) error) *Future {
	ec := Current(ctx)
	f := NewFuture(ec)

	go func() {
		err := fn(ctx)
		if ec == nil {
			f.Resolve(err)
			return
		}
		if submitErr := ec.Submit(func() { f.Resolve(err) }); submitErr != nil {
			f.Resolve(submitErr)
		}
	}()

	return f
}
