package contracts

import "context"

// ExecutionContext is a place where listener code runs, typically an event
// loop owned by a single goroutine.
type ExecutionContext interface {
	// Submit schedules task to run inside the execution context.
	Submit(task func()) error
	// Alive reports whether the context still accepts work.
	// Once it returns false it never returns true again.
	Alive() bool
	// Done is closed once the context stopped for good and runs no more tasks.
	Done() <-chan struct{}
}

// Reentrant is an ExecutionContext that can keep processing its own queue
// from inside one of its tasks. RunUntil must only be called from a task
// running in the context; it returns once done is closed, ctx is done or the
// context stops.
type Reentrant interface {
	ExecutionContext
	RunUntil(ctx context.Context, done <-chan struct{}) error
}

// Awaitable is the asynchronous result of a listener.
type Awaitable interface {
	Done() <-chan struct{}
	Err() error
	// ExecutionContext is the context the result resolves in, nil if it has no affinity.
	ExecutionContext() ExecutionContext
}
