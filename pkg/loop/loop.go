package loop

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/shuldan/emitter/pkg/contracts"
	"github.com/shuldan/emitter/pkg/logger"
)

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

// Loop runs submitted tasks one at a time on the goroutine that called Run.
// Tasks submitted before Run are queued. A stopped loop never runs again.
type Loop struct {
	name   string
	logger contracts.Logger

	mu    sync.Mutex
	queue []func()

	state    atomic.Int32
	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	ready    chan struct{}
	stopOnce sync.Once
	doneOnce sync.Once
}

var _ contracts.Reentrant = (*Loop)(nil)

func New(opts ...Option) *Loop {
	cfg := &config{name: "loop"}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Loop{
		name:   cfg.name,
		logger: logger.Named(cfg.logger, "loop").With("loop", cfg.name),
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
	}
}

func (l *Loop) Name() string {
	return l.name
}

func (l *Loop) String() string {
	return "loop(" + l.name + ")"
}

// Run processes tasks until Stop is called or ctx is done. Cancelling ctx
// stops the loop for good.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(stateIdle, stateRunning) {
		if l.state.Load() == stateStopped {
			return ErrLoopStopped.WithDetail("name", l.name)
		}
		return ErrLoopRunning.WithDetail("name", l.name)
	}
	defer l.doneOnce.Do(func() { close(l.done) })

	close(l.ready)
	l.logger.Debug("loop started")

	for {
		for task := l.next(); task != nil; task = l.next() {
			select {
			case <-l.stop:
				l.logger.Debug("loop stopped")
				return nil
			default:
			}
			l.run(task)
		}

		select {
		case <-l.wake:
		case <-l.stop:
			l.logger.Debug("loop stopped")
			return nil
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		}
	}
}

// Stop is permanent. Queued tasks that did not start are dropped.
func (l *Loop) Stop() {
	prev := l.state.Swap(stateStopped)
	l.stopOnce.Do(func() { close(l.stop) })
	if prev == stateIdle {
		l.doneOnce.Do(func() { close(l.done) })
	}
}

// RunUntil keeps processing queued tasks from inside a running task until done
// is closed. Tasks waiting on results that resolve on the same loop use it
// instead of blocking the loop goroutine.
func (l *Loop) RunUntil(ctx context.Context, done <-chan struct{}) error {
	switch l.state.Load() {
	case stateStopped:
		return ErrLoopStopped.WithDetail("name", l.name)
	case stateIdle:
		return ErrLoopNotRunning.WithDetail("name", l.name)
	}

	for {
		select {
		case <-done:
			return nil
		case <-l.stop:
			return ErrLoopStopped.WithDetail("name", l.name)
		default:
		}

		if task := l.next(); task != nil {
			l.run(task)
			continue
		}

		select {
		case <-done:
			return nil
		case <-l.wake:
		case <-l.stop:
			return ErrLoopStopped.WithDetail("name", l.name)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) Alive() bool {
	return l.state.Load() != stateStopped
}

// Ready is closed once Run starts processing.
func (l *Loop) Ready() <-chan struct{} {
	return l.ready
}

func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Submit(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	if !l.Alive() {
		return ErrLoopStopped.WithDetail("name", l.name)
	}

	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Go runs fn on the loop with the loop as the current execution context of
// the ctx it receives. The returned future resolves on the loop.
func (l *Loop) Go(ctx context.Context, fn func(context.Context) error) *Future {
	f := NewFuture(l)
	taskCtx := WithCurrent(ctx, l)
	if err := l.Submit(func() { f.Resolve(fn(taskCtx)) }); err != nil {
		f.Resolve(err)
	}
	return f
}

// Future returns an unresolved future bound to the loop.
func (l *Loop) Future() *Future {
	return NewFuture(l)
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Critical("task panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}
