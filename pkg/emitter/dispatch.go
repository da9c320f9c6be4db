package emitter

import (
	"context"
	"reflect"
	"runtime/debug"

	"github.com/shuldan/emitter/pkg/contracts"
	"github.com/shuldan/emitter/pkg/errors"
	"github.com/shuldan/emitter/pkg/loop"
)

var rootChain = []string{""}

// Emit runs every listener applicable to event and waits for them. An error
// event no listener ran for is returned as the error.
func (e *Emitter) Emit(ctx context.Context, event any, opts ...CallOption) (HandleMode, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := buildCall("Emit", emitOptions, opts)
	if err != nil {
		return HandleNone, err
	}

	types, err := resolveEvent(event)
	if err != nil {
		return HandleNone, err
	}

	return e.emit(ctx, event, types, scopeChain(cfg.scope), cfg.namespace)
}

func (e *Emitter) emit(ctx context.Context, event any, types []reflect.Type, chain []string, ns any) (HandleMode, error) {
	global, local := e.candidates(types, chain, ns)

	mode := HandleNone
	ran, err := e.run(ctx, event, global)
	if ran {
		mode |= HandleGlobal
	}
	if err != nil {
		return mode, err
	}

	if ns != nil {
		ran, err = e.run(ctx, event, local)
		if ran {
			mode |= HandleNamespace
		}
		if err != nil {
			return mode, err
		}
	}

	if errEvent, ok := event.(error); ok && mode == HandleNone {
		return mode, errEvent
	}
	return mode, nil
}

// candidates snapshots both candidate lists under one read lock.
func (e *Emitter) candidates(types []reflect.Type, chain []string, ns any) (global, local []*entry) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if reg, ok := e.namespaces[nil]; ok {
		global = reg.collect(types, chain)
	}
	if ns != nil {
		if reg, ok := e.namespaces[ns]; ok {
			local = reg.collect(types, chain)
		}
	}
	return global, local
}

func (e *Emitter) run(ctx context.Context, event any, entries []*entry) (bool, error) {
	ran := false
	for _, en := range entries {
		if err := ctx.Err(); err != nil {
			return ran, err
		}

		arg, ok := en.listener.adapt(event)
		if !ok || !en.claim() {
			continue
		}
		if en.once {
			e.detach(en)
		}

		ran = true
		if err := e.execute(ctx, en, event, arg); err != nil {
			return ran, err
		}
	}
	return ran, nil
}

// execute runs one entry. The returned error aborts the emission.
func (e *Emitter) execute(ctx context.Context, en *entry, event any, arg reflect.Value) error {
	current := loop.Current(ctx)

	if en.bound != nil && !en.bound.Alive() {
		return e.fail(ctx, en, event, e.staleError(en, event, current, nil))
	}

	aw, err := e.invoke(ctx, en, event, arg, current)
	if err == nil && aw != nil {
		err = e.await(ctx, en, event, aw, current)
	}
	if err == nil {
		return nil
	}
	return e.fail(ctx, en, event, err)
}

type invocation struct {
	aw  contracts.Awaitable
	err error
}

// invoke calls the listener directly when it has no affinity or is already
// in its bound context, otherwise it submits the call to that context.
func (e *Emitter) invoke(
	ctx context.Context,
	en *entry,
	event any,
	arg reflect.Value,
	current contracts.ExecutionContext,
) (contracts.Awaitable, error) {
	if en.bound == nil || sameContext(en.bound, current) {
		return call(ctx, en.listener, arg)
	}

	result := make(chan invocation, 1)
	taskCtx := loop.WithCurrent(ctx, en.bound)
	if err := en.bound.Submit(func() {
		aw, err := call(taskCtx, en.listener, arg)
		result <- invocation{aw: aw, err: err}
	}); err != nil {
		return nil, e.staleError(en, event, current, err)
	}

	select {
	case r := <-result:
		return r.aw, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-en.bound.Done():
		select {
		case r := <-result:
			return r.aw, r.err
		default:
			return nil, e.staleError(en, event, current, nil)
		}
	}
}

func (e *Emitter) await(
	ctx context.Context,
	en *entry,
	event any,
	aw contracts.Awaitable,
	current contracts.ExecutionContext,
) error {
	expected := en.bound
	if expected == nil {
		expected = current
	}

	actual := aw.ExecutionContext()
	if expected != nil && actual != nil && !sameContext(expected, actual) {
		return &ExecutionContextError{
			ListenerError: ListenerError{Listener: en.listener, Event: event},
			Expected:      expected,
			Actual:        actual,
		}
	}

	if r, ok := actual.(contracts.Reentrant); ok && sameContext(actual, current) {
		return e.drain(ctx, en, event, aw, r)
	}

	var stopped <-chan struct{}
	if actual != nil {
		stopped = actual.Done()
	}

	select {
	case <-aw.Done():
		return aw.Err()
	case <-ctx.Done():
		return ctx.Err()
	case <-stopped:
		select {
		case <-aw.Done():
			return aw.Err()
		default:
			return &StaleExecutionContextError{ExecutionContextError{
				ListenerError: ListenerError{Listener: en.listener, Event: event},
				Expected:      actual,
			}}
		}
	}
}

// drain waits for a result that resolves in the context the emission itself
// runs in by processing that context's queue instead of blocking it.
func (e *Emitter) drain(
	ctx context.Context,
	en *entry,
	event any,
	aw contracts.Awaitable,
	ec contracts.Reentrant,
) error {
	err := ec.RunUntil(ctx, aw.Done())

	select {
	case <-aw.Done():
		return aw.Err()
	default:
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &StaleExecutionContextError{ExecutionContextError{
		ListenerError: ListenerError{Listener: en.listener, Event: event, Err: err},
		Expected:      ec,
	}}
}

// fail applies the failure policy. It returns the error only when the
// emission must stop.
func (e *Emitter) fail(ctx context.Context, en *entry, event any, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		if !e.recoverPanics {
			panic(panicErr)
		}
		e.panicHandler.Handle(event, en.listener, panicErr.Value, panicErr.Stack)
	}

	if errors.Is(err, loop.ErrFutureCancelled) {
		e.errorHandler.Handle(event, en.listener, err)
		return nil
	}

	var dispatchErr executionContextFailure
	isDispatch := errors.As(err, &dispatchErr)
	if !isDispatch && en.raise {
		return err
	}

	var errEvent error = dispatchErr
	if !isDispatch {
		errEvent = &ListenerError{Listener: en.listener, Event: event, Err: err}
	}

	// Failures while handling an error event are not re-emitted.
	if _, handlingError := event.(error); handlingError {
		e.errorHandler.Handle(event, en.listener, err)
		return nil
	}

	types, _ := resolveEvent(errEvent)
	_, emitErr := e.emit(ctx, errEvent, types, rootChain, en.listener)
	switch {
	case emitErr == nil:
		return nil
	case emitErr == errEvent:
		e.errorHandler.Handle(event, en.listener, err)
		return nil
	default:
		return emitErr
	}
}

func (e *Emitter) staleError(en *entry, event any, current contracts.ExecutionContext, cause error) error {
	e.logger.Debug("listener bound to stopped execution context", "listener", en.listener.String())
	return &StaleExecutionContextError{ExecutionContextError{
		ListenerError: ListenerError{Listener: en.listener, Event: event, Err: cause},
		Expected:      en.bound,
		Actual:        current,
	}}
}

// call invokes the listener and turns a panic into a *PanicError.
func call(ctx context.Context, l *Listener, arg reflect.Value) (aw contracts.Awaitable, err error) {
	defer func() {
		if r := recover(); r != nil {
			aw = nil
			err = &PanicError{Listener: l, Value: r, Stack: debug.Stack()}
		}
	}()
	return l.invoke(ctx, arg)
}

// sameContext compares execution contexts without panicking on
// implementations that are not comparable.
func sameContext(a, b contracts.ExecutionContext) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}
