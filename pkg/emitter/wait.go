package emitter

import "context"

// Wait blocks until the next event matching key is emitted or ctx is done.
func (e *Emitter) Wait(ctx context.Context, key Key, opts ...CallOption) (any, error) {
	return wait[any](ctx, e, "Wait", key, opts)
}

// WaitFor is the typed form of Wait.
func WaitFor[T any](ctx context.Context, e *Emitter, opts ...CallOption) (T, error) {
	return wait[T](ctx, e, "WaitFor", Event[T](), opts)
}

func wait[T any](ctx context.Context, e *Emitter, operation string, key Key, opts []CallOption) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}

	received := make(chan T, 1)
	l := Func(func(_ context.Context, event T) error {
		select {
		case received <- event:
		default:
		}
		return nil
	}).Named(operation)

	if _, err := buildCall(operation, waitOptions, opts); err != nil {
		return zero, err
	}
	en, err := e.register(ctx, operation, onOptions, key, l, append(opts[:len(opts):len(opts)], Once()))
	if err != nil {
		return zero, err
	}

	select {
	case event := <-received:
		return event, nil
	case <-ctx.Done():
		e.detach(en)
		return zero, ctx.Err()
	}
}
