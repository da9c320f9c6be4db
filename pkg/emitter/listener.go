package emitter

import (
	"context"
	"fmt"
	"reflect"

	"github.com/shuldan/emitter/pkg/contracts"
)

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	awaitableType = reflect.TypeOf((*contracts.Awaitable)(nil)).Elem()
)

// Listener is a registered callable. Identity is the pointer: registering the
// same *Listener twice runs it twice, and Remove matches it by reference.
type Listener struct {
	name   string
	param  reflect.Type
	async  bool
	invoke func(ctx context.Context, event reflect.Value) (contracts.Awaitable, error)
}

// Func wraps a synchronous listener of events of type T.
func Func[T any](fn func(context.Context, T) error) *Listener {
	if fn == nil {
		return nil
	}
	return &Listener{
		param: reflect.TypeOf((*T)(nil)).Elem(),
		invoke: func(ctx context.Context, event reflect.Value) (contracts.Awaitable, error) {
			return nil, fn(ctx, event.Interface().(T))
		},
	}
}

// Async wraps a listener whose result completes later. Async listeners are
// bound to an execution context at registration.
func Async[T any](fn func(context.Context, T) contracts.Awaitable) *Listener {
	if fn == nil {
		return nil
	}
	return &Listener{
		param: reflect.TypeOf((*T)(nil)).Elem(),
		async: true,
		invoke: func(ctx context.Context, event reflect.Value) (contracts.Awaitable, error) {
			return fn(ctx, event.Interface().(T)), nil
		},
	}
}

// Handler adapts a func(ctx, T) error, a func(ctx, T) contracts.Awaitable or
// a value with a Handle method of either shape.
func Handler(h any) (*Listener, error) {
	v := reflect.ValueOf(h)
	if !v.IsValid() {
		return nil, ErrInvalidListener.WithDetail("reason", "listener is nil")
	}

	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return nil, ErrInvalidListener.WithDetail("reason", "listener is nil")
		}
		return adaptFunc(v)
	}

	if method := v.MethodByName("Handle"); method.IsValid() {
		return adaptFunc(method)
	}

	return nil, ErrInvalidListener.WithDetail("reason", fmt.Sprintf("%T is neither a func nor has a Handle method", h))
}

func adaptFunc(fn reflect.Value) (*Listener, error) {
	fnType := fn.Type()
	if fnType.NumIn() != 2 || fnType.NumOut() != 1 {
		return nil, ErrInvalidListener.WithDetail("reason", "signature must be (ctx, event) error, got "+fnType.String())
	}
	if !contextType.AssignableTo(fnType.In(0)) {
		return nil, ErrInvalidListener.WithDetail("reason", "first argument must accept context.Context")
	}

	out := fnType.Out(0)
	if out != errorType && out != awaitableType {
		return nil, ErrInvalidListener.WithDetail("reason", "return type must be error or contracts.Awaitable")
	}
	async := out == awaitableType

	return &Listener{
		param: fnType.In(1),
		async: async,
		invoke: func(ctx context.Context, event reflect.Value) (contracts.Awaitable, error) {
			result := fn.Call([]reflect.Value{reflect.ValueOf(&ctx).Elem(), event})[0].Interface()
			if result == nil {
				return nil, nil
			}
			if async {
				return result.(contracts.Awaitable), nil
			}
			return nil, result.(error)
		},
	}, nil
}

// Named sets the name used in logs and error messages.
func (l *Listener) Named(name string) *Listener {
	l.name = name
	return l
}

func (l *Listener) String() string {
	if l == nil {
		return "<nil>"
	}
	if l.name != "" {
		return l.name
	}
	return fmt.Sprintf("listener(%s)@%p", l.param, l)
}

func (l *Listener) IsAsync() bool {
	return l.async
}

// accepts checks that the listener can receive events selected by k.
func (l *Listener) accepts(k Key) error {
	incompatible := ErrIncompatibleListener.
		WithDetail("accepts", l.param.String()).
		WithDetail("key", k.String())

	if l.param.Kind() == reflect.Interface {
		if k.kind == keyScope || k.typ.Implements(l.param) || reflect.PointerTo(k.typ).Implements(l.param) {
			return nil
		}
		return incompatible
	}
	if k.kind == keyScope {
		return incompatible
	}

	base := derefType(l.param)
	if base == k.typ {
		return nil
	}
	if _, ok := typeInfoOf(k.typ).paths[base]; ok {
		return nil
	}
	return incompatible
}

// adapt converts event to the listener's parameter type. Ancestor listeners
// receive the embedded value, addressed inside the event when it was
// emitted by pointer.
func (l *Listener) adapt(event any) (reflect.Value, bool) {
	v := reflect.ValueOf(event)
	target := l.param

	if v.Type().AssignableTo(target) {
		return v, true
	}
	if v.Kind() == reflect.Pointer {
		if elem := v.Elem(); elem.Type().AssignableTo(target) {
			return elem, true
		}
	} else if reflect.PointerTo(v.Type()).AssignableTo(target) {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p, true
	}

	elem := reflect.Indirect(v)
	base := derefType(target)
	path, ok := typeInfoOf(elem.Type()).paths[base]
	if !ok {
		return reflect.Value{}, false
	}

	field := elem.FieldByIndex(path)
	if target.Kind() != reflect.Pointer {
		return field, true
	}
	if field.CanAddr() {
		return field.Addr(), true
	}
	p := reflect.New(base)
	p.Elem().Set(field)
	return p, true
}
