package emitter

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shuldan/emitter/pkg/contracts"
	shErrors "github.com/shuldan/emitter/pkg/errors"
	"github.com/shuldan/emitter/pkg/loop"
)

type auditListener struct {
	seen []int
}

func (a *auditListener) Handle(_ context.Context, e *UserCreated) error {
	a.seen = append(a.seen, e.ID)
	return nil
}

type badMethodListener struct{}

func (badMethodListener) Handle(e *UserCreated) error { return nil }

func TestHandler_Function(t *testing.T) {
	boom := errors.New("boom")
	l, err := Handler(func(_ context.Context, e UserCreated) error {
		if e.ID == 0 {
			return boom
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if l.IsAsync() {
		t.Error("error-returning func should be sync")
	}

	e := newTestEmitter(WithRaiseOnError(true))
	mustOn(t, e, context.Background(), Event[UserCreated](), l)

	if _, err = e.Emit(context.Background(), &UserCreated{UserEvent: UserEvent{ID: 1}}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if _, err = e.Emit(context.Background(), UserCreated{}); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestHandler_Method(t *testing.T) {
	audit := &auditListener{}
	l, err := Handler(audit)
	if err != nil {
		t.Fatal(err)
	}

	e := newTestEmitter()
	mustOn(t, e, context.Background(), Event[UserCreated](), l)
	mustEmit(t, e, context.Background(), &UserCreated{UserEvent: UserEvent{ID: 5}})

	if len(audit.seen) != 1 || audit.seen[0] != 5 {
		t.Errorf("unexpected calls %v", audit.seen)
	}
}

func TestHandler_Invalid(t *testing.T) {
	var nilFunc func(context.Context, *UserCreated) error

	tests := []struct {
		name string
		h    any
	}{
		{"nil", nil},
		{"nil func", nilFunc},
		{"not callable", 42},
		{"no context", func(*UserCreated) error { return nil }},
		{"context not first", func(*UserCreated, context.Context) error { return nil }},
		{"wrong result", func(context.Context, *UserCreated) int { return 0 }},
		{"two results", func(context.Context, *UserCreated) (int, error) { return 0, nil }},
		{"bad method", badMethodListener{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Handler(tt.h); !shErrors.Is(err, ErrInvalidListener) {
				t.Errorf("expected ErrInvalidListener, got %v", err)
			}
		})
	}
}

func TestListener_String(t *testing.T) {
	l := Func(func(context.Context, *UserCreated) error { return nil })
	if !strings.HasPrefix(l.String(), "listener(*emitter.UserCreated)@0x") {
		t.Errorf("unexpected default name %q", l.String())
	}
	if l.Named("audit").String() != "audit" {
		t.Error("Named should set the name")
	}
	if (*Listener)(nil).String() != "<nil>" {
		t.Error("nil listener should render as <nil>")
	}
}

func TestListener_Adapt(t *testing.T) {
	event := &AdminUserCreated{UserCreated: UserCreated{UserEvent: UserEvent{ID: 3}}}

	tests := []struct {
		name  string
		l     *Listener
		event any
		want  reflect.Type
		ok    bool
	}{
		{"exact pointer", record[*AdminUserCreated](&recorder{}, ""), event, reflect.TypeOf(event), true},
		{"exact value", record[AdminUserCreated](&recorder{}, ""), event, reflect.TypeOf(*event), true},
		{"value to pointer", record[*AdminUserCreated](&recorder{}, ""), *event, reflect.TypeOf(event), true},
		{"ancestor pointer", record[*UserEvent](&recorder{}, ""), event, reflect.TypeOf(&UserEvent{}), true},
		{"ancestor value", record[UserCreated](&recorder{}, ""), *event, reflect.TypeOf(UserCreated{}), true},
		{"interface", record[any](&recorder{}, ""), event, reflect.TypeOf(event), true},
		{"unrelated", record[*OrderPlaced](&recorder{}, ""), event, nil, false},
		{"interface not implemented", record[error](&recorder{}, ""), event, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.l.adapt(tt.event)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got.Type() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got.Type())
			}
		})
	}
}

func TestListener_AsyncNilAwaitable(t *testing.T) {
	e := newTestEmitter()
	lp := loop.New()
	ctx := loop.WithCurrent(context.Background(), lp)

	ran := false
	mustOn(t, e, ctx, Event[UserCreated](), Async(func(context.Context, *UserCreated) contracts.Awaitable {
		ran = true
		return nil
	}))

	mustEmit(t, e, ctx, UserCreated{})
	if !ran {
		t.Error("a nil awaitable counts as an immediate completion")
	}
}
