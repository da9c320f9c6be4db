package emitter

import (
	"fmt"
	"reflect"
)

type keyKind uint8

const (
	keyNone keyKind = iota
	keyType
	keyScope
)

// Key selects what a listener is registered for: an event type or a scope.
// The zero Key selects nothing and is only meaningful for Remove and Retrieve.
type Key struct {
	kind  keyKind
	typ   reflect.Type
	scope string
	err   error
}

// Event is the key of event type T. T and *T share one key.
func Event[T any]() Key {
	return typeKey(reflect.TypeOf((*T)(nil)).Elem())
}

// EventOf is the key of the dynamic type of event.
func EventOf(event any) Key {
	switch event.(type) {
	case nil:
		return Key{kind: keyType, err: ErrInvalidEvent.
			WithDetail("type", "nil").
			WithDetail("reason", "no type")}
	case reflect.Type, Key:
		return Key{kind: keyType, err: ErrInvalidEvent.
			WithDetail("type", fmt.Sprintf("%T", event)).
			WithDetail("reason", "expected an event instance, got a type")}
	}
	return typeKey(reflect.TypeOf(event))
}

// ScopeKey is the key of a dot-delimited scope. Empty segments are dropped.
func ScopeKey(scope string) Key {
	return Key{kind: keyScope, scope: normalizeScope(scope)}
}

func typeKey(t reflect.Type) Key {
	t = derefType(t)
	return Key{kind: keyType, typ: t, err: checkEventType(t)}
}

func (k Key) IsZero() bool {
	return k.kind == keyNone
}

func (k Key) IsScope() bool {
	return k.kind == keyScope
}

// Type is nil for scope keys.
func (k Key) Type() reflect.Type {
	return k.typ
}

func (k Key) Scope() string {
	return k.scope
}

func (k Key) String() string {
	switch k.kind {
	case keyType:
		if k.typ == nil {
			return "event(nil)"
		}
		return "event(" + k.typ.String() + ")"
	case keyScope:
		return "scope(" + k.scope + ")"
	}
	return "none"
}

func (k Key) validate() error {
	if k.kind == keyNone {
		return ErrMissingKey
	}
	return k.err
}
