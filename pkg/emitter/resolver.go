package emitter

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

var (
	reflectTypeType  = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	runtimeErrorType = reflect.TypeOf((*runtime.Error)(nil)).Elem()
	keyReflectType   = reflect.TypeOf(Key{})

	// Dynamic types of the stdlib error roots. They carry no domain meaning
	// and are never dispatched.
	reservedTypes = map[reflect.Type]struct{}{
		derefType(reflect.TypeOf(stderrors.New(""))):                                       {},
		derefType(reflect.TypeOf(stderrors.Join(context.Canceled, context.Canceled))):      {},
		derefType(reflect.TypeOf(fmt.Errorf("%w", context.Canceled))):                      {},
		derefType(reflect.TypeOf(fmt.Errorf("%w %w", context.Canceled, context.Canceled))): {},
		derefType(reflect.TypeOf(context.DeadlineExceeded)):                                {},
	}
)

type typeInfo struct {
	// ancestors in most to least specific order.
	ancestors []reflect.Type
	// paths holds the field index of each ancestor inside the type.
	paths map[reflect.Type][]int
}

var typeInfos sync.Map

func derefType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func checkEventType(t reflect.Type) error {
	invalid := func(reason string) error {
		name := "nil"
		if t != nil {
			name = t.String()
		}
		return ErrInvalidEvent.WithDetail("type", name).WithDetail("reason", reason)
	}

	switch {
	case t == nil:
		return invalid("no type")
	case t.Name() == "" || t.PkgPath() == "":
		return invalid("event types must be named types declared in a package")
	case t.Kind() == reflect.Interface:
		return invalid("interfaces are not event types")
	case t == keyReflectType || t.Implements(reflectTypeType) || reflect.PointerTo(t).Implements(reflectTypeType):
		return invalid("expected an event instance, got a type")
	case isReserved(t):
		return invalid("low-level error types are not event types")
	}
	return nil
}

func isReserved(t reflect.Type) bool {
	if _, ok := reservedTypes[t]; ok {
		return true
	}
	return t.Implements(runtimeErrorType) || reflect.PointerTo(t).Implements(runtimeErrorType)
}

// resolveEvent returns the exact type of event followed by its ancestors.
func resolveEvent(event any) ([]reflect.Type, error) {
	switch ev := event.(type) {
	case nil:
		return nil, ErrInvalidEvent.WithDetail("type", "nil").WithDetail("reason", "nil event")
	case reflect.Type, Key:
		return nil, ErrInvalidEvent.
			WithDetail("type", fmt.Sprintf("%T", event)).
			WithDetail("reason", "expected an event instance, got a type")
	case error:
		if isReserved(derefType(reflect.TypeOf(ev))) {
			return nil, ErrReservedEvent.WithDetail("type", fmt.Sprintf("%T", ev)).WithCause(ev)
		}
	}

	v := reflect.ValueOf(event)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, ErrInvalidEvent.WithDetail("type", v.Type().String()).WithDetail("reason", "nil pointer")
	}

	exact := derefType(v.Type())
	if err := checkEventType(exact); err != nil {
		return nil, err
	}

	info := typeInfoOf(exact)
	types := make([]reflect.Type, 0, len(info.ancestors)+1)
	types = append(types, exact)
	return append(types, info.ancestors...), nil
}

func typeInfoOf(t reflect.Type) *typeInfo {
	if cached, ok := typeInfos.Load(t); ok {
		return cached.(*typeInfo)
	}

	info := &typeInfo{paths: make(map[reflect.Type][]int)}
	collectAncestors(t, nil, info)

	actual, _ := typeInfos.LoadOrStore(t, info)
	return actual.(*typeInfo)
}

// collectAncestors walks exported embedded struct values depth first in
// declaration order. Pointer embeds are skipped since they may be nil.
func collectAncestors(t reflect.Type, path []int, info *typeInfo) {
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || !f.IsExported() || f.Type.Kind() == reflect.Pointer {
			continue
		}
		if checkEventType(f.Type) != nil {
			continue
		}
		if _, seen := info.paths[f.Type]; seen {
			continue
		}

		fieldPath := make([]int, len(path)+1)
		copy(fieldPath, path)
		fieldPath[len(path)] = i

		info.ancestors = append(info.ancestors, f.Type)
		info.paths[f.Type] = fieldPath
		collectAncestors(f.Type, fieldPath, info)
	}
}
