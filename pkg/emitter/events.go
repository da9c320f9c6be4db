package emitter

import (
	"fmt"
	"strings"

	"github.com/shuldan/emitter/pkg/contracts"
)

// HandleMode reports which namespaces had at least one listener run.
type HandleMode uint8

const (
	HandleNone      HandleMode = 0
	HandleGlobal    HandleMode = 1 << 0
	HandleNamespace HandleMode = 1 << 1
)

func (m HandleMode) Has(flag HandleMode) bool {
	return m&flag == flag && flag != 0
}

func (m HandleMode) String() string {
	if m == HandleNone {
		return "none"
	}
	var parts []string
	if m.Has(HandleGlobal) {
		parts = append(parts, "global")
	}
	if m.Has(HandleNamespace) {
		parts = append(parts, "namespace")
	}
	return strings.Join(parts, "|")
}

// ListenerError is emitted when a listener fails and was not registered with
// RaiseOnError. It is emitted in the failing listener's namespace.
type ListenerError struct {
	Listener *Listener
	Event    any
	Err      error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s failed handling %T: %v", e.Listener, e.Event, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// ExecutionContextError is emitted when an async listener resolved in an
// execution context other than the one it was bound to.
type ExecutionContextError struct {
	ListenerError
	Expected contracts.ExecutionContext
	Actual   contracts.ExecutionContext
}

func (e *ExecutionContextError) Error() string {
	return fmt.Sprintf("listener %s handling %T resolved in %v, expected %v",
		e.Listener, e.Event, e.Actual, e.Expected)
}

func (e *ExecutionContextError) executionContextFailure() {}

// StaleExecutionContextError is emitted instead of invoking a listener whose
// execution context stopped.
type StaleExecutionContextError struct {
	ExecutionContextError
}

func (e *StaleExecutionContextError) Error() string {
	return fmt.Sprintf("listener %s is bound to stopped execution context %v", e.Listener, e.Expected)
}

// executionContextFailure marks dispatch failures that are always emitted,
// whatever the listener's raise policy.
type executionContextFailure interface {
	error
	executionContextFailure()
}

// PanicError is the failure recorded for a listener that panicked.
type PanicError struct {
	Listener *Listener
	Value    any
	Stack    []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("listener %s panicked: %v", e.Listener, e.Value)
}
