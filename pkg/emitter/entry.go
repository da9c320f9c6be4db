package emitter

import (
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/shuldan/emitter/pkg/contracts"
)

// bucketKey addresses one ordered collection of entries. A nil eventType is
// the type-agnostic collection of a scope.
type bucketKey struct {
	eventType reflect.Type
	scope     string
}

type entry struct {
	listener  *Listener
	once      bool
	raise     bool
	bound     contracts.ExecutionContext
	tags      map[uuid.UUID]struct{}
	namespace any
	key       bucketKey

	// fired claims a once entry for exactly one emission.
	fired atomic.Bool
}

func (e *entry) claim() bool {
	if !e.once {
		return true
	}
	return e.fired.CompareAndSwap(false, true)
}

func (e *entry) taggedWithAny(ids map[uuid.UUID]struct{}) bool {
	for id := range e.tags {
		if _, ok := ids[id]; ok {
			return true
		}
	}
	return false
}
