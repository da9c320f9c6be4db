package emitter

import "github.com/shuldan/emitter/pkg/errors"

var newEmitterCode = errors.WithPrefix("EMITTER")

var (
	ErrInvalidEvent         = newEmitterCode().New("invalid event {{.type}}: {{.reason}}")
	ErrReservedEvent        = newEmitterCode().New("{{.type}} is a low-level error and cannot be emitted")
	ErrMissingKey           = newEmitterCode().New("an event or scope key is required")
	ErrInvalidListener      = newEmitterCode().New("invalid listener: {{.reason}}")
	ErrIncompatibleListener = newEmitterCode().New("listener accepting {{.accepts}} cannot handle {{.key}}")
	ErrInvalidNamespace     = newEmitterCode().New("namespace of type {{.type}} is not comparable")
	ErrInvalidOption        = newEmitterCode().New("option {{.option}} is not allowed for {{.operation}}")
	ErrInvalidRemoval       = newEmitterCode().New("scope removal requires an event key")
	ErrNoExecutionContext   = newEmitterCode().New("async listener {{.listener}} needs an execution context")
	ErrGroupClosed          = newEmitterCode().New("group {{.group}} is closed")
)
