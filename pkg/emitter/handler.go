package emitter

import (
	"fmt"

	"github.com/shuldan/emitter/pkg/contracts"
	"github.com/shuldan/emitter/pkg/errors"
)

// ErrorHandler receives failures that cannot be emitted as events: failures of
// listeners handling an error event, and error events nobody listened to.
type ErrorHandler interface {
	Handle(event any, listener *Listener, err error)
}

type PanicHandler interface {
	Handle(event any, listener *Listener, value any, stack []byte)
}

type logErrorHandler struct {
	logger contracts.Logger
}

func NewLogErrorHandler(l contracts.Logger) ErrorHandler {
	return &logErrorHandler{logger: l}
}

func (h *logErrorHandler) Handle(event any, listener *Listener, err error) {
	args := []any{
		"listener", listener.String(),
		"event", fmt.Sprintf("%T", event),
		"error", err,
	}
	if code := errors.GetErrorCode(err); code != "" {
		args = append(args, "code", string(code))
	}
	h.logger.Error("unhandled listener failure", args...)
}

type logPanicHandler struct {
	logger contracts.Logger
}

func NewLogPanicHandler(l contracts.Logger) PanicHandler {
	return &logPanicHandler{logger: l}
}

func (h *logPanicHandler) Handle(event any, listener *Listener, value any, stack []byte) {
	h.logger.Critical("listener panicked",
		"listener", listener.String(),
		"event", fmt.Sprintf("%T", event),
		"panic", value,
		"stack", string(stack),
	)
}
