package loop

import "github.com/shuldan/emitter/pkg/errors"

var newLoopCode = errors.WithPrefix("LOOP")

var (
	ErrLoopRunning     = newLoopCode().New("loop {{.name}} is already running")
	ErrLoopStopped     = newLoopCode().New("loop {{.name}} is stopped")
	ErrFutureCancelled = newLoopCode().New("future was cancelled")
	ErrNilTask         = newLoopCode().New("task must not be nil")
	ErrLoopNotRunning  = newLoopCode().New("loop {{.name}} is not running")
)
