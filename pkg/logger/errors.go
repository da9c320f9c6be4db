package logger

import "github.com/shuldan/emitter/pkg/errors"

var newLoggerCode = errors.WithPrefix("LOGGER")

var (
	ErrUnknownLevel  = newLoggerCode().New("unknown log level {{.level}}")
	ErrUnknownFormat = newLoggerCode().New("unknown log format {{.format}}, expected text or json")
)
