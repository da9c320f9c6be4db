package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shuldan/emitter/pkg/contracts"
)

var oddArgsWarning sync.Once

type sLogger struct {
	*slog.Logger
}

var _ contracts.Logger = (*sLogger)(nil)

const componentKey = "component"

func NewLogger(opts ...Option) (contracts.Logger, error) {
	cfg := &config{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.replaceAttr == nil {
		WithDefaultReplaceAttr()(cfg)
	}

	l := slog.New(newHandler(cfg))
	if cfg.name != "" {
		l = l.With(componentKey, cfg.name)
	}
	if len(cfg.attrs) > 0 {
		l = l.With(cfg.attrs...)
	}
	return &sLogger{Logger: l}, nil
}

func newHandler(cfg *config) slog.Handler {
	if cfg.json {
		return slog.NewJSONHandler(cfg.writer, &slog.HandlerOptions{
			Level:       cfg.level,
			AddSource:   cfg.addSource,
			ReplaceAttr: cfg.replaceAttr,
		})
	}
	isColored := cfg.wantColor && isTerminal(cfg.writer)
	return newTextHandler(cfg.writer, isColored, cfg.replaceAttr, cfg.level)
}

// Named returns l tagged with component=name. A nil l gives Nop.
func Named(l contracts.Logger, name string) contracts.Logger {
	if l == nil {
		l = Nop()
	}
	if name == "" {
		return l
	}
	return l.With(componentKey, name)
}

// Nop returns a logger that discards everything.
func Nop() contracts.Logger {
	return &sLogger{Logger: slog.New(newTextHandler(io.Discard, false, nil, levelCritical+1))}
}

func (l *sLogger) Trace(msg string, args ...any) {
	l.LogAttrs(context.Background(), levelTrace, msg, convertArgs(args)...)
}

func (l *sLogger) Debug(msg string, args ...any) {
	l.LogAttrs(context.Background(), slog.LevelDebug, msg, convertArgs(args)...)
}

func (l *sLogger) Info(msg string, args ...any) {
	l.LogAttrs(context.Background(), slog.LevelInfo, msg, convertArgs(args)...)
}

func (l *sLogger) Warn(msg string, args ...any) {
	l.LogAttrs(context.Background(), slog.LevelWarn, msg, convertArgs(args)...)
}

func (l *sLogger) Error(msg string, args ...any) {
	l.LogAttrs(context.Background(), slog.LevelError, msg, convertArgs(args)...)
}

func (l *sLogger) Critical(msg string, args ...any) {
	l.LogAttrs(context.Background(), levelCritical, msg, convertArgs(args)...)
}

func (l *sLogger) With(args ...any) contracts.Logger {
	return &sLogger{Logger: l.Logger.With(args...)}
}

func convertArgs(args []any) []slog.Attr {
	if len(args)%2 != 0 {
		oddArgsWarning.Do(func() {
			slog.Warn("logger called with odd number of args", slog.Any("args", args))
		})
	}

	attrs := make([]slog.Attr, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			attrs = append(attrs, slog.Any("MISSING_KEY", args[i]))
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("NON_STRING_KEY_%T", args[i])
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
