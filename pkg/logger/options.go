package logger

import (
	"io"
	"log/slog"
)

type Option func(*config)

type config struct {
	name        string
	attrs       []any
	level       slog.Level
	json        bool
	addSource   bool
	writer      io.Writer
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	wantColor   bool
}

// WithName tags every record with the component that logs it.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithAttrs adds key/value pairs to every record.
func WithAttrs(args ...any) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, args...)
	}
}

func WithReplaceAttr(f func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(c *config) {
		c.replaceAttr = f
	}
}

func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

func WithText() Option {
	return func(c *config) {
		c.json = false
	}
}

func WithSource() Option {
	return func(c *config) {
		c.addSource = true
	}
}

func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}
		c.writer = w
	}
}

func WithColor() Option {
	return func(c *config) {
		c.wantColor = true
	}
}

// WithDefaultReplaceAttr renders the custom TRACE and CRITICAL levels by name
// after any previously configured replacement ran.
func WithDefaultReplaceAttr() Option {
	return func(c *config) {
		prev := c.replaceAttr
		c.replaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if prev != nil {
				if a = prev(groups, a); a.Equal(slog.Attr{}) {
					return a
				}
			}
			if a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok {
					return slog.String(slog.LevelKey, getLevelName(level))
				}
			}
			return a
		}
	}
}
