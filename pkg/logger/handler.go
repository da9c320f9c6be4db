package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

type textHandler struct {
	mu          *sync.Mutex
	writer      io.Writer
	attrs       []slog.Attr
	groups      []string
	isColored   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	level       slog.Leveler
}

func newTextHandler(
	writer io.Writer,
	isColored bool,
	replaceAttr func(groups []string, a slog.Attr) slog.Attr,
	level slog.Leveler,
) *textHandler {
	return &textHandler{
		mu:          &sync.Mutex{},
		writer:      writer,
		isColored:   isColored,
		replaceAttr: replaceAttr,
		level:       level,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	levelStr := getLevelName(r.Level)
	if h.replaceAttr != nil {
		levelStr = h.replaceAttr(h.groups, slog.String(slog.LevelKey, levelStr)).Value.String()
	}
	if h.isColored {
		levelStr = colorize(levelStr, r.Level)
	}

	var sb strings.Builder
	sb.WriteString(levelStr)
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	write := func(a slog.Attr) {
		if h.replaceAttr != nil {
			a = h.replaceAttr(h.groups, a)
		}
		if a.Key == "" || a.Equal(slog.Attr{}) {
			return
		}
		_, _ = fmt.Fprintf(&sb, " %s%s=%q", prefix, a.Key, a.Value)
	}

	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.attrs = append(c.attrs, attrs...)
	return c
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

func (h *textHandler) clone() *textHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	c.groups = append([]string(nil), h.groups...)
	return &c
}

func colorize(levelStr string, level slog.Level) string {
	const (
		reset  = "\033[0m"
		blue   = "\033[34m"
		cyan   = "\033[36m"
		green  = "\033[32m"
		yellow = "\033[33m"
		red    = "\033[31m"
		white  = "\033[37m"
		redBg  = "\033[41m"
	)

	switch {
	case level == levelCritical:
		return redBg + white + levelStr + reset
	case level < slog.LevelDebug:
		return cyan + levelStr + reset
	case level < slog.LevelInfo:
		return blue + levelStr + reset
	case level < slog.LevelWarn:
		return green + levelStr + reset
	case level < slog.LevelError:
		return yellow + levelStr + reset
	default:
		return red + levelStr + reset
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
