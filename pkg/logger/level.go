package logger

import (
	"log/slog"
	"strings"
)

const (
	levelTrace    = slog.LevelDebug - 4
	levelCritical = slog.LevelError + 4
)

var levelNames = map[slog.Level]string{
	levelTrace:    "TRACE",
	levelCritical: "CRITICAL",
}

func getLevelName(level slog.Leveler) string {
	if name, ok := levelNames[level.Level()]; ok {
		return name
	}
	return level.Level().String()
}

// ParseLevel maps a level name, case-insensitively, to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return levelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical", "fatal":
		return levelCritical, nil
	}
	return slog.LevelInfo, ErrUnknownLevel.WithDetail("level", name)
}
