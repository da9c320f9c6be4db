package logger

import (
	"io"
	"strings"

	"github.com/shuldan/emitter/pkg/contracts"
)

// FromConfig reads the logger section of cfg:
//
//	logger:
//	  name: demo       # component attribute on every record
//	  level: debug     # trace, debug, info, warn, error, critical
//	  format: json     # text (default) or json
//	  color: true
//	  source: false
func FromConfig(cfg contracts.Config, w io.Writer) ([]Option, error) {
	level, err := ParseLevel(cfg.GetString("logger.level", "info"))
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLevel(level), WithWriter(w), WithName(cfg.GetString("logger.name"))}

	switch format := strings.ToLower(cfg.GetString("logger.format", "text")); format {
	case "text":
		opts = append(opts, WithText())
	case "json":
		opts = append(opts, WithJSON())
	default:
		return nil, ErrUnknownFormat.WithDetail("format", format)
	}

	if cfg.GetBool("logger.color") {
		opts = append(opts, WithColor())
	}
	if cfg.GetBool("logger.source") {
		opts = append(opts, WithSource())
	}

	return opts, nil
}
