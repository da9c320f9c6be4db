package loop

import (
	"github.com/shuldan/emitter/pkg/contracts"
)

type Option func(*config)

type config struct {
	name   string
	logger contracts.Logger
}

func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

func WithLogger(l contracts.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// FromConfig reads loop.name.
func FromConfig(cfg contracts.Config) []Option {
	return []Option{WithName(cfg.GetString("loop.name"))}
}
