package emitter

import "github.com/shuldan/emitter/pkg/contracts"

// FromConfig reads the emitter section of cfg:
//
//	emitter:
//	  recover_panics: true
//	  raise_on_error: false
func FromConfig(cfg contracts.Config) []Option {
	return []Option{
		WithRecoverPanics(cfg.GetBool("emitter.recover_panics", true)),
		WithRaiseOnError(cfg.GetBool("emitter.raise_on_error", false)),
	}
}
