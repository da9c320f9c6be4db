package config

import "github.com/shuldan/emitter/pkg/contracts"

var _ Loader = (*envConfigLoader)(nil)
var _ Loader = (*yamlConfigLoader)(nil)
var _ Loader = (*chainLoader)(nil)

func NewEnvConfigLoader(prefix string) Loader {
	return &envConfigLoader{prefix: prefix}
}

func NewYamlConfigLoader(paths ...string) Loader {
	return &yamlConfigLoader{paths: paths}
}

func NewChainLoader(loaders ...Loader) Loader {
	return &chainLoader{loaders: loaders}
}

func NewMapConfig(values map[string]any) contracts.Config {
	if values == nil {
		values = make(map[string]any)
	}
	return &MapConfig{values: values}
}

// Load runs loader and wraps the result. A loader reporting ErrNoConfigSource
// yields an empty configuration so callers fall back to defaults.
func Load(loader Loader) (contracts.Config, error) {
	values, err := loader.Load()
	if err != nil {
		if isNoSource(err) {
			return NewMapConfig(nil), nil
		}
		return nil, err
	}
	return NewMapConfig(values), nil
}
