package config

import "github.com/shuldan/emitter/pkg/errors"

type chainLoader struct {
	loaders []Loader
}

// Load merges every loader in order, later sources overriding earlier ones.
// Sources reporting ErrNoConfigSource are skipped. Every other failure is
// collected and returned joined, with no values.
func (c *chainLoader) Load() (map[string]any, error) {
	final := make(map[string]any)
	loaded := false
	var failures []error

	for _, loader := range c.loaders {
		config, err := loader.Load()
		if err != nil {
			if !isNoSource(err) {
				failures = append(failures, err)
			}
			continue
		}
		loaded = true
		mergeMaps(final, config)
	}

	if err := errors.Join(failures...); err != nil {
		return nil, err
	}
	if !loaded {
		return nil, ErrNoConfigSource
	}

	return final, nil
}

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if vMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				mergeMaps(dstMap, vMap)
				continue
			}
		}
		dst[k] = v
	}
}

func isNoSource(err error) bool {
	return errors.Is(err, ErrNoConfigSource)
}
