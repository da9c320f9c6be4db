package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
)

type yamlConfigLoader struct {
	paths []string
}

// Load returns the first readable file among paths. Missing files are skipped.
func (l *yamlConfigLoader) Load() (map[string]any, error) {
	for _, path := range l.paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, ErrReadFile.WithDetail("path", path).WithCause(err)
		}

		config := make(map[string]any)
		if err = yaml.Unmarshal(data, &config); err != nil {
			return nil, ErrParseYAML.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}

		return config, nil
	}

	return nil, ErrNoConfigSource
}
