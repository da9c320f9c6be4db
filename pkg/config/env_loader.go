package config

import (
	"os"
	"strconv"
	"strings"
)

type envConfigLoader struct {
	prefix string
}

// Load maps PREFIX_A__B=value to the key "a.b". Values that parse as bool,
// int or float are stored typed.
func (l *envConfigLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, l.prefix) {
			continue
		}

		configKey := strings.ToLower(strings.TrimPrefix(key, l.prefix))
		configKey = strings.ReplaceAll(configKey, "__", ".")
		if configKey == "" {
			continue
		}

		setNested(config, configKey, typedValue(value))
	}

	return config, nil
}

func typedValue(value string) any {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func setNested(m map[string]any, key string, value any) {
	keys := strings.Split(key, ".")
	last := len(keys) - 1

	current := m
	for i, k := range keys {
		if i == last {
			current[k] = value
			return
		}
		next, ok := current[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
}
