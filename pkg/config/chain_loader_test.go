package config

import (
	"testing"

	"github.com/shuldan/emitter/pkg/errors"
)

type mockLoader struct {
	values map[string]any
	err    error
}

func (m *mockLoader) Load() (map[string]any, error) {
	return m.values, m.err
}

func TestChainLoader_MergesInOrder(t *testing.T) {
	chain := NewChainLoader(
		&mockLoader{values: map[string]any{
			"loop":    map[string]any{"name": "base", "size": 1},
			"emitter": map[string]any{"recover_panics": true},
		}},
		&mockLoader{err: ErrNoConfigSource},
		&mockLoader{values: map[string]any{
			"loop": map[string]any{"name": "override"},
		}},
	)

	values, err := chain.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := NewMapConfig(values)
	if cfg.GetString("loop.name") != "override" {
		t.Errorf("expected later loader to win, got %q", cfg.GetString("loop.name"))
	}
	if cfg.GetInt("loop.size") != 1 {
		t.Error("expected untouched nested keys to survive merge")
	}
	if !cfg.GetBool("emitter.recover_panics") {
		t.Error("expected first loader values")
	}
}

func TestChainLoader_AllMissing(t *testing.T) {
	_, err := NewChainLoader(&mockLoader{err: ErrNoConfigSource}).Load()
	if !errors.Is(err, ErrNoConfigSource) {
		t.Errorf("expected ErrNoConfigSource, got %v", err)
	}
}

func TestChainLoader_PropagatesFailure(t *testing.T) {
	failure := ErrReadFile.WithDetail("path", "x")
	_, err := NewChainLoader(
		&mockLoader{values: map[string]any{}},
		&mockLoader{err: failure},
	).Load()
	if !errors.Is(err, ErrReadFile) {
		t.Errorf("expected ErrReadFile, got %v", err)
	}
}

func TestChainLoader_ReportsEveryFailure(t *testing.T) {
	values, err := NewChainLoader(
		&mockLoader{err: ErrReadFile.WithDetail("path", "a.yaml")},
		&mockLoader{values: map[string]any{"loop": map[string]any{"name": "ui"}}},
		&mockLoader{err: ErrParseYAML.WithDetail("path", "b.yaml")},
	).Load()

	if values != nil {
		t.Errorf("expected no values on failure, got %v", values)
	}
	if !errors.Is(err, ErrReadFile) || !errors.Is(err, ErrParseYAML) {
		t.Errorf("expected both failures, got %v", err)
	}
}

func TestLoad_FallsBackToEmpty(t *testing.T) {
	cfg, err := Load(&mockLoader{err: ErrNoConfigSource})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.All()) != 0 {
		t.Error("expected empty config")
	}

	if _, err = Load(&mockLoader{err: ErrReadFile}); !errors.Is(err, ErrReadFile) {
		t.Errorf("expected ErrReadFile, got %v", err)
	}
}
