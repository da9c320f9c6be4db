package logger

import (
	"bytes"
	"strings"
	"testing"

	cfgpkg "github.com/shuldan/emitter/pkg/config"
	"github.com/shuldan/emitter/pkg/errors"
)

func TestFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := cfgpkg.NewMapConfig(map[string]any{
		"logger": map[string]any{"level": "warn", "format": "json", "name": "demo"},
	})

	opts, err := FromConfig(cfg, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log, err := NewLogger(opts...)
	if err != nil {
		t.Fatal(err)
	}

	log.Info("dropped")
	log.Warn("kept", "listener", "audit")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info must be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"listener":"audit"`) || !strings.Contains(out, `"component":"demo"`) {
		t.Errorf("expected json record, got %q", out)
	}
}

func TestFromConfig_Defaults(t *testing.T) {
	buf := &bytes.Buffer{}
	opts, err := FromConfig(cfgpkg.NewMapConfig(nil), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log, _ := NewLogger(opts...)
	log.Debug("hidden")
	log.Info("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.HasPrefix(out, "INFO shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   error
	}{
		{"level", map[string]any{"logger": map[string]any{"level": "loud"}}, ErrUnknownLevel},
		{"format", map[string]any{"logger": map[string]any{"format": "xml"}}, ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(cfgpkg.NewMapConfig(tt.values), &bytes.Buffer{})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
