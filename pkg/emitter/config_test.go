package emitter

import (
	"testing"

	cfgpkg "github.com/shuldan/emitter/pkg/config"
)

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		values      map[string]any
		wantRecover bool
		wantRaise   bool
	}{
		{"defaults", nil, true, false},
		{"explicit", map[string]any{"emitter": map[string]any{"recover_panics": false, "raise_on_error": "yes"}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEmitter(FromConfig(cfgpkg.NewMapConfig(tt.values))...)
			if e.recoverPanics != tt.wantRecover || e.raiseOnError != tt.wantRaise {
				t.Errorf("expected recover=%v raise=%v, got %v %v",
					tt.wantRecover, tt.wantRaise, e.recoverPanics, e.raiseOnError)
			}
		})
	}
}
