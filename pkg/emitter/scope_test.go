package emitter

import (
	"reflect"
	"testing"
)

func TestNormalizeScope(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a", "a"},
		{"a.b.c", "a.b.c"},
		{"a..b.", "a.b"},
		{"...", ""},
		{".admin", "admin"},
	}

	for _, tt := range tests {
		if got := normalizeScope(tt.in); got != tt.want {
			t.Errorf("normalizeScope(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestScopeChain(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a", []string{"", "a"}},
		{"a.b.c", []string{"", "a", "a.b", "a.b.c"}},
		{"admin.users", []string{"", "admin", "admin.users"}},
	}

	for _, tt := range tests {
		if got := scopeChain(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("scopeChain(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
