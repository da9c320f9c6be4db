package emitter

import "strings"

const scopeDelimiter = "."

// normalizeScope drops empty segments: "a..b." becomes "a.b".
func normalizeScope(scope string) string {
	if scope == "" {
		return ""
	}
	parts := strings.Split(scope, scopeDelimiter)
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, scopeDelimiter)
}

// scopeChain returns the prefixes of a normalized scope from the root down,
// "a.b" yields ["", "a", "a.b"].
func scopeChain(scope string) []string {
	chain := []string{""}
	if scope == "" {
		return chain
	}
	for i := 0; i < len(scope); i++ {
		if scope[i] == scopeDelimiter[0] {
			chain = append(chain, scope[:i])
		}
	}
	return append(chain, scope)
}
