package policy

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// GlobPolicy allows kinds whose canonical key matches at least one glob
// pattern (e.g. "shared-worker", "typed-worker[*]"). An empty pattern list
// allows everything.
type GlobPolicy struct {
	patterns []string
	handler  DenialHandler
}

// NewGlobPolicy creates a policy from glob patterns. Invalid patterns are
// rejected up front so Check never has to report a pattern error.
func NewGlobPolicy(patterns []string, handler DenialHandler) (*GlobPolicy, error) {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		n := normalizePattern(p)
		if !doublestar.ValidatePattern(n) {
			return nil, fmt.Errorf("invalid kind pattern %q", p)
		}
		normalized = append(normalized, n)
	}
	if handler == nil {
		handler = &NopDenialHandler{}
	}
	return &GlobPolicy{patterns: normalized, handler: handler}, nil
}

// normalizePattern escapes the brackets of the parameter tag so they match
// literally instead of opening a glob character class. "typed-worker[*]"
// therefore means "typed-worker with any parameter key".
func normalizePattern(p string) string {
	p = strings.ReplaceAll(p, "[", `\[`)
	return strings.ReplaceAll(p, "]", `\]`)
}

// Check reports the decision, notifying the denial handler on refusal.
func (p *GlobPolicy) Check(desc values.Descriptor) bool {
	if p.Evaluate(desc) {
		return true
	}
	p.handler.OnDenial(desc.Key(), "kind matches no allowed pattern")
	return false
}

// Evaluate returns the decision without side effects.
func (p *GlobPolicy) Evaluate(desc values.Descriptor) bool {
	if len(p.patterns) == 0 {
		return true
	}
	key := desc.Key()
	for _, pattern := range p.patterns {
		if ok, err := doublestar.Match(pattern, key); err == nil && ok {
			return true
		}
	}
	return false
}

var _ ExchangePolicy = (*GlobPolicy)(nil)
