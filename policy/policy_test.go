package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typelink-dev/typelink-sdk/kind/values"
	"github.com/typelink-dev/typelink-sdk/policy"
)

type recordingHandler struct {
	denied []string
}

func (h *recordingHandler) OnDenial(kind string, reason string) {
	h.denied = append(h.denied, kind)
}

func desc(t *testing.T, name, param string) values.Descriptor {
	t.Helper()
	if param == "" {
		return values.MustNewDescriptor(name, nil)
	}
	return values.MustNewParameterizedDescriptor(name, param, nil)
}

func Test_GlobPolicy_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		kind     string
		param    string
		want     bool
	}{
		{"exact match", []string{"shared-worker"}, "shared-worker", "", true},
		{"no match", []string{"shared-worker"}, "other-worker", "", false},
		{"param wildcard", []string{"typed-worker[*]"}, "typed-worker", "integer", true},
		{"param wildcard text", []string{"typed-worker[*]"}, "typed-worker", "text", true},
		{"wildcard misses plain kind", []string{"typed-worker[*]"}, "shared-worker", "", false},
		{"empty allows everything", nil, "anything", "", true},
		{"second pattern matches", []string{"shared-worker", "typed-worker[*]"}, "typed-worker", "integer", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := policy.NewGlobPolicy(tt.patterns, &policy.NopDenialHandler{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Evaluate(desc(t, tt.kind, tt.param)))
		})
	}
}

func Test_GlobPolicy_CheckNotifiesHandler(t *testing.T) {
	handler := &recordingHandler{}
	p, err := policy.NewGlobPolicy([]string{"shared-worker"}, handler)
	require.NoError(t, err)

	assert.True(t, p.Check(desc(t, "shared-worker", "")))
	assert.Empty(t, handler.denied)

	assert.False(t, p.Check(desc(t, "typed-worker", "integer")))
	assert.Equal(t, []string{"typed-worker[integer]"}, handler.denied)
}

func Test_GlobPolicy_EvaluateHasNoSideEffects(t *testing.T) {
	handler := &recordingHandler{}
	p, err := policy.NewGlobPolicy([]string{"shared-worker"}, handler)
	require.NoError(t, err)

	assert.False(t, p.Evaluate(desc(t, "other", "")))
	assert.Empty(t, handler.denied)
}

func Test_NewGlobPolicy_RejectsInvalidPattern(t *testing.T) {
	_, err := policy.NewGlobPolicy([]string{"worker{"}, nil)
	assert.Error(t, err)
}

func Test_NewGlobPolicy_DefaultsHandler(t *testing.T) {
	p, err := policy.NewGlobPolicy(nil, nil)
	require.NoError(t, err)
	assert.True(t, p.Check(desc(t, "anything", "")))
}
