package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostingPolicyHolder_DefaultsWhenNoFile(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	holder, err := NewPostingPolicyHolder()
	require.NoError(t, err)

	policy := holder.Current()
	assert.Equal(t, DefaultPostingPolicy(), policy)
	assert.GreaterOrEqual(t, policy.MaxConcurrency, 1)
}

func TestSanitizePolicy(t *testing.T) {
	p := sanitizePolicy(PostingPolicy{MaxConcurrency: 0, SubmitTimeoutSeconds: -1})
	assert.Equal(t, 1, p.MaxConcurrency)
	assert.Equal(t, DefaultPostingPolicy().SubmitTimeoutSeconds, p.SubmitTimeoutSeconds)
}
