package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_NonDeterministic(t *testing.T) {
	h := NewBcryptHasher()

	h1, err := h.Hash("pw1")
	require.NoError(t, err)
	h2, err := h.Hash("pw1")
	require.NoError(t, err)

	// Each hash embeds a fresh salt.
	assert.NotEqual(t, h1, h2)
	assert.True(t, h.Verify("pw1", h1))
	assert.True(t, h.Verify("pw1", h2))
}

func TestVerify_MismatchReturnsFalse(t *testing.T) {
	h := NewBcryptHasher()

	hash, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("pw1", "not-a-bcrypt-hash"))
}
