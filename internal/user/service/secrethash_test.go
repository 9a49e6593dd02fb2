package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretHash(t *testing.T) {
	hash := SecretHash("user@example.com", "client-id", "client-secret")

	// deterministic for the same inputs
	assert.Equal(t, hash, SecretHash("user@example.com", "client-id", "client-secret"))

	// any input change yields a different signature
	assert.NotEqual(t, hash, SecretHash("other@example.com", "client-id", "client-secret"))
	assert.NotEqual(t, hash, SecretHash("user@example.com", "other-client", "client-secret"))
	assert.NotEqual(t, hash, SecretHash("user@example.com", "client-id", "other-secret"))

	// a standard-base64 encoded SHA-256 MAC
	raw, err := base64.StdEncoding.DecodeString(hash)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}
