package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckToken(t *testing.T) {
	hash, err := HashToken("s3cret-token", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-token", hash)

	assert.True(t, CheckToken("s3cret-token", hash))
	assert.False(t, CheckToken("wrong-token", hash))
	assert.False(t, CheckToken("", hash))
	assert.False(t, CheckToken("s3cret-token", ""))
	assert.False(t, CheckToken("s3cret-token", "not-a-bcrypt-hash"))
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 32)
	for _, c := range first {
		assert.Contains(t, tokenCharset, string(c))
	}

	second, err := GenerateToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
