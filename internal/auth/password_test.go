package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword(t *testing.T) {
	plaintexts := []string{"Secret123", "", "p@ss wörd", "a-much-longer-passphrase-with-symbols!#%"}

	for _, plain := range plaintexts {
		hash, err := HashPassword(plain, bcrypt.MinCost)
		require.NoError(t, err)
		assert.True(t, VerifyPassword(plain, hash), "plaintext %q", plain)
		assert.False(t, VerifyPassword(plain+"x", hash), "plaintext %q", plain)
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("Secret123", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Secret123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("Secret123", first))
	assert.True(t, VerifyPassword("Secret123", second))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	hash, err := HashPassword("Secret123", bcrypt.MinCost)
	require.NoError(t, err)

	for _, stored := range []string{"", "not-a-hash", "$2a$04$", hash[:len(hash)-5], "$9z$04$" + hash[7:]} {
		assert.NotPanics(t, func() {
			assert.False(t, VerifyPassword("Secret123", stored), "stored %q", stored)
		})
	}
}
