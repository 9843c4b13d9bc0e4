package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigningKey(t *testing.T) {
	_, err := NewSigningKey([]byte("too-short"))
	assert.Error(t, err)

	secret := []byte(strings.Repeat("k", MinSigningKeyLength))
	key, err := NewSigningKey(secret)
	require.NoError(t, err)

	secret[0] = 'x'
	raw, err := key.bytes()
	require.NoError(t, err)
	assert.Equal(t, byte('k'), raw[0])
}

func TestGenerateSigningKey(t *testing.T) {
	first, err := GenerateSigningKey()
	require.NoError(t, err)
	second, err := GenerateSigningKey()
	require.NoError(t, err)

	a, _ := first.bytes()
	b, _ := second.bytes()
	assert.Len(t, a, MinSigningKeyLength)
	assert.NotEqual(t, a, b)

	_, err = SigningKey{}.bytes()
	assert.Error(t, err)
}
