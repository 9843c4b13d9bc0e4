package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClaimSet(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 678_901_234, time.UTC)

	claims, err := NewClaimSet("alice@example.com", []string{"USER", "ADMIN", "USER"}, issued, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", claims.Subject())
	assert.Equal(t, []string{"USER", "ADMIN"}, claims.Roles())
	assert.True(t, claims.IssuedAt().Equal(time.Date(2026, 1, 2, 3, 4, 5, 678_000_000, time.UTC)))
	assert.Equal(t, time.Hour, claims.Validity())
	assert.True(t, claims.ExpiresAt().After(claims.IssuedAt()))
}

func TestNewClaimSetRejectsInvalidInput(t *testing.T) {
	now := time.Now()

	_, err := NewClaimSet("", []string{"USER"}, now, time.Hour)
	assert.Error(t, err)

	_, err = NewClaimSet("alice@example.com", nil, now, 0)
	assert.Error(t, err)

	_, err = NewClaimSet("alice@example.com", nil, now, 999*time.Microsecond)
	assert.Error(t, err)

	_, err = NewClaimSet("alice@example.com", nil, now, time.Millisecond)
	assert.NoError(t, err)
}

func TestNewClaimSetRejectsInvalidUTF8(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		subject string
		roles   []string
	}{
		{"subject", "alice\xff@example.com", []string{"USER"}},
		{"truncated rune in subject", "d\xc3", nil},
		{"role", "alice@example.com", []string{"US\xfeER", "ADMIN"}},
		{"later role", "alice@example.com", []string{"USER", "\xed\xa0\x80"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClaimSet(tt.subject, tt.roles, now, time.Hour)
			assert.Error(t, err)
		})
	}

	claims, err := NewClaimSet("dörte@example.com", []string{"ÜBER"}, now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "dörte@example.com", claims.Subject())
}

func TestClaimSetRolesAreCopied(t *testing.T) {
	roles := []string{"USER"}
	claims, err := NewClaimSet("alice@example.com", roles, time.Now(), time.Hour)
	require.NoError(t, err)

	roles[0] = "ADMIN"
	got := claims.Roles()
	got[0] = "ROOT"

	assert.Equal(t, []string{"USER"}, claims.Roles())
}

func TestClaimSetEmptyRoles(t *testing.T) {
	claims, err := NewClaimSet("alice@example.com", nil, time.Now(), time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, claims.Roles())
	assert.Empty(t, claims.Roles())

	var zero ClaimSet
	assert.NotNil(t, zero.Roles())
}
