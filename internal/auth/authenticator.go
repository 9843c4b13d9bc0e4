package auth

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/finguard/user-service/internal/domain"
)

// CredentialAuthenticator checks a plaintext password against a looked-up
// identity and issues a token on success.
type CredentialAuthenticator struct {
	tokens    *TokenManager
	dummyHash string
}

// NewCredentialAuthenticator builds an authenticator. The bcrypt cost is used
// for a throwaway hash that absent identities are compared against, so both
// failure paths spend the same work.
func NewCredentialAuthenticator(tokens *TokenManager, bcryptCost int) (*CredentialAuthenticator, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	dummy, err := HashPassword(uuid.NewString(), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &CredentialAuthenticator{tokens: tokens, dummyHash: dummy}, nil
}

// Authenticate returns a signed token bound to the record's subject and roles.
// A nil record and a wrong password both yield ErrInvalidCredentials.
func (a *CredentialAuthenticator) Authenticate(record *domain.IdentityRecord, candidate string) (string, ClaimSet, error) {
	if record == nil {
		VerifyPassword(candidate, a.dummyHash)
		return "", ClaimSet{}, ErrInvalidCredentials
	}
	if !VerifyPassword(candidate, record.PasswordHash) {
		return "", ClaimSet{}, ErrInvalidCredentials
	}

	claims, err := a.tokens.NewClaims(record.Subject, record.Roles)
	if err != nil {
		return "", ClaimSet{}, fmt.Errorf("build claims: %w", err)
	}
	token, err := a.tokens.Issue(claims)
	if err != nil {
		return "", ClaimSet{}, fmt.Errorf("issue token: %w", err)
	}
	return token, claims, nil
}
