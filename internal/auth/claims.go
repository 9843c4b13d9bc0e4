package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"
)

// ClaimSet is the payload carried inside a token. It is immutable: all
// accessors return copies.
type ClaimSet struct {
	subject   string
	roles     []string
	issuedAt  time.Time
	expiresAt time.Time
}

// NewClaimSet builds a claim set whose expiry is issuedAt+validity.
// Timestamps are kept at millisecond precision, which is what the token
// payload carries. Duplicate roles are dropped, keeping first-seen order.
func NewClaimSet(subject string, roles []string, issuedAt time.Time, validity time.Duration) (ClaimSet, error) {
	if validity < time.Millisecond {
		return ClaimSet{}, fmt.Errorf("validity must be at least 1ms, got %s", validity)
	}
	iat := issuedAt.Round(0).Truncate(time.Millisecond)
	return newClaimSet(subject, roles, iat, iat.Add(validity.Truncate(time.Millisecond)))
}

func newClaimSet(subject string, roles []string, issuedAt, expiresAt time.Time) (ClaimSet, error) {
	if subject == "" {
		return ClaimSet{}, errors.New("subject is required")
	}
	if !utf8.ValidString(subject) {
		return ClaimSet{}, errors.New("subject is not valid UTF-8")
	}
	for _, role := range roles {
		if !utf8.ValidString(role) {
			return ClaimSet{}, fmt.Errorf("role %q is not valid UTF-8", role)
		}
	}
	if !expiresAt.After(issuedAt) {
		return ClaimSet{}, errors.New("expiry must be after issuance")
	}
	return ClaimSet{
		subject:   subject,
		roles:     dedupe(roles),
		issuedAt:  issuedAt,
		expiresAt: expiresAt,
	}, nil
}

// Subject returns the identity handle the token asserts.
func (c ClaimSet) Subject() string { return c.subject }

// Roles returns a copy of the role names in issuance order.
func (c ClaimSet) Roles() []string {
	if c.roles == nil {
		return []string{}
	}
	return slices.Clone(c.roles)
}

func (c ClaimSet) IssuedAt() time.Time  { return c.issuedAt }
func (c ClaimSet) ExpiresAt() time.Time { return c.expiresAt }

// Validity returns expiresAt-issuedAt.
func (c ClaimSet) Validity() time.Duration { return c.expiresAt.Sub(c.issuedAt) }

func dedupe(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}
