package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// MinSigningKeyLength matches the HS256 output size.
const MinSigningKeyLength = 32

// SigningKey is the process-wide HMAC secret. It is immutable after
// construction; the zero value is not usable.
type SigningKey struct {
	secret []byte
}

// NewSigningKey copies secret into a SigningKey.
func NewSigningKey(secret []byte) (SigningKey, error) {
	if len(secret) < MinSigningKeyLength {
		return SigningKey{}, fmt.Errorf("signing key must be at least %d bytes, got %d", MinSigningKeyLength, len(secret))
	}
	buf := make([]byte, len(secret))
	copy(buf, secret)
	return SigningKey{secret: buf}, nil
}

// GenerateSigningKey draws a random key for the lifetime of the process.
func GenerateSigningKey() (SigningKey, error) {
	buf := make([]byte, MinSigningKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return SigningKey{}, fmt.Errorf("generate signing key: %w", err)
	}
	return SigningKey{secret: buf}, nil
}

func (k SigningKey) bytes() ([]byte, error) {
	if len(k.secret) == 0 {
		return nil, errors.New("signing key not initialized")
	}
	return k.secret, nil
}
