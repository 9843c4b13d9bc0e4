package auth

import "errors"

// Failure kinds produced by the token codec and credential authenticator.
// Callers match them with errors.Is; all of them surface to the network
// as the same unauthorized response.
var (
	ErrMalformedToken     = errors.New("malformed token")
	ErrSignatureInvalid   = errors.New("token signature invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FailureKind returns a short label for diagnostics and metrics.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "unknown"
	}
}
