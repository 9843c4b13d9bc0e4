package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and verifies HS256 tokens over a ClaimSet.
// It holds no mutable state and is safe for concurrent use.
type TokenManager struct {
	key SigningKey
	ttl time.Duration
	now func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager. ttl is the validity window applied
// to every claim set built with NewClaims.
func NewTokenManager(key SigningKey, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if _, err := key.bytes(); err != nil {
		return nil, err
	}
	if ttl < time.Millisecond {
		return nil, fmt.Errorf("token ttl must be at least 1ms, got %s", ttl)
	}
	tm := &TokenManager{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// TTL returns the configured validity window.
func (tm *TokenManager) TTL() time.Duration { return tm.ttl }

// NewClaims builds a claim set issued now and valid for the configured TTL.
func (tm *TokenManager) NewClaims(subject string, roles []string) (ClaimSet, error) {
	return NewClaimSet(subject, roles, tm.now(), tm.ttl)
}

// Issue signs the claim set and returns the compact token string.
func (tm *TokenManager) Issue(claims ClaimSet) (string, error) {
	if claims.subject == "" {
		return "", errors.New("claim set is empty")
	}
	secret, err := tm.key.bytes()
	if err != nil {
		return "", err
	}
	iat, exp := millisDate(claims.issuedAt), millisDate(claims.expiresAt)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		Subject:   claims.subject,
		Roles:     claims.Roles(),
		IssuedAt:  &iat,
		ExpiresAt: &exp,
	})
	return token.SignedString(secret)
}

// Verify checks the signature, then expiry, and returns the embedded claims.
// Errors wrap ErrMalformedToken, ErrSignatureInvalid or ErrTokenExpired.
func (tm *TokenManager) Verify(tokenStr string) (ClaimSet, error) {
	parser := jwt.NewParser(
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)

	claims := &tokenClaims{}
	parsed, err := parser.ParseWithClaims(tokenStr, claims, tm.keyFunc)
	if err != nil {
		return ClaimSet{}, classify(err)
	}
	if !parsed.Valid || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return ClaimSet{}, ErrMalformedToken
	}

	set, err := newClaimSet(claims.Subject, claims.Roles, time.Time(*claims.IssuedAt), time.Time(*claims.ExpiresAt))
	if err != nil {
		return ClaimSet{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return set, nil
}

func (tm *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return tm.key.bytes()
}

// classify maps golang-jwt errors onto the codec's failure kinds.
// Unsupported algorithms surface as ErrTokenUnverifiable and count as malformed.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

type tokenClaims struct {
	Subject   string      `json:"sub"`
	Roles     []string    `json:"roles"`
	IssuedAt  *millisDate `json:"iat"`
	ExpiresAt *millisDate `json:"exp"`
}

func (c *tokenClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt.numeric(), nil }
func (c *tokenClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt.numeric(), nil }
func (c *tokenClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *tokenClaims) GetIssuer() (string, error)                   { return "", nil }
func (c *tokenClaims) GetSubject() (string, error)                  { return c.Subject, nil }
func (c *tokenClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// millisDate is a NumericDate with a fixed three-digit fraction, so
// sub-second validity windows survive the round trip.
type millisDate time.Time

func (d *millisDate) numeric() *jwt.NumericDate {
	if d == nil {
		return nil
	}
	return &jwt.NumericDate{Time: time.Time(*d)}
}

func (d millisDate) MarshalJSON() ([]byte, error) {
	ms := time.Time(d).UnixMilli()
	if ms < 0 {
		return nil, errors.New("numeric date before epoch")
	}
	return []byte(fmt.Sprintf("%d.%03d", ms/1000, ms%1000)), nil
}

func (d *millisDate) UnmarshalJSON(b []byte) error {
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	raw := num.String()
	whole, frac, _ := strings.Cut(raw, ".")
	sec, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return fmt.Errorf("invalid numeric date %q", raw)
	}
	var ms uint64
	if frac != "" {
		frac = (frac + "00")[:3]
		if ms, err = strconv.ParseUint(frac, 10, 16); err != nil {
			return fmt.Errorf("invalid numeric date %q", raw)
		}
	}
	*d = millisDate(time.UnixMilli(int64(sec)*1000 + int64(ms)))
	return nil
}
