package auth

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/finguard/user-service/internal/observability"
	apperrors "github.com/finguard/user-service/pkg/util/errorutil"
)

const (
	identityKey  = "auth_identity"
	bearerScheme = "Bearer"

	// TokenRejectedMessage is the only detail a caller sees for a bad token.
	TokenRejectedMessage = "invalid or expired token"
)

type identityCtxKey struct{}

// Identity is the verified caller attached to a single request.
type Identity struct {
	Subject string
	Roles   []string
}

// AuthMiddleware verifies bearer tokens and attaches the caller identity.
// Requests without a bearer credential pass through anonymously.
type AuthMiddleware struct {
	tokens  *TokenManager
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger, metrics *observability.Metrics) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger, metrics: metrics}
}

// Handle authenticates the request. A rejected token never reaches next.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	// A bare "Bearer" is what remains of "Bearer " once header whitespace is
	// trimmed, so it is verified as an empty token.
	scheme, token, _ := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if scheme != bearerScheme {
		return c.Next()
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		kind := FailureKind(err)
		m.logger.Warn("bearer token rejected",
			zap.String("kind", kind),
			zap.String("path", c.Path()),
			zap.String("request_id", observability.RequestID(c)),
			zap.Error(err))
		m.metrics.RecordAuthFailure(kind)
		return apperrors.NewUnauthorized(TokenRejectedMessage)
	}

	identity := Identity{Subject: claims.Subject(), Roles: claims.Roles()}
	c.Locals(identityKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

// IdentityFromFiber retrieves the authenticated caller from fiber locals.
func IdentityFromFiber(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	if !ok {
		return Identity{}, false
	}
	return identity.clone(), true
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity.clone())
}

// IdentityFromContext retrieves the caller from a request's user context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	if !ok {
		return Identity{}, false
	}
	return identity.clone(), true
}

func (i Identity) clone() Identity {
	return Identity{Subject: i.Subject, Roles: slices.Clone(i.Roles)}
}
