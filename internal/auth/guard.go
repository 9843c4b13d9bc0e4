package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/finguard/user-service/pkg/util/errorutil"
)

// RequireAuthenticated rejects anonymous callers. Mount it after
// AuthMiddleware.Handle on routes that need a logged-in user.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromFiber(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
