package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/support-tickets/pkg/errorutil"
)

const claimsKey = "auth_claims"

// Bearer parses an optional bearer token. Requests without an Authorization
// header pass through untouched; a malformed or invalid token is rejected.
func Bearer(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewUnauthorized("invalid authorization header")
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return apperrors.NewUnauthorized("invalid token")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext retrieves the claims stored by Bearer.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}
