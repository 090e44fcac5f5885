package middleware

import (
	"log"
	"strings"

	"conduit/internal/models"
	"conduit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// tokenScheme is the Authorization scheme prefix, e.g. "Token <jwt>".
const tokenScheme = "Token"

// currentUserKey is the Locals key holding the authenticated *models.User.
const currentUserKey = "currentUser"

// AuthRequired is a Fiber middleware that rejects requests without a
// valid token. The token subject must resolve to a live user, which is
// stored in the request Locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := extractToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be '" + tokenScheme + " <token>'",
			})
		}

		user, err := authService.UserFromToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// AuthOptional is the non-failing variant: a missing or invalid token
// simply leaves the request unauthenticated.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := extractToken(c)
		if !ok {
			return c.Next()
		}
		user, err := authService.UserFromToken(tokenString)
		if err == nil {
			c.Locals(currentUserKey, user)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by the middleware,
// or nil for an unauthenticated request.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func extractToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Expected format: "Token <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == tokenScheme) {
		return "", false
	}
	return parts[1], true
}
