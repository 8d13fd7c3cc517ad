package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/qrmenu/internal/config"
	"github.com/example/qrmenu/internal/utils"
)

const (
	userContextKey     = "currentUserID"
	businessContextKey = "currentBusinessID"
)

// AuthMiddleware validates JWT tokens and loads the authenticated admin and
// their business ID into context. Holding a valid token is the whole session
// model; there are no roles.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, businessID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, userID)
		c.Locals(businessContextKey, businessID)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated admin ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	return localUUID(c, userContextKey)
}

// GetCurrentBusinessID extracts the admin's business ID from context. Admin
// routes operate only on this business.
func GetCurrentBusinessID(c *fiber.Ctx) (uuid.UUID, bool) {
	return localUUID(c, businessContextKey)
}

func localUUID(c *fiber.Ctx, key string) (uuid.UUID, bool) {
	value := c.Locals(key)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
