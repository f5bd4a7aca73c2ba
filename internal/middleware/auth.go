package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/config"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/utils"
)

const userContextKey = "currentUser"

// AuthMiddleware validates bearer tokens and loads the decoded claims
// into the request context.
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

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, claims)
		return c.Next()
	}
}

// RequireAdmin re-fetches the user and checks the role against current
// database state. The role claim in the token alone is not trusted for
// privileged routes.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetCurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}

		if user.Role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}

		return c.Next()
	}
}

// GetCurrentUser extracts the authenticated claims from context.
func GetCurrentUser(c *fiber.Ctx) (*utils.TokenClaims, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return nil, false
	}

	if claims, ok := value.(*utils.TokenClaims); ok {
		return claims, true
	}

	return nil, false
}
