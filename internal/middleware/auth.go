package middleware

import (
	"strings"

	"sneakerhead/internal/models"

	"github.com/gofiber/fiber/v2"
)

const userKey = "session_user"

// TokenValidator turns a session token back into the session user.
type TokenValidator interface {
	ValidateToken(token string) (*models.SessionUser, error)
}

// tokenFromRequest reads the session cookie first, then a Bearer header.
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// LoadSession attaches the session user when a valid token is present and
// lets anonymous requests through.
func LoadSession(v TokenValidator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := tokenFromRequest(c, cookieName); token != "" {
			if user, err := v.ValidateToken(token); err == nil {
				c.Locals(userKey, user)
			}
		}
		return c.Next()
	}
}

// AuthRequired rejects requests without a valid session.
func AuthRequired(v TokenValidator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Please login to continue",
			})
		}
		user, err := v.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired session",
			})
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// AdminRequired rejects anonymous requests with 401 and non-admin sessions
// with 403.
func AdminRequired(v TokenValidator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c, cookieName)
		user, err := v.ValidateToken(token)
		if token == "" || err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Please login to continue",
			})
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Admin access required",
			})
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the session user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.SessionUser {
	user, _ := c.Locals(userKey).(*models.SessionUser)
	return user
}

// SetCurrentUser replaces the session user for the rest of the request.
func SetCurrentUser(c *fiber.Ctx, user *models.SessionUser) {
	c.Locals(userKey, user)
}
