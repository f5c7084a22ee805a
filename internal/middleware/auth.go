package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edulegal/internal/domain"
	"edulegal/internal/service/auth"
)

const (
	UserContextKey   = "user"
	UserIDContextKey = "user_id"
)

// AuthRequired rejects the request with 401 unless a valid bearer token for an
// existing user is presented.
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Not authorized, no token")
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			return Unauthorized("Invalid authorization header format")
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			return Unauthorized("Not authorized, token failed")
		}

		user, err := authService.GetUserByID(c.Context(), claims.UserID)
		if err != nil || user == nil {
			return Unauthorized("Not authorized, user not found")
		}

		setUser(c, user)
		return c.Next()
	}
}

// AuthOptional attaches the user when a valid token is present and otherwise
// continues anonymously. It never fails the request.
func AuthOptional(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get("Authorization"))
		if !ok {
			return c.Next()
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			return c.Next()
		}

		user, err := authService.GetUserByID(c.Context(), claims.UserID)
		if err == nil && user != nil {
			setUser(c, user)
		}
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func setUser(c *fiber.Ctx, user *domain.User) {
	c.Locals(UserContextKey, user)
	c.Locals(UserIDContextKey, user.ID)
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
