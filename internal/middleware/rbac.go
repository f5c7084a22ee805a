package middleware

import (
	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
)

// RequireAnyRole assumes AuthRequired already ran.
func RequireAnyRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("Not authorized")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return Forbidden("Access denied. Insufficient permissions for this operation")
	}
}

func RequireAdminOrOfficer() fiber.Handler {
	return RequireAnyRole(domain.RoleAdmin, domain.RoleLegalOfficer)
}

func RequireAdmin() fiber.Handler {
	return RequireAnyRole(domain.RoleAdmin)
}

func RequireLegalOfficer() fiber.Handler {
	return RequireAnyRole(domain.RoleLegalOfficer)
}
