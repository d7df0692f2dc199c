package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/models"
)

// RequireRole rejects requests whose authenticated user does not hold
// the given role. Must run after Protected.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := c.Locals("role").(string)
		if !ok || current != string(role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have the required role to perform this action",
			})
		}
		return c.Next()
	}
}
