package middleware

import (
	"github.com/docuvault/docuvault/internal/authz"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// RolesRequired gates a route on the role carried in the verified token.
// The services re-check the full policy before mutating; this just rejects
// obviously unqualified requests at the edge.
func RolesRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := authz.ActorFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient role",
		})
	}
}
