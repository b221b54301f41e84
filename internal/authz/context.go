package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ActorFromContext extracts the acting user from the verified JWT that the
// auth middleware stored in Fiber locals. The token payload carries the
// numeric user id in "sub" and the role list in "role".
func ActorFromContext(c *fiber.Ctx) (Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Actor{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub < 1 {
		return Actor{}, errors.New("missing sub claim")
	}

	actor := Actor{ID: uint(sub)}
	if roles, ok := claims["role"].([]interface{}); ok && len(roles) > 0 {
		if role, ok := roles[0].(string); ok {
			actor.Role = role
		}
	}
	if actor.Role == "" {
		return Actor{}, errors.New("missing role claim")
	}

	return actor, nil
}
