package owner

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/token"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetClaims extracts the session claims the JWT middleware stored in locals.
func GetClaims(c *fiber.Ctx) (*token.Claims, error) {
	t, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := t.Claims.(*token.Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// GetUserID extracts the authenticated user's id. The middleware only stores
// claims that passed validation, so the id already parsed once.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	id := claims.UserUUID()
	if id == uuid.Nil {
		return uuid.Nil, errors.New("invalid user id in claims")
	}
	return id, nil
}
