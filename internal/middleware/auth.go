package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/dto"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/token"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected requires a valid "Authorization: Bearer <token>" header. The
// parsed *jwt.Token carrying *token.Claims is stored in Locals("user").
func JWTProtected(issuer *token.Issuer) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc: issuer.Keyfunc,
		Claims:  &token.Claims{},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "Unauthorized: invalid token"
			switch {
			case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
				message = "Unauthorized: missing or malformed token"
			case errors.Is(token.Classify(err), token.ErrTokenExpired):
				message = "Unauthorized: token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: message,
			})
		},
	})
}
