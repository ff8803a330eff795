package handlers

import (
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/dto"
	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// internalError logs the cause and answers with a generic 500.
func internalError(c *fiber.Ctx, msg string, err error) error {
	slog.Error(msg,
		"error", err,
		"request_id", fmt.Sprint(c.Locals("requestid")),
		"method", c.Method(),
		"path", c.Path(),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
