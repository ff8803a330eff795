package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/dto"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr), errors.Is(err, services.ErrDuplicateUser):
			return badRequest(c, err.Error())
		default:
			return internalError(c, "register failed", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return internalError(c, "login failed", err)
		}
	}

	return c.JSON(resp)
}

// ForgotPassword always answers the same way for known and unknown accounts.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Login); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "password reset request failed", err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "If that account exists, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr), errors.Is(err, services.ErrResetTokenInvalid):
			return badRequest(c, err.Error())
		default:
			return internalError(c, "password reset failed", err)
		}
	}

	return c.JSON(dto.MessageResponse{Message: "Password updated"})
}
