package tasks

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/dto"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/owner"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskHandler struct {
	service *TaskService
}

func NewTaskHandler(service *TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID, err := owner.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	tasks, err := h.service.List(userID)
	if err != nil {
		return serverError(c, "failed to list tasks", err)
	}

	return c.JSON(tasks)
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	userID, err := owner.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.service.Create(userID, req)
	if err != nil {
		if errors.Is(err, ErrTextRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return serverError(c, "failed to create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	userID, err := owner.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	// A malformed id cannot name any task.
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Task not found",
		})
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.service.Update(userID, taskID, req)
	if err != nil {
		return h.taskError(c, err)
	}

	return c.JSON(task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, err := owner.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Task not found",
		})
	}

	if err := h.service.Delete(userID, taskID); err != nil {
		return h.taskError(c, err)
	}

	return c.JSON(DeleteTaskResponse{Message: "Task deleted"})
}

func (h *TaskHandler) taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Task not found",
		})
	case errors.Is(err, ErrTextRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return serverError(c, "task operation failed", err)
	}
}

func serverError(c *fiber.Ctx, msg string, err error) error {
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
