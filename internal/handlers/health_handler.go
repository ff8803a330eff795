package handlers

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/database"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports liveness and database reachability. An unreachable
// database answers 503 so load balancers stop routing to the instance.
type HealthHandler struct {
	db      *gorm.DB
	started time.Time
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		DB:        "ok",
	}

	if err := database.Ping(h.db); err != nil {
		slog.Warn("health check: database unreachable", "error", err)
		resp.Status = "degraded"
		resp.DB = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
