package tasks

import (
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TasksPlugin struct{}

func New() *TasksPlugin {
	return &TasksPlugin{}
}

func (p *TasksPlugin) ID() string { return "tasks" }

func (p *TasksPlugin) Models() []interface{} {
	return []interface{}{
		&Task{},
	}
}

func (p *TasksPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewTaskService(db)
	handler := NewTaskHandler(svc)

	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}
