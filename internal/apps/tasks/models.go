package tasks

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"userId"`
	Text      string      `gorm:"type:text;not null" json:"text"`
	Completed bool        `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt"`
	User      models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

// CreateTaskRequest accepts an optional completed flag so an undone delete
// can restore a task in its previous state.
type CreateTaskRequest struct {
	Text      string `json:"text"`
	Completed *bool  `json:"completed,omitempty"`
}

type UpdateTaskRequest struct {
	Completed *bool   `json:"completed,omitempty"`
	Text      *string `json:"text,omitempty"`
}

type DeleteTaskResponse struct {
	Message string `json:"message"`
}
