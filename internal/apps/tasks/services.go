package tasks

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/owner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both missing tasks and tasks owned by someone else.
	ErrTaskNotFound = errors.New("task not found")
	ErrTextRequired = errors.New("task text is required")
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// List returns every task owned by userID, newest first.
func (s *TaskService) List(userID uuid.UUID) ([]Task, error) {
	tasks := make([]Task, 0)
	err := s.db.Scopes(owner.Scope(userID)).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) Create(userID uuid.UUID, req CreateTaskRequest) (*Task, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrTextRequired
	}

	task := Task{
		UserID: userID,
		Text:   text,
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := s.db.Omit("User").Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Get looks a task up by id and owner together.
func (s *TaskService) Get(userID, taskID uuid.UUID) (*Task, error) {
	var task Task
	if err := s.db.Scopes(owner.Scope(userID)).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Update(userID, taskID uuid.UUID, req UpdateTaskRequest) (*Task, error) {
	var text string
	if req.Text != nil {
		text = strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, ErrTextRequired
		}
	}

	updates := map[string]interface{}{}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	if req.Text != nil {
		updates["text"] = text
	}

	if len(updates) > 0 {
		// A conditional UPDATE never inserts, so a task deleted between
		// requests stays deleted.
		result := s.db.Model(&Task{}).Scopes(owner.Scope(userID)).
			Where("id = ?", taskID).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrTaskNotFound
		}
	}

	return s.Get(userID, taskID)
}

func (s *TaskService) Delete(userID, taskID uuid.UUID) error {
	result := s.db.Scopes(owner.Scope(userID)).Where("id = ?", taskID).Delete(&Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
