package tasks

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/database"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.MigrateShared(db); err != nil {
		t.Fatalf("migrate shared: %v", err)
	}
	if err := database.MigrateModels(db, New().Models()); err != nil {
		t.Fatalf("migrate tasks: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) uuid.UUID {
	t.Helper()
	hash := "x"
	user := models.User{Username: username, Email: username + "@tasks.local", PasswordHash: &hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestCreateTrimsAndDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := createUser(t, db, "alice")

	task, err := svc.Create(alice, CreateTaskRequest{Text: "  buy milk  "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Text != "buy milk" {
		t.Errorf("Text = %q, want trimmed", task.Text)
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if task.UserID != alice || task.ID == uuid.Nil || task.CreatedAt.IsZero() {
		t.Errorf("task not populated: %+v", task)
	}
}

func TestCreateWithCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := createUser(t, db, "alice")

	task, err := svc.Create(alice, CreateTaskRequest{Text: "restored", Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stored, err := svc.Get(alice, task.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !stored.Completed {
		t.Error("completed flag was not persisted")
	}
}

func TestCreateRejectsBlankText(t *testing.T) {
	svc := NewTaskService(newTestDB(t))
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Create(uuid.New(), CreateTaskRequest{Text: text}); !errors.Is(err, ErrTextRequired) {
			t.Errorf("Create(%q) error = %v, want ErrTextRequired", text, err)
		}
	}
}

func TestListNewestFirstAndScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Create(alice, CreateTaskRequest{Text: text}); err != nil {
			t.Fatalf("Create(%q) error = %v", text, err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if _, err := svc.Create(bob, CreateTaskRequest{Text: "bob's"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	list, err := svc.List(alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var got []string
	for _, task := range list {
		got = append(got, task.Text)
	}
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() = %v, want %v", got, want)
		}
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc := NewTaskService(newTestDB(t))
	list, err := svc.List(uuid.New())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("List() = %#v, want empty slice", list)
	}
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := createUser(t, db, "alice")
	task, _ := svc.Create(alice, CreateTaskRequest{Text: "write report"})

	tests := []struct {
		name          string
		req           UpdateTaskRequest
		wantText      string
		wantCompleted bool
		wantErr       error
	}{
		{name: "toggle", req: UpdateTaskRequest{Completed: boolPtr(true)}, wantText: "write report", wantCompleted: true},
		{name: "rename keeps completed", req: UpdateTaskRequest{Text: strPtr(" final report ")}, wantText: "final report", wantCompleted: true},
		{name: "empty body is a no-op", req: UpdateTaskRequest{}, wantText: "final report", wantCompleted: true},
		{name: "both", req: UpdateTaskRequest{Text: strPtr("draft"), Completed: boolPtr(false)}, wantText: "draft"},
		{name: "blank text", req: UpdateTaskRequest{Text: strPtr("  ")}, wantErr: ErrTextRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Update(alice, task.ID, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if got.Text != tt.wantText || got.Completed != tt.wantCompleted {
				t.Errorf("Update() = {%q %v}, want {%q %v}", got.Text, got.Completed, tt.wantText, tt.wantCompleted)
			}
			if got.UserID != alice || got.ID != task.ID {
				t.Error("Update() changed identity fields")
			}
		})
	}
}

func TestOtherUsersTasksAreNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	task, _ := svc.Create(alice, CreateTaskRequest{Text: "private"})

	if _, err := svc.Update(bob, task.ID, UpdateTaskRequest{Completed: boolPtr(true)}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Update() by non-owner error = %v, want ErrTaskNotFound", err)
	}
	if err := svc.Delete(bob, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrTaskNotFound", err)
	}

	stored, err := svc.Get(alice, task.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Completed {
		t.Error("non-owner update was applied")
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := createUser(t, db, "alice")
	task, _ := svc.Create(alice, CreateTaskRequest{Text: "temporary"})

	if err := svc.Delete(alice, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(alice, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second Delete() error = %v, want ErrTaskNotFound", err)
	}
	if _, err := svc.Get(alice, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrTaskNotFound", err)
	}
}

func TestUpdateAfterDeleteDoesNotResurrect(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := createUser(t, db, "alice")
	task, _ := svc.Create(alice, CreateTaskRequest{Text: "double click"})

	if err := svc.Delete(alice, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	tests := []struct {
		name string
		req  UpdateTaskRequest
	}{
		{name: "toggle", req: UpdateTaskRequest{Completed: boolPtr(true)}},
		{name: "rename", req: UpdateTaskRequest{Text: strPtr("back again")}},
		{name: "empty body", req: UpdateTaskRequest{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(alice, task.ID, tt.req); !errors.Is(err, ErrTaskNotFound) {
				t.Errorf("Update() error = %v, want ErrTaskNotFound", err)
			}
		})
	}

	var count int64
	if err := db.Model(&Task{}).Count(&count).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if count != 0 {
		t.Errorf("tasks after delete+update = %d, want 0", count)
	}
}
