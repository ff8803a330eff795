package database

import (
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/config"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/models"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open("mongodb", "mongodb://localhost"); err == nil {
		t.Fatal("Open() with unsupported driver should fail")
	}
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "tasks.db"),
	}

	if err := Connect(cfg); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer Close(DB)

	if err := Ping(DB); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	if err := MigrateShared(DB); err != nil {
		t.Fatalf("MigrateShared() error = %v", err)
	}

	for _, model := range []interface{}{&models.User{}, &models.SystemLog{}} {
		if !DB.Migrator().HasTable(model) {
			t.Errorf("table for %T not created", model)
		}
	}

	if err := MigrateModels(DB, nil); err != nil {
		t.Errorf("MigrateModels(nil) error = %v", err)
	}
}
