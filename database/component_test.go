package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/esteticaio/api/component"
	apperrors "github.com/esteticaio/api/errors"
	"github.com/esteticaio/api/logger"
)

func memoryConfig() Config {
	return Config{Driver: DriverSQLite, DSN: ":memory:", MaxRetries: 1}
}

type widget struct {
	ID   uint
	Code string `gorm:"uniqueIndex;size:32"`
}

func TestComponent_Name(t *testing.T) {
	comp := NewComponent(memoryConfig(), logger.Nop())
	if got := comp.Name(); got != "database" {
		t.Errorf("Name() = %q, want %q", got, "database")
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent(memoryConfig(), logger.Nop())
	ctx := context.Background()

	if comp.DB() != nil {
		t.Error("DB() should be nil before Start")
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if comp.DB() == nil {
		t.Fatal("DB() should not be nil after Start")
	}
	if err := comp.DB().PingContext(ctx); err != nil {
		t.Errorf("PingContext() failed: %v", err)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	// Close is idempotent.
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("second Stop() failed: %v", err)
	}
}

func TestComponent_Stop_BeforeStart(t *testing.T) {
	comp := NewComponent(memoryConfig(), logger.Nop())
	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() before Start() should not error: %v", err)
	}
}

func TestComponent_WithAutoMigrate(t *testing.T) {
	tests := []struct {
		name        string
		autoMigrate bool
		wantTable   bool
	}{
		{"enabled", true, true},
		{"disabled", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memoryConfig()
			cfg.AutoMigrate = tt.autoMigrate
			comp := NewComponent(cfg, logger.Nop())
			if got := comp.WithAutoMigrate(&widget{}); got != comp {
				t.Error("WithAutoMigrate() should return the component for chaining")
			}

			ctx := context.Background()
			if err := comp.Start(ctx); err != nil {
				t.Fatalf("Start() failed: %v", err)
			}
			defer comp.Stop(ctx)

			if got := comp.DB().GormDB.Migrator().HasTable(&widget{}); got != tt.wantTable {
				t.Errorf("HasTable = %v, want %v", got, tt.wantTable)
			}
		})
	}
}

func TestComponent_Health(t *testing.T) {
	comp := NewComponent(memoryConfig(), logger.Nop())
	ctx := context.Background()

	h := comp.Health(ctx)
	if h.Name != "database" || h.Status != component.StatusUnhealthy {
		t.Errorf("Health before start = %+v", h)
	}
	if h.Message != "database not initialized" {
		t.Errorf("Message = %q", h.Message)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health after start = %+v", h)
	}

	_ = comp.Stop(ctx)
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health after stop = %+v", h)
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent(Config{
		User:        "estetica_user",
		Password:    "secret",
		Name:        "estetica_io",
		AutoMigrate: true,
	}, logger.Nop())

	desc := comp.Describe()
	if desc.Name != "Database" || desc.Type != "database" {
		t.Errorf("Describe() = %+v", desc)
	}
	if !strings.Contains(desc.Details, "localhost:3306/estetica_io") {
		t.Errorf("Details = %q, want address", desc.Details)
	}
	if strings.Contains(desc.Details, "secret") {
		t.Errorf("Details leaks password: %q", desc.Details)
	}
	if !strings.Contains(desc.Details, "auto-migrate=on") {
		t.Errorf("Details = %q, want auto-migrate flag", desc.Details)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "postgres"}, logger.Nop())
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNew_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(ctx, memoryConfig(), logger.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDB_WithTransaction(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, memoryConfig(), logger.Nop())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer db.Close()
	if err := db.AutoMigrate(ctx, &widget{}); err != nil {
		t.Fatalf("AutoMigrate() failed: %v", err)
	}

	boom := errors.New("boom")
	err = db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&widget{Code: "a"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	var count int64
	db.WithContext(ctx).Model(&widget{}).Count(&count)
	if count != 0 {
		t.Errorf("count after rollback = %d, want 0", count)
	}

	stats := db.CheckHealth(ctx)
	if !stats.Connected || stats.OpenConns != 1 {
		t.Errorf("CheckHealth() = %+v, want one open connection", stats)
	}
}

func TestFromDatabase_Duplicate(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, memoryConfig(), logger.Nop())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer db.Close()
	if err := db.AutoMigrate(ctx, &widget{}); err != nil {
		t.Fatalf("AutoMigrate() failed: %v", err)
	}

	if err := db.WithContext(ctx).Create(&widget{Code: "dup"}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err = db.WithContext(ctx).Create(&widget{Code: "dup"}).Error
	if !IsDuplicateError(err) {
		t.Fatalf("IsDuplicateError(%v) = false", err)
	}
	if appErr := FromDatabase(err, "widget"); appErr.Code != apperrors.ErrCodeAlreadyExists {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.ErrCodeAlreadyExists)
	}

	var w widget
	err = db.WithContext(ctx).Where("code = ?", "missing").First(&w).Error
	if !IsNotFoundError(err) {
		t.Fatalf("IsNotFoundError(%v) = false", err)
	}
	if appErr := FromDatabase(err, "widget"); appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.ErrCodeNotFound)
	}
}

func TestFromDatabase_Other(t *testing.T) {
	if FromDatabase(nil, "x") != nil {
		t.Error("FromDatabase(nil) should be nil")
	}
	appErr := FromDatabase(errors.New("syntax error"), "x")
	if appErr.Code != apperrors.ErrCodeDatabaseError {
		t.Errorf("code = %s", appErr.Code)
	}
	if !IsConnectionError(errors.New("dial tcp: connection refused")) {
		t.Error("connection refused should be a connection error")
	}
	if !IsRetryableError(errors.New("database is locked")) {
		t.Error("locked sqlite database should be retryable")
	}
}
