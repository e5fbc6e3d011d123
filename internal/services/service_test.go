package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sonata-cms/sonata-backend/internal/apperr"
	"github.com/sonata-cms/sonata-backend/internal/auth"
	"github.com/sonata-cms/sonata-backend/internal/domain"
	"github.com/sonata-cms/sonata-backend/internal/repo"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, auth.NewTokenIssuer("test-secret", 30*24*time.Hour))
}

func registerUser(t *testing.T, svc *AuthService, email, name string) *domain.User {
	t.Helper()
	if _, err := svc.Register(context.Background(), email, name, "password"); err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	u, err := svc.Resolve(context.Background(), email)
	if err != nil {
		t.Fatalf("resolve %s: %v", email, err)
	}
	return u
}

func domainErr(t *testing.T, err error) *apperr.Error {
	t.Helper()
	e, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected domain error, got %v", err)
	}
	return e
}
