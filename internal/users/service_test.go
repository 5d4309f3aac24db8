package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/artvia/artvia-backend/pkg/db/models"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "artvia_test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUserCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Name:    "Asha",
		Gmail:   "asha@example.com",
		Age:     29,
		Address: "12 Gallery Lane",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != "Asha" || loaded.Age != 29 {
		t.Fatalf("unexpected user: %+v", loaded)
	}

	updated, err := svc.UpdateUser(ctx, user.ID, UpdateUserInput{Address: "7 New Street"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Address != "7 New Street" || updated.Name != "Asha" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("list: %v (%d users)", err, len(users))
	}

	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetUser(ctx, user.ID); err == nil {
		t.Fatal("deleted user should not load")
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetUser(context.Background(), uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
