package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Init(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestInit_CreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "auth.db")

	database, err := Init(path)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer database.Close()

	if database.GetDBPath() != path {
		t.Errorf("GetDBPath() = %s, want %s", database.GetDBPath(), path)
	}

	// running migrations twice must be harmless
	if err := database.migrate(); err != nil {
		t.Errorf("second migrate() error = %v", err)
	}
}

func TestInit_InMemory(t *testing.T) {
	database, err := Init(":memory:")
	if err != nil {
		t.Fatalf("Init(:memory:) error = %v", err)
	}
	defer database.Close()

	count, err := database.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty users table, got %d", count)
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	user := NewUser("alice", "hash")
	if err := database.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := database.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.ID != user.ID || got.Username != "alice" || got.Password != "hash" {
		t.Errorf("GetUser() = %+v, want %+v", got, user)
	}

	count, err := database.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers() = %d, want 1", count)
	}
}

func TestUsers_GetMissing(t *testing.T) {
	database := newTestDB(t)

	_, err := database.GetUser(context.Background(), "nobody")
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser() error = %v, want ErrNotFound", err)
	}
}

func TestUsers_DuplicateUsername(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if err := database.CreateUser(ctx, NewUser("alice", "hash")); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	err := database.CreateUser(ctx, NewUser("alice", "other"))
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestNewUser(t *testing.T) {
	a := NewUser("a", "h")
	b := NewUser("b", "h")

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct generated IDs, got %q and %q", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}
