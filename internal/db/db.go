package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = sql.ErrNoRows

// DB wraps the database connection
type DB struct {
	*sql.DB
	dbPath string
}

// Init initializes the database connection and runs migrations.
// The special path ":memory:" opens a private in-memory database.
func Init(dbPath string) (*DB, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		// Ensure data directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		dsn = dbPath + "?_pragma=foreign_keys(1)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}

	db := &DB{sqlDB, dbPath}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// GetDBPath returns the database file path
func (db *DB) GetDBPath() string {
	return db.dbPath
}

// CreateUser creates a new user
func (db *DB) CreateUser(ctx context.Context, user *User) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, username, password, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.Password, user.CreatedAt,
	)
	return err
}

// GetUser retrieves a user by username. It returns ErrNotFound when no user matches.
func (db *DB) GetUser(ctx context.Context, username string) (*User, error) {
	user := &User{}
	err := db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CountUsers returns the number of registered users
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// IsNotFound reports whether err means no row matched
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUniqueViolation reports whether err is a unique constraint failure
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
