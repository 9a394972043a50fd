package db

import (
	"log/slog"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
}

// migrate runs database migrations
func (db *DB) migrate() error {
	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			// Ignore error if column already exists
			if !isDuplicateColumnError(err) {
				return err
			}
		}
	}

	slog.Debug("database migrated", "path", db.dbPath, "migrations", len(migrations))
	return nil
}

// isDuplicateColumnError checks if error is about duplicate column
func isDuplicateColumnError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "duplicate column name") ||
		strings.Contains(errStr, "already exists")
}
