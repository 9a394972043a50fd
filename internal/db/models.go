package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user for authentication
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never exposed in JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewUser creates a new User with a generated UUID
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:        uuid.New().String(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
}
