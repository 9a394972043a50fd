package domain

import (
	"context"

	"github.com/authguard/internal/db"
)

// ============================================================================
// Primary Ports (Application Use Cases)
// ============================================================================

// UserService defines the primary port for account use cases behind the
// sign-in and sign-up forms
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*db.User, error)
	Authenticate(ctx context.Context, username, password string) (*db.User, error)
}

// ============================================================================
// Secondary Ports (Infrastructure)
// ============================================================================

// UserRepository persists accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *db.User) error
	GetUser(ctx context.Context, username string) (*db.User, error)
}

// RegisterRequest is the sign-up form payload
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
