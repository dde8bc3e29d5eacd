package domain

import (
	"context"
	"time"
)

// User represents a registered account. Email is stored normalized
// (trimmed, lower-cased) so lookups compare case-insensitively.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
// Create must reject a duplicate email with ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
