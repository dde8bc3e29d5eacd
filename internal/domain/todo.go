package domain

import (
	"context"
	"time"
)

// MaxTodoTitleLength bounds a todo title, counted in characters.
const MaxTodoTitleLength = 500

// Todo is a task item scoped to exactly one user.
type Todo struct {
	ID        string
	Title     string
	Completed bool
	DueDate   *time.Time
	Pinned    bool
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch carries a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Title     *string
	Completed *bool
	DueDate   *time.Time
	Pinned    *bool
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil && p.DueDate == nil && p.Pinned == nil
}

// TodoRepository defines persistence operations for todos.
// ListByUser makes no ordering promise. Update and Delete return
// ErrNotFound when no row matches the id.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id string) (*Todo, error)
	ListByUser(ctx context.Context, userID string) ([]Todo, error)
	Update(ctx context.Context, id string, patch TodoPatch) (*Todo, error)
	Delete(ctx context.Context, id string) error
}
