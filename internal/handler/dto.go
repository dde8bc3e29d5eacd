package handler

import (
	"time"

	"github.com/msomdec/todo-api/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TodoDTO is the JSON representation of a todo.
type TodoDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"dueDate"`
	Pinned    bool    `json:"pinned"`
	UserID    string  `json:"userId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toTodoDTO(t *domain.Todo) TodoDTO {
	dto := TodoDTO{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Pinned:    t.Pinned,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.DueDate != nil {
		s := t.DueDate.UTC().Format(time.RFC3339)
		dto.DueDate = &s
	}
	return dto
}

func toTodoDTOs(todos []domain.Todo) []TodoDTO {
	dtos := make([]TodoDTO, len(todos))
	for i := range todos {
		dtos[i] = toTodoDTO(&todos[i])
	}
	return dtos
}

// createTodoRequest is the body of POST /todos. An owner supplied by the
// client is not part of the shape and is ignored.
type createTodoRequest struct {
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"dueDate"`
	Pinned    bool       `json:"pinned"`
}

// updateTodoRequest is the body of PUT /todos/{id}. Absent fields stay
// unchanged.
type updateTodoRequest struct {
	Title     *string    `json:"title"`
	Completed *bool      `json:"completed"`
	DueDate   *time.Time `json:"dueDate"`
	Pinned    *bool      `json:"pinned"`
}

func (r updateTodoRequest) patch() domain.TodoPatch {
	return domain.TodoPatch{
		Title:     r.Title,
		Completed: r.Completed,
		DueDate:   r.DueDate,
		Pinned:    r.Pinned,
	}
}
