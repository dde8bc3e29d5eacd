package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/todo-api/internal/domain"
)

// TodoService handles todo operations. Every operation is scoped to the
// authenticated user: lists and creates implicitly, updates and deletes by
// checking the stored owner.
type TodoService struct {
	todos domain.TodoRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos domain.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

// List returns the user's todos, newest first.
func (s *TodoService) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	todos, err := s.todos.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	slices.SortStableFunc(todos, func(a, b domain.Todo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return todos, nil
}

// Create stores a new todo owned by userID, whatever owner the input names.
func (s *TodoService) Create(ctx context.Context, userID string, in domain.Todo) (*domain.Todo, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Title:     in.Title,
		Completed: in.Completed,
		DueDate:   in.DueDate,
		Pinned:    in.Pinned,
		UserID:    userID,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update applies patch to a todo owned by userID.
func (s *TodoService) Update(ctx context.Context, userID, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}

	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	todo, err := s.todos.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Delete removes a todo owned by userID.
func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// getOwned checks existence before ownership, so a missing id reports
// ErrNotFound and another user's id reports ErrForbidden.
func (s *TodoService) getOwned(ctx context.Context, userID, id string) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if todo.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return todo, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(title) > domain.MaxTodoTitleLength {
		return fmt.Errorf("%w: title must be %d characters or fewer", domain.ErrValidation, domain.MaxTodoTitleLength)
	}
	return nil
}
