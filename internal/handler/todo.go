package handler

import (
	"net/http"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/service"
)

// TodoHandler handles todo CRUD for the authenticated user. Every route
// must sit behind RequireAuth.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// HandleList returns the caller's todos, newest first.
// GET /todos
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todos.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, "list todos", err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoDTOs(todos))
}

// HandleCreate creates a todo owned by the caller.
// POST /todos
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	todo, err := h.todos.Create(r.Context(), UserIDFromContext(r.Context()), domain.Todo{
		Title:     req.Title,
		Completed: req.Completed,
		DueDate:   req.DueDate,
		Pinned:    req.Pinned,
	})
	if err != nil {
		writeServiceError(w, "create todo", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTodoDTO(todo))
}

// HandleUpdate applies a partial update to one of the caller's todos.
// PUT /todos/{id}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateTodoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	todo, err := h.todos.Update(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		writeServiceError(w, "update todo", err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoDTO(todo))
}

// HandleDelete removes one of the caller's todos.
// DELETE /todos/{id}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.todos.Delete(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, "delete todo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
