package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/msomdec/todo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var todoColumnNames = []string{"id", "title", "completed", "due_date", "pinned", "user_id", "created_at", "updated_at"}

func TestTodoRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	owner := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO todos (`+todoColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)).
		WithArgs(sqlmock.AnyArg(), "Write docs", false, nil, true, owner, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	todo := &domain.Todo{Title: "Write docs", Pinned: true, UserID: owner}
	require.NoError(t, db.Todos().Create(context.Background(), todo))

	_, err := uuid.Parse(todo.ID)
	assert.NoError(t, err)
	assert.False(t, todo.CreatedAt.IsZero())
}

func TestTodoRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	owner := uuid.NewString()
	now := time.Now().UTC()
	due := now.Add(48 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+todoColumns+` FROM todos WHERE user_id = $1`)).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(todoColumnNames).
			AddRow(uuid.NewString(), "first", false, nil, false, owner, now, now).
			AddRow(uuid.NewString(), "second", true, due, true, owner, now, now))

	todos, err := db.Todos().ListByUser(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Nil(t, todos[0].DueDate)
	require.NotNil(t, todos[1].DueDate)
	assert.True(t, todos[1].DueDate.Equal(due))
	assert.True(t, todos[1].Completed)
}

func TestTodoRepository_Update_BuildsPartialSet(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.NewString()
	owner := uuid.NewString()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE todos SET title = $1, pinned = $2, updated_at = $3 WHERE id = $4 RETURNING `+todoColumns)).
		WithArgs("Renamed", false, sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows(todoColumnNames).
			AddRow(id, "Renamed", true, nil, false, owner, now, now))

	title := "Renamed"
	pinned := false
	todo, err := db.Todos().Update(context.Background(), id, domain.TodoPatch{Title: &title, Pinned: &pinned})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", todo.Title)
	assert.True(t, todo.Completed)
}

func TestTodoRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.NewString()

	mock.ExpectQuery(`UPDATE todos SET completed = \$1`).
		WillReturnError(sql.ErrNoRows)

	completed := true
	_, err := db.Todos().Update(context.Background(), id, domain.TodoPatch{Completed: &completed})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTodoRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.Todos().Delete(context.Background(), id))
	assert.ErrorIs(t, db.Todos().Delete(context.Background(), id), domain.ErrNotFound)
}

func TestTodoRepository_MalformedIDIsNotFound(t *testing.T) {
	db, _ := newMockDB(t)
	ctx := context.Background()

	_, err := db.Todos().GetByID(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	pinned := true
	_, err = db.Todos().Update(ctx, "42", domain.TodoPatch{Pinned: &pinned})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, db.Todos().Delete(ctx, "42"), domain.ErrNotFound)
}
