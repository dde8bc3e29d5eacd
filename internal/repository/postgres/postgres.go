// Package postgres implements the domain repositories on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/migrations"
	pgmigrations "github.com/msomdec/todo-api/internal/repository/postgres/migrations"
)

const uniqueViolation = "23505"

// DB wraps a PostgreSQL connection pool and implements domain.Database.
type DB struct {
	SqlDB *sql.DB

	users *UserRepository
	todos *TodoRepository
}

// New connects to PostgreSQL using dsn and verifies the connection.
func New(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewFromDB(sqlDB), nil
}

// NewFromDB wraps an already opened connection pool.
func NewFromDB(sqlDB *sql.DB) *DB {
	db := &DB{SqlDB: sqlDB}
	db.users = NewUserRepository(db)
	db.todos = NewTodoRepository(db)
	return db
}

// Migrate applies the embedded Postgres schema.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB, migrations.Source{
		FS:        pgmigrations.FS,
		RecordSQL: "INSERT INTO schema_migrations (filename) VALUES ($1)",
	})
}

func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository {
	return db.users
}

func (db *DB) Todos() domain.TodoRepository {
	return db.todos
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
