package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

var _ repository.TodoRepository = (*DB)(nil)

// CreateTodo inserts a todo for userID and returns the id the store assigned.
//
// RETURNING is supported by both SQLite (3.35+) and Postgres, so one statement
// covers both backends and avoids LastInsertId, which pgx does not implement.
func (db *DB) CreateTodo(ctx context.Context, text string, userID string) (int64, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		db.dialect.rebind(`INSERT INTO todos (todo, user_id) VALUES (?, ?) RETURNING id`),
		text,
		userID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: creating todo for user %s: %w", userID, err)
	}
	return id, nil
}

// GetTodo retrieves a single todo by id.
func (db *DB) GetTodo(ctx context.Context, id int64) (*model.Todo, error) {
	var (
		t     model.Todo
		owner sql.NullString
	)
	err := db.conn.QueryRowContext(ctx,
		db.dialect.rebind(`SELECT id, todo, user_id FROM todos WHERE id = ?`),
		id,
	).Scan(&t.ID, &t.Todo, &owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("todo", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlstore: getting todo %d: %w", id, err)
	}
	t.UserID = nullableString(owner)
	return &t, nil
}

// ListTodosByUser returns every todo owned by userID, oldest first.
//
// The result is never nil so it encodes as [] rather than null.
func (db *DB) ListTodosByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	rows, err := db.conn.QueryContext(ctx,
		db.dialect.rebind(`SELECT id, todo, user_id FROM todos WHERE user_id = ? ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing todos for user %s: %w", userID, err)
	}
	defer rows.Close()

	todos := make([]model.Todo, 0)
	for rows.Next() {
		var (
			t     model.Todo
			owner sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Todo, &owner); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning todo row: %w", err)
		}
		t.UserID = nullableString(owner)
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating todos: %w", err)
	}
	return todos, nil
}

// UpdateTodo replaces the content of todo id. A missing row is not an error;
// zero rows affected is a valid outcome.
func (db *DB) UpdateTodo(ctx context.Context, id int64, text string) error {
	_, err := db.conn.ExecContext(ctx,
		db.dialect.rebind(`UPDATE todos SET todo = ? WHERE id = ?`),
		text,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating todo %d: %w", id, err)
	}
	return nil
}

// DeleteTodo removes todo id. Deleting a row that does not exist succeeds.
func (db *DB) DeleteTodo(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx,
		db.dialect.rebind(`DELETE FROM todos WHERE id = ?`),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting todo %d: %w", id, err)
	}
	return nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
