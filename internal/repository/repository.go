// Package repository declares the storage contracts the service layer depends
// on. Implementations live in sub-packages (see repository/sqlstore).
package repository

import (
	"context"

	"github.com/sakif/todo-api/internal/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	// CreateUser inserts a new user. A duplicate id or email yields an
	// apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByEmail returns apperror.ErrNotFound when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByID returns apperror.ErrNotFound when the id is unknown.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// TodoRepository is the item store. None of the mutating methods report a
// missing row as an error; callers re-read to find out.
type TodoRepository interface {
	// CreateTodo inserts a todo and returns the store-assigned id.
	CreateTodo(ctx context.Context, text string, userID string) (int64, error)
	// GetTodo returns apperror.ErrNotFound when no row has that id.
	GetTodo(ctx context.Context, id int64) (*model.Todo, error)
	// ListTodosByUser returns the user's todos in insertion order.
	ListTodosByUser(ctx context.Context, userID string) ([]model.Todo, error)
	// UpdateTodo replaces the content of the row with that id, if any.
	UpdateTodo(ctx context.Context, id int64, text string) error
	// DeleteTodo removes the row with that id, if any.
	DeleteTodo(ctx context.Context, id int64) error
}

// Store is everything the server needs from persistence.
type Store interface {
	UserRepository
	TodoRepository
	Ping(ctx context.Context) error
	Close() error
}
