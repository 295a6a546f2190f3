package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// Client-facing messages for the todo routes.
const (
	msgTodoRequired      = "Todo content is required"
	msgIDAndTodoRequired = "Id and todo content are required"
	msgForbidden         = "Forbidden"
)

// TodoService implements the ownership-scoped todo operations.
//
// Create and List always act on the caller's own items. Delete and Update act
// on any id unless strict ownership is enabled, in which case the caller must
// own the row.
type TodoService struct {
	todos  repository.TodoRepository
	strict bool
	logger *slog.Logger
}

// NewTodoService creates a TodoService. strictOwnership turns on the owner
// check for Delete and Update.
func NewTodoService(todos repository.TodoRepository, strictOwnership bool, logger *slog.Logger) *TodoService {
	return &TodoService{
		todos:  todos,
		strict: strictOwnership,
		logger: logger,
	}
}

// StrictOwnership reports whether Delete and Update check the owner.
func (s *TodoService) StrictOwnership() bool {
	return s.strict
}

// Create stores a todo owned by userID and returns the stored row.
//
// Insert and re-read are separate statements. If the row vanishes in between
// the NotFound error is returned as an internal failure.
func (s *TodoService) Create(ctx context.Context, userID, text string) (*model.Todo, error) {
	if text == "" {
		return nil, apperror.ValidationFailed("todo", msgTodoRequired)
	}

	id, err := s.todos.CreateTodo(ctx, text, userID)
	if err != nil {
		return nil, fmt.Errorf("service/todo: creating todo: %w", err)
	}

	todo, err := s.todos.GetTodo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/todo: reading back todo %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "todo created",
		slog.Int64("todo_id", id),
		slog.String("user_id", userID),
	)
	return todo, nil
}

// List returns the caller's todos in insertion order. Never nil.
func (s *TodoService) List(ctx context.Context, userID string) ([]model.Todo, error) {
	todos, err := s.todos.ListTodosByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/todo: listing todos for user %s: %w", userID, err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Delete removes todo id. A missing row is not an error.
//
// callerID is only consulted in strict mode.
func (s *TodoService) Delete(ctx context.Context, callerID string, id int64) error {
	if err := s.checkOwner(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.todos.DeleteTodo(ctx, id); err != nil {
		return fmt.Errorf("service/todo: deleting todo %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "todo deleted", slog.Int64("todo_id", id))
	return nil
}

// Update replaces the content of todo id and returns the row as stored. When
// no row has that id it returns (nil, nil).
func (s *TodoService) Update(ctx context.Context, callerID string, id int64, text string) (*model.Todo, error) {
	if text == "" {
		return nil, apperror.ValidationFailed("todo", msgIDAndTodoRequired)
	}
	if err := s.checkOwner(ctx, callerID, id); err != nil {
		return nil, err
	}

	if err := s.todos.UpdateTodo(ctx, id, text); err != nil {
		return nil, fmt.Errorf("service/todo: updating todo %d: %w", id, err)
	}

	todo, err := s.todos.GetTodo(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service/todo: reading back todo %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "todo updated", slog.Int64("todo_id", id))
	return todo, nil
}

// checkOwner enforces strict ownership. Rows that do not exist pass, so the
// "no matching row is success" behaviour is the same in both modes.
func (s *TodoService) checkOwner(ctx context.Context, callerID string, id int64) error {
	if !s.strict {
		return nil
	}

	todo, err := s.todos.GetTodo(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service/todo: checking owner of todo %d: %w", id, err)
	}
	if !todo.OwnedBy(callerID) {
		s.logger.WarnContext(ctx, "todo access denied",
			slog.Int64("todo_id", id),
			slog.String("user_id", callerID),
		)
		return apperror.Forbidden(msgForbidden)
	}
	return nil
}
