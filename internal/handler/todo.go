package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/model"
)

// TodoManager is the slice of service.TodoService the handlers need.
type TodoManager interface {
	Create(ctx context.Context, userID, text string) (*model.Todo, error)
	List(ctx context.Context, userID string) ([]model.Todo, error)
	Delete(ctx context.Context, callerID string, id int64) error
	Update(ctx context.Context, callerID string, id int64, text string) (*model.Todo, error)
}

// TodoHandler serves the todo routes.
//
// Create and list sit behind auth.RequireAuth and take the owner from the
// verified claims, never from the body. Delete and update read the caller
// from the claims when present; the service decides whether it matters.
type TodoHandler struct {
	todos  TodoManager
	logger *slog.Logger
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(todos TodoManager, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, logger: logger}
}

type createTodoRequest struct {
	Todo string `json:"todo"`
}

type deleteTodoRequest struct {
	ID todoID `json:"id"`
}

type updateTodoRequest struct {
	ID   todoID `json:"id"`
	Todo string `json:"todo"`
}

// HandleCreate adds a todo for the caller.
//
// HTTP: POST /newtodo (authenticated)
// REQUEST BODY: {"todo": "buy milk"}
// RESPONSE:     200 {"id": 1, "todo": "buy milk", "user_id": "u1"}
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to add todo"

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.Unauthorized("Token is required"), fallback)
		return
	}

	var req createTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err, fallback)
		return
	}

	todo, err := h.todos.Create(r.Context(), claims.UserID, req.Todo)
	if err != nil {
		writeError(w, r, h.logger, err, fallback)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// HandleList returns the caller's todos, oldest first. Always an array.
//
// HTTP: GET /gettodos (authenticated)
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to get todos"

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.Unauthorized("Token is required"), fallback)
		return
	}

	todos, err := h.todos.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, h.logger, err, fallback)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

// HandleDelete removes a todo by id. Deleting an id that does not exist
// still reports success.
//
// HTTP: DELETE /deletetodo
// REQUEST BODY: {"id": 1}
// RESPONSE:     200 {"message": "Todo deleted successfully"}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to delete todo"

	var req deleteTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err, fallback)
		return
	}
	if !req.ID.present() {
		writeError(w, r, h.logger, apperror.Missing("id", "Id is required"), fallback)
		return
	}

	if err := h.todos.Delete(r.Context(), callerID(r), req.ID.value); err != nil {
		writeError(w, r, h.logger, err, fallback)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Todo deleted successfully"})
}

// HandleUpdate replaces a todo's content and returns the stored row, or null
// when no row has that id.
//
// HTTP: PUT /updatetodo
// REQUEST BODY: {"id": 1, "todo": "buy eggs"}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to update todo"

	var req updateTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err, fallback)
		return
	}
	if !req.ID.present() || req.Todo == "" {
		writeError(w, r, h.logger,
			apperror.ValidationFailed("id", "Id and todo content are required"), fallback)
		return
	}

	todo, err := h.todos.Update(r.Context(), callerID(r), req.ID.value, req.Todo)
	if err != nil {
		writeError(w, r, h.logger, err, fallback)
		return
	}

	// A nil *model.Todo encodes as null.
	writeJSON(w, http.StatusOK, todo)
}

func callerID(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return ""
}
