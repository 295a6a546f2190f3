package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// fakeStore is an in-memory repository.UserRepository and
// repository.TodoRepository. The *Err fields simulate database failures.
type fakeStore struct {
	mu     sync.Mutex
	users  map[string]model.User
	todos  map[int64]model.Todo
	nextID int64

	createUserErr error
	getUserErr    error
	createTodoErr error
	getTodoErr    error
	listErr       error
	updateErr     error
	deleteErr     error
}

var (
	_ repository.UserRepository = (*fakeStore)(nil)
	_ repository.TodoRepository = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]model.User),
		todos: make(map[int64]model.Todo),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	if _, ok := f.users[user.ID]; ok {
		return apperror.Conflict("user already exists")
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("user already exists")
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (f *fakeStore) CreateTodo(_ context.Context, text, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createTodoErr != nil {
		return 0, f.createTodoErr
	}
	f.nextID++
	owner := userID
	f.todos[f.nextID] = model.Todo{ID: f.nextID, Todo: text, UserID: &owner}
	return f.nextID, nil
}

func (f *fakeStore) GetTodo(_ context.Context, id int64) (*model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getTodoErr != nil {
		return nil, f.getTodoErr
	}
	t, ok := f.todos[id]
	if !ok {
		return nil, apperror.NotFound("todo", strconv.FormatInt(id, 10))
	}
	return &t, nil
}

func (f *fakeStore) ListTodosByUser(_ context.Context, userID string) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Todo
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.todos[id]; ok && t.OwnedBy(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateTodo(_ context.Context, id int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if t, ok := f.todos[id]; ok {
		t.Todo = text
		f.todos[id] = t
	}
	return nil
}

func (f *fakeStore) DeleteTodo(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.todos, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
