package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, name, email, password`

// CreateUser inserts a new user row.
//
// Uniqueness is enforced by the schema (PRIMARY KEY on id, UNIQUE on email),
// not by a prior SELECT. Two concurrent signups for the same email therefore
// cannot both succeed: the loser gets a constraint error, which is translated
// to apperror.ErrConflict here.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	_, err := db.conn.ExecContext(ctx,
		db.dialect.rebind(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)`),
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
	)
	if err != nil {
		if db.dialect.isUniqueViolation(err) {
			return apperror.Conflict("user already exists")
		}
		return fmt.Errorf("sqlstore: inserting user %s: %w", user.ID, err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address. Matching is exact.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := db.scanUser(db.conn.QueryRowContext(ctx,
		db.dialect.rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`),
		email,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlstore: getting user by email: %w", err)
	}
	return u, nil
}

// GetUserByID retrieves a user by primary key.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := db.scanUser(db.conn.QueryRowContext(ctx,
		db.dialect.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`),
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlstore: getting user %s: %w", id, err)
	}
	return u, nil
}

func (db *DB) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash); err != nil {
		return nil, err
	}
	return &u, nil
}
