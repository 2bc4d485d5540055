// Package store defines the storage interface for gotodo.
package store

import (
	"context"
)

// Store defines the interface for gotodo data persistence.
// All methods must be safe for concurrent use.
//
// Lookup methods return (nil, nil) for a missing record; the service layer
// translates that into its not-found error.
type Store interface {
	// Lifecycle methods

	// Close releases any resources held by the store.
	Close() error

	// Ping verifies the store connection is alive.
	Ping(ctx context.Context) error

	// Migrate creates or updates the database schema.
	Migrate(ctx context.Context) error

	UserStore
	TodoStore
	SessionStore
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. Returns apperr.ErrEmailTaken if the
	// email is already registered.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// TodoStore persists todo items.
type TodoStore interface {
	// CreateTodo persists a new todo.
	CreateTodo(ctx context.Context, todo *Todo) error

	// GetTodo retrieves a todo by ID.
	GetTodo(ctx context.Context, id string) (*Todo, error)

	// SetTodoCompleted sets the completed flag on a todo and returns the
	// updated record. Returns (nil, nil) if the todo does not exist.
	SetTodoCompleted(ctx context.Context, id string, completed bool) (*Todo, error)

	// DeleteTodo removes a todo. Returns true if a record was removed,
	// false if none existed.
	DeleteTodo(ctx context.Context, id string) (bool, error)

	// ListTodosByOwner returns all todos for a user in creation order.
	ListTodosByOwner(ctx context.Context, ownerID string) ([]*Todo, error)
}

// SessionStore persists authenticated sessions. Implemented by the full
// stores and standalone by the Redis backend.
type SessionStore interface {
	// SaveSession persists a new session.
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, id string) (*Session, error)

	// DeleteSession removes a session. Deleting a missing session is not an
	// error.
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions past their lifetime.
	// Returns the number of sessions deleted.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
