// Package memory provides an in-memory store implementation for testing and
// development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/store"
)

// Store is an in-memory implementation of the store.Store interface.
type Store struct {
	mu sync.RWMutex

	users        map[string]*store.User
	usersByEmail map[string]*store.User
	todos        map[string]*store.Todo
	todoOrder    []string // todo IDs in creation order
	sessions     map[string]*store.Session

	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[string]*store.User),
		usersByEmail: make(map[string]*store.User),
		todos:        make(map[string]*store.Todo),
		sessions:     make(map[string]*store.Session),
	}
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping checks if the store is available.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nil
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

// CreateUser persists a new user.
func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByEmail[user.Email]; exists {
		return apperr.ErrEmailTaken
	}
	u := *user
	s.users[u.ID] = &u
	s.usersByEmail[u.Email] = &u
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usersByEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

// CreateTodo persists a new todo.
func (s *Store) CreateTodo(ctx context.Context, todo *store.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *todo
	s.todos[t.ID] = &t
	s.todoOrder = append(s.todoOrder, t.ID)
	return nil
}

// GetTodo retrieves a todo by ID.
func (s *Store) GetTodo(ctx context.Context, id string) (*store.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.todos[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

// SetTodoCompleted sets the completed flag and returns the updated todo.
func (s *Store) SetTodoCompleted(ctx context.Context, id string, completed bool) (*store.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return nil, nil
	}
	t.Completed = completed
	copied := *t
	return &copied, nil
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return false, nil
	}
	delete(s.todos, id)
	for i, tid := range s.todoOrder {
		if tid == id {
			s.todoOrder = append(s.todoOrder[:i], s.todoOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

// ListTodosByOwner returns the owner's todos in creation order.
func (s *Store) ListTodosByOwner(ctx context.Context, ownerID string) ([]*store.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*store.Todo
	for _, id := range s.todoOrder {
		t := s.todos[id]
		if t.OwnerID == ownerID {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

// SaveSession persists a new session.
func (s *Store) SaveSession(ctx context.Context, session *store.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := *session
	s.sessions[sess.ID] = &sess
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		copied := *sess
		return &copied, nil
	}
	return nil, nil
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteExpiredSessions removes sessions past their lifetime.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	now := time.Now()
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

// Verify Store implements store.Store interface
var _ store.Store = (*Store)(nil)
