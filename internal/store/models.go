package store

import (
	"time"
)

// User represents a registered account. Users are created on signup and are
// immutable afterwards; they are never deleted.
type User struct {
	// ID is the unique user identifier.
	ID string `db:"id" json:"id"`

	// FirstName and LastName are display names collected at signup.
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`

	// Email is the login handle, unique across users.
	Email string `db:"email" json:"email"`

	// PasswordHash is the salted one-way hash of the password.
	// The plaintext is never stored or compared directly.
	PasswordHash string `db:"password_hash" json:"-"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Todo represents a single todo item. A todo is owned by exactly one user and
// is never shared or reassigned.
type Todo struct {
	// ID is the unique todo identifier.
	ID string `db:"id" json:"id"`

	// Title is the non-empty todo text.
	Title string `db:"title" json:"title"`

	// DueDate is stored with full timestamp precision, but bucketing only
	// looks at its calendar day.
	DueDate time.Time `db:"due_date" json:"dueDate"`

	// Completed is false on creation and flipped by the toggle action.
	Completed bool `db:"completed" json:"completed"`

	// OwnerID references the owning user. It must always resolve to an
	// existing user.
	OwnerID string `db:"user_id" json:"userId"`

	// CreatedAt is when the todo was added. Listings preserve creation order.
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// OwnedBy returns true if the todo belongs to the given user.
func (t *Todo) OwnedBy(userID string) bool {
	return t.OwnerID == userID
}

// Session represents a server-side authenticated session. The session ID is
// an opaque random value; the browser holds it wrapped in a signed cookie.
type Session struct {
	// ID is the opaque session identifier.
	ID string `db:"id" json:"id"`

	// UserID is the principal bound to this session.
	UserID string `db:"user_id" json:"user_id"`

	// CSRFToken is the per-session secret required on state-mutating
	// requests. Session records are never sent to clients, so the token is
	// kept in the serialized form (the Redis store round-trips it).
	CSRFToken string `db:"csrf_token" json:"csrf_token"`

	// IssuedAt is when the session was established.
	IssuedAt time.Time `db:"issued_at" json:"issued_at"`

	// ExpiresAt is the absolute end of the session's lifetime, checked on
	// every request.
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// IsExpired returns true if the session's lifetime has elapsed at the given
// time.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
