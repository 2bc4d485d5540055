// Package session establishes and resolves authenticated sessions.
//
// A session is an explicit server-side entity keyed by an opaque random ID,
// with a fixed absolute lifetime and a per-session forgery token. The
// browser never sees the raw ID: the cookie value is a signed token wrapping
// it, so a tampered cookie is rejected before the store is consulted.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/crypto"
	"github.com/aloks98/gotodo/internal/hash"
	"github.com/aloks98/gotodo/internal/store"
)

// Lifetime is the fixed absolute session lifetime. Once it elapses the
// session is invalid regardless of activity.
const Lifetime = 24 * time.Hour

// CookieName is the session cookie name.
const CookieName = "gotodo_session"

// MinSecretLength is the minimum required length for the signing secret.
const MinSecretLength = 32

// ErrSecretTooShort is returned by NewManager for weak secrets.
var ErrSecretTooShort = errors.New("session secret must be at least 32 bytes")

// Manager issues, resolves, and destroys sessions.
type Manager struct {
	store  store.SessionStore
	secret []byte
	now    func() time.Time
}

// NewManager creates a session manager backed by the given store.
func NewManager(s store.SessionStore, secret string) (*Manager, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &Manager{
		store:  s,
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// Issue establishes a new session for the given user and returns the session
// together with the signed cookie value. Passing an empty userID issues an
// anonymous pre-auth session, which exists only to carry a forgery token for
// the login and signup forms.
func (m *Manager) Issue(ctx context.Context, userID string) (*store.Session, string, error) {
	id, err := crypto.GenerateID()
	if err != nil {
		return nil, "", err
	}
	csrfToken, err := crypto.GenerateID()
	if err != nil {
		return nil, "", err
	}

	now := m.now()
	sess := &store.Session{
		ID:        id,
		UserID:    userID,
		CSRFToken: csrfToken,
		IssuedAt:  now,
		ExpiresAt: now.Add(Lifetime),
	}
	if err := m.store.SaveSession(ctx, sess); err != nil {
		return nil, "", err
	}

	cookie, err := m.encodeCookie(sess)
	if err != nil {
		return nil, "", err
	}
	return sess, cookie, nil
}

// Resolve validates a cookie value and loads the session behind it. The
// signed wrapper is checked first, then the stored expiry is re-checked
// against the clock; an expired session is destroyed on sight.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (*store.Session, error) {
	id, err := m.decodeCookie(cookieValue)
	if err != nil {
		return nil, err
	}

	sess, err := m.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if sess.IsExpired(m.now()) {
		_ = m.store.DeleteSession(ctx, id)
		return nil, apperr.ErrSessionExpired
	}
	return sess, nil
}

// Destroy removes the session behind a cookie value. It is idempotent: a
// missing, expired, or garbage cookie is not an error.
func (m *Manager) Destroy(ctx context.Context, cookieValue string) error {
	// Expired cookies still name a session worth deleting, so claims
	// validation is skipped here.
	id, err := m.decodeCookieUnvalidated(cookieValue)
	if err != nil {
		return nil
	}
	return m.store.DeleteSession(ctx, id)
}

// VerifyCSRF checks a submitted forgery token against the session's token in
// constant time.
func (m *Manager) VerifyCSRF(sess *store.Session, token string) error {
	if token == "" || !hash.ConstantTimeCompare(sess.CSRFToken, token) {
		return apperr.ErrForgeryToken
	}
	return nil
}

// DeleteExpired sweeps expired sessions from the store.
func (m *Manager) DeleteExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx)
}
