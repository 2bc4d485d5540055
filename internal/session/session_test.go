package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/store/memory"
)

const testSecret = "this-is-a-32-character-secret!!!"

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(memory.New(), testSecret)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestNewManager_SecretTooShort(t *testing.T) {
	_, err := NewManager(memory.New(), "short")
	if !errors.Is(err, ErrSecretTooShort) {
		t.Errorf("NewManager() error = %v, want %v", err, ErrSecretTooShort)
	}
}

func TestIssueAndResolve(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	sess, cookie, err := m.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if sess.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", sess.UserID)
	}
	if sess.CSRFToken == "" {
		t.Error("session must carry a forgery token")
	}
	if want := sess.IssuedAt.Add(Lifetime); !sess.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", sess.ExpiresAt, want)
	}

	got, err := m.Resolve(ctx, cookie)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.ID != sess.ID || got.UserID != "u1" {
		t.Errorf("Resolve() = %+v, want session %s for u1", got, sess.ID)
	}
	if got.CSRFToken != sess.CSRFToken {
		t.Error("forgery token must be stable across resolves")
	}
}

func TestResolve_GarbageCookie(t *testing.T) {
	m := newManager(t)

	for _, value := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Resolve(context.Background(), value)
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("Resolve(%q) error = %v, want %v", value, err, apperr.ErrUnauthenticated)
		}
	}
}

func TestResolve_TamperedCookie(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	_, cookie, err := m.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Re-sign with a different secret.
	other, _ := NewManager(memory.New(), "another-32-character-secret!!!!!")
	sess, _, _ := other.Issue(ctx, "u1")
	forged, _ := other.encodeCookie(sess)

	if _, err := m.Resolve(ctx, forged); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Resolve(forged) error = %v, want %v", err, apperr.ErrUnauthenticated)
	}
	// The legitimate cookie still works.
	if _, err := m.Resolve(ctx, cookie); err != nil {
		t.Errorf("Resolve(legitimate) error = %v", err)
	}
}

func TestResolve_Expired(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	sess, cookie, err := m.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Move the clock past the session lifetime.
	m.now = func() time.Time { return time.Now().Add(Lifetime + time.Minute) }

	if _, err := m.Resolve(ctx, cookie); !errors.Is(err, apperr.ErrSessionExpired) {
		t.Errorf("Resolve() error = %v, want %v", err, apperr.ErrSessionExpired)
	}

	// The expired session is gone from the store.
	got, err := m.store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got != nil {
		t.Error("expired session should be destroyed on resolve")
	}
}

func TestDestroy_Idempotent(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	_, cookie, err := m.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := m.Destroy(ctx, cookie); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if _, err := m.Resolve(ctx, cookie); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("Resolve() after destroy error = %v, want %v", err, apperr.ErrUnauthenticated)
	}

	// Destroying again, or destroying garbage, is a no-op.
	if err := m.Destroy(ctx, cookie); err != nil {
		t.Errorf("Destroy() second call error = %v", err)
	}
	if err := m.Destroy(ctx, "garbage"); err != nil {
		t.Errorf("Destroy(garbage) error = %v", err)
	}
}

func TestVerifyCSRF(t *testing.T) {
	m := newManager(t)

	sess, _, err := m.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := m.VerifyCSRF(sess, sess.CSRFToken); err != nil {
		t.Errorf("VerifyCSRF() with matching token error = %v", err)
	}
	if err := m.VerifyCSRF(sess, ""); !errors.Is(err, apperr.ErrForgeryToken) {
		t.Errorf("VerifyCSRF() with empty token error = %v, want %v", err, apperr.ErrForgeryToken)
	}
	if err := m.VerifyCSRF(sess, "wrong"); !errors.Is(err, apperr.ErrForgeryToken) {
		t.Errorf("VerifyCSRF() with wrong token error = %v, want %v", err, apperr.ErrForgeryToken)
	}
}

func TestAnonymousSession(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	sess, cookie, err := m.Issue(ctx, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if sess.UserID != "" {
		t.Errorf("UserID = %q, want empty for pre-auth session", sess.UserID)
	}

	got, err := m.Resolve(ctx, cookie)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.CSRFToken == "" {
		t.Error("pre-auth session must still carry a forgery token")
	}
}
