package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/aloks98/gotodo/internal/store"
	"github.com/aloks98/gotodo/internal/store/memory"
)

func TestWorkerSweepsExpiredSessions(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	now := time.Now()
	expired := &store.Session{
		ID:        "expired",
		UserID:    "u1",
		CSRFToken: "tok",
		IssuedAt:  now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(-24 * time.Hour),
	}
	live := &store.Session{
		ID:        "live",
		UserID:    "u1",
		CSRFToken: "tok",
		IssuedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if err := st.SaveSession(ctx, expired); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := st.SaveSession(ctx, live); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	w := NewWorker(&Config{Sessions: st, Interval: time.Hour})
	w.Start()
	w.Stop()

	stats := w.Stats()
	if stats.SessionsDeleted != 1 {
		t.Fatalf("SessionsDeleted = %d, want 1", stats.SessionsDeleted)
	}
	if stats.LastRun.IsZero() {
		t.Fatal("LastRun not recorded")
	}

	got, err := st.GetSession(ctx, "expired")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Fatal("expired session survived the sweep")
	}

	got, err = st.GetSession(ctx, "live")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("live session was swept")
	}
}

func TestWorkerDefaults(t *testing.T) {
	w := NewWorker(&Config{Sessions: memory.New()})
	if w.interval != time.Hour {
		t.Fatalf("interval = %v, want 1h", w.interval)
	}
	if w.logger == nil {
		t.Fatal("logger not defaulted")
	}
}
