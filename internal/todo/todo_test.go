package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/store"
	"github.com/aloks98/gotodo/internal/store/memory"
)

// A fixed "now" well away from midnight so day arithmetic is unambiguous.
var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newService() *Service {
	return NewService(memory.New())
}

func TestAdd(t *testing.T) {
	s := newService()
	ctx := context.Background()

	todo, err := s.Add(ctx, "u1", "write report", "2024-03-20")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if todo.Completed {
		t.Error("new todo must start incomplete")
	}
	if todo.OwnerID != "u1" {
		t.Errorf("OwnerID = %q, want %q", todo.OwnerID, "u1")
	}
	if todo.ID == "" {
		t.Error("todo must get an ID")
	}
}

func TestAdd_Validation(t *testing.T) {
	s := newService()
	ctx := context.Background()

	tests := []struct {
		name    string
		title   string
		dueDate string
		wantErr error
	}{
		{"empty title", "", "2024-03-20", apperr.ErrEmptyTitle},
		{"blank title", "   ", "2024-03-20", apperr.ErrEmptyTitle},
		{"garbage due date", "a", "not-a-date", apperr.ErrInvalidDueDate},
		{"empty due date", "a", "", apperr.ErrInvalidDueDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(ctx, "u1", tt.title, tt.dueDate)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAdd_AcceptsRFC3339(t *testing.T) {
	s := newService()

	todo, err := s.Add(context.Background(), "u1", "a", "2024-03-20T09:30:00Z")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := todo.DueDate.UTC().Format("2006-01-02"); got != "2024-03-20" {
		t.Errorf("DueDate day = %s, want 2024-03-20", got)
	}
}

func TestClassify_Precedence(t *testing.T) {
	s := newService()
	ctx := context.Background()

	yesterday := now.AddDate(0, 0, -1).Format(time.RFC3339)
	today := now.Format(time.RFC3339)
	tomorrow := now.AddDate(0, 0, 1).Format(time.RFC3339)

	past, _ := s.Add(ctx, "u1", "past", yesterday)
	due, _ := s.Add(ctx, "u1", "today", today)
	later, _ := s.Add(ctx, "u1", "later", tomorrow)

	// A completed todo never counts as overdue, whatever its due date.
	completedPast, _ := s.Add(ctx, "u1", "done long ago", yesterday)
	if _, err := s.SetCompletionStatus(ctx, "u1", completedPast.ID, true); err != nil {
		t.Fatalf("SetCompletionStatus() error = %v", err)
	}

	b, err := s.Classify(ctx, "u1", now)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if len(b.OverDue) != 1 || b.OverDue[0].ID != past.ID {
		t.Errorf("OverDue = %v, want only %q", ids(b.OverDue), past.ID)
	}
	if len(b.DueToday) != 1 || b.DueToday[0].ID != due.ID {
		t.Errorf("DueToday = %v, want only %q", ids(b.DueToday), due.ID)
	}
	if len(b.DueLater) != 1 || b.DueLater[0].ID != later.ID {
		t.Errorf("DueLater = %v, want only %q", ids(b.DueLater), later.ID)
	}
	if len(b.CompletedItems) != 1 || b.CompletedItems[0].ID != completedPast.ID {
		t.Errorf("CompletedItems = %v, want only %q", ids(b.CompletedItems), completedPast.ID)
	}
}

func TestClassify_DayGranularity(t *testing.T) {
	s := newService()
	ctx := context.Background()

	// Due late tonight: later than "now" on the clock, same calendar day.
	tonight := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC).Format(time.RFC3339)
	// Due early this morning: earlier on the clock, still today.
	morning := time.Date(2024, 3, 15, 0, 1, 0, 0, time.UTC).Format(time.RFC3339)
	// One minute before midnight yesterday.
	lastNight := time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC).Format(time.RFC3339)

	_, _ = s.Add(ctx, "u1", "tonight", tonight)
	_, _ = s.Add(ctx, "u1", "morning", morning)
	_, _ = s.Add(ctx, "u1", "last night", lastNight)

	b, err := s.Classify(ctx, "u1", now)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(b.DueToday) != 2 {
		t.Errorf("DueToday = %v, want the two same-day todos", ids(b.DueToday))
	}
	if len(b.OverDue) != 1 {
		t.Errorf("OverDue = %v, want the one from yesterday", ids(b.OverDue))
	}
}

func TestClassify_PreservesCreationOrder(t *testing.T) {
	s := newService()
	ctx := context.Background()

	// Due dates deliberately out of order; buckets must not re-sort.
	day := now.AddDate(0, 0, 2).Format(time.RFC3339)
	earlier := now.AddDate(0, 0, 1).Format(time.RFC3339)

	first, _ := s.Add(ctx, "u1", "first", day)
	second, _ := s.Add(ctx, "u1", "second", earlier)

	b, err := s.Classify(ctx, "u1", now)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(b.DueLater) != 2 || b.DueLater[0].ID != first.ID || b.DueLater[1].ID != second.ID {
		t.Errorf("DueLater = %v, want creation order [%s %s]", ids(b.DueLater), first.ID, second.ID)
	}
}

func TestClassify_RecomputedOnEveryCall(t *testing.T) {
	s := newService()
	ctx := context.Background()

	todo, _ := s.Add(ctx, "u1", "due tomorrow", now.AddDate(0, 0, 1).Format(time.RFC3339))

	b, _ := s.Classify(ctx, "u1", now)
	if len(b.DueLater) != 1 {
		t.Fatalf("DueLater = %v, want [%s]", ids(b.DueLater), todo.ID)
	}

	// Same stored state, later clock: the todo migrates buckets.
	b, _ = s.Classify(ctx, "u1", now.AddDate(0, 0, 1))
	if len(b.DueToday) != 1 || len(b.DueLater) != 0 {
		t.Errorf("after a day passes: DueToday = %v, DueLater = %v", ids(b.DueToday), ids(b.DueLater))
	}

	b, _ = s.Classify(ctx, "u1", now.AddDate(0, 0, 2))
	if len(b.OverDue) != 1 {
		t.Errorf("after two days: OverDue = %v, want [%s]", ids(b.OverDue), todo.ID)
	}
}

func TestSetCompletionStatus_Idempotent(t *testing.T) {
	s := newService()
	ctx := context.Background()

	todo, _ := s.Add(ctx, "u1", "a", "2024-03-20")

	first, err := s.SetCompletionStatus(ctx, "u1", todo.ID, true)
	if err != nil {
		t.Fatalf("SetCompletionStatus() error = %v", err)
	}
	second, err := s.SetCompletionStatus(ctx, "u1", todo.ID, true)
	if err != nil {
		t.Fatalf("SetCompletionStatus() second call error = %v", err)
	}
	if !first.Completed || !second.Completed {
		t.Error("both calls must report completed=true")
	}

	// Toggle is reversible.
	back, err := s.SetCompletionStatus(ctx, "u1", todo.ID, false)
	if err != nil {
		t.Fatalf("SetCompletionStatus(false) error = %v", err)
	}
	if back.Completed {
		t.Error("toggle back must report completed=false")
	}
}

func TestSetCompletionStatus_NotFound(t *testing.T) {
	s := newService()

	_, err := s.SetCompletionStatus(context.Background(), "u1", "missing", true)
	if !errors.Is(err, apperr.ErrTodoNotFound) {
		t.Errorf("error = %v, want %v", err, apperr.ErrTodoNotFound)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	s := newService()
	ctx := context.Background()

	todo, _ := s.Add(ctx, "u1", "a", "2024-03-20")

	removed, err := s.Delete(ctx, "u1", todo.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !removed {
		t.Error("Delete() = false, want true")
	}

	removed, err = s.Delete(ctx, "u1", todo.ID)
	if err != nil {
		t.Fatalf("Delete() on deleted id error = %v", err)
	}
	if removed {
		t.Error("Delete() on deleted id = true, want false")
	}
}

func TestOwnership(t *testing.T) {
	s := newService()
	ctx := context.Background()

	todo, _ := s.Add(ctx, "owner", "private", "2024-03-20")

	if _, err := s.Find(ctx, "intruder", todo.ID); !errors.Is(err, apperr.ErrTodoNotFound) {
		t.Errorf("Find() by non-owner error = %v, want %v", err, apperr.ErrTodoNotFound)
	}
	if _, err := s.SetCompletionStatus(ctx, "intruder", todo.ID, true); !errors.Is(err, apperr.ErrTodoNotFound) {
		t.Errorf("SetCompletionStatus() by non-owner error = %v, want %v", err, apperr.ErrTodoNotFound)
	}
	removed, err := s.Delete(ctx, "intruder", todo.ID)
	if err != nil {
		t.Fatalf("Delete() by non-owner error = %v", err)
	}
	if removed {
		t.Error("Delete() by non-owner must not remove the todo")
	}

	// The owner still sees it untouched.
	got, err := s.Find(ctx, "owner", todo.ID)
	if err != nil {
		t.Fatalf("Find() by owner error = %v", err)
	}
	if got.Completed {
		t.Error("intruder's toggle must not have taken effect")
	}
}

func TestLifecycleScenario(t *testing.T) {
	s := newService()
	ctx := context.Background()

	yesterday := now.AddDate(0, 0, -1).Format(time.RFC3339)
	todo, err := s.Add(ctx, "u1", "overdue item", yesterday)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	b, _ := s.Classify(ctx, "u1", now)
	if len(b.OverDue) != 1 || len(b.DueToday)+len(b.DueLater)+len(b.CompletedItems) != 0 {
		t.Fatalf("after add: buckets = %v", b)
	}

	if _, err := s.SetCompletionStatus(ctx, "u1", todo.ID, true); err != nil {
		t.Fatalf("SetCompletionStatus() error = %v", err)
	}
	b, _ = s.Classify(ctx, "u1", now)
	if len(b.CompletedItems) != 1 || len(b.OverDue) != 0 {
		t.Fatalf("after toggle: buckets = %v", b)
	}

	if removed, _ := s.Delete(ctx, "u1", todo.ID); !removed {
		t.Fatal("Delete() = false, want true")
	}
	b, _ = s.Classify(ctx, "u1", now)
	if len(b.OverDue)+len(b.DueToday)+len(b.DueLater)+len(b.CompletedItems) != 0 {
		t.Fatalf("after delete: buckets = %v", b)
	}
}

func ids(todos []*store.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}
