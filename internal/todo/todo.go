// Package todo implements the todo lifecycle and the temporal-bucket
// classification.
package todo

import (
	"context"
	"strings"
	"time"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/crypto"
	"github.com/aloks98/gotodo/internal/store"
)

// Due date forms accepted on create: full timestamps from API callers and
// bare dates from the HTML date input.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// Buckets is the four-way partition of a user's todos. Every todo lands in
// exactly one bucket; each bucket preserves creation order. Bucket membership
// is derived on every call and never stored.
type Buckets struct {
	OverDue        []*store.Todo `json:"overDue"`
	DueToday       []*store.Todo `json:"dueToday"`
	DueLater       []*store.Todo `json:"dueLater"`
	CompletedItems []*store.Todo `json:"completedItems"`
}

// Service provides todo operations over a TodoStore. All mutating operations
// take the acting user's ID and refuse to touch todos owned by anyone else.
type Service struct {
	store store.TodoStore
}

// NewService creates a todo service.
func NewService(s store.TodoStore) *Service {
	return &Service{store: s}
}

// Add creates a new todo with completed=false. The title must be non-blank
// and the due date must parse as RFC 3339 or as a bare calendar date.
func (s *Service) Add(ctx context.Context, ownerID, title, dueDate string) (*store.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.New(apperr.KindValidation, "title is required", apperr.ErrEmptyTitle)
	}

	due, err := parseDueDate(dueDate)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "bad due date "+dueDate, apperr.ErrInvalidDueDate)
	}

	id, err := crypto.GenerateID()
	if err != nil {
		return nil, err
	}

	t := &store.Todo{
		ID:        id,
		Title:     title,
		DueDate:   due,
		Completed: false,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateTodo(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Find retrieves a todo owned by the given user. A todo owned by someone
// else reports not-found, so ids cannot be probed across users.
func (s *Service) Find(ctx context.Context, ownerID, id string) (*store.Todo, error) {
	t, err := s.store.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || !t.OwnedBy(ownerID) {
		return nil, apperr.ErrTodoNotFound
	}
	return t, nil
}

// SetCompletionStatus sets the completed flag on an owned todo and returns
// the updated record. Setting the flag to its current value is a no-op that
// still succeeds.
func (s *Service) SetCompletionStatus(ctx context.Context, ownerID, id string, completed bool) (*store.Todo, error) {
	if _, err := s.Find(ctx, ownerID, id); err != nil {
		return nil, err
	}
	t, err := s.store.SetTodoCompleted(ctx, id, completed)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.ErrTodoNotFound
	}
	return t, nil
}

// Delete permanently removes an owned todo. Returns true if a record was
// removed; a missing or foreign id is false, never an error.
func (s *Service) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	t, err := s.store.GetTodo(ctx, id)
	if err != nil {
		return false, err
	}
	if t == nil || !t.OwnedBy(ownerID) {
		return false, nil
	}
	return s.store.DeleteTodo(ctx, id)
}

// Classify partitions all of the owner's todos into the four buckets as of
// the given time. Precedence, evaluated in order: completed first, then
// overdue, then due today, then due later. Comparison uses the calendar day
// in UTC; time of day is ignored.
func (s *Service) Classify(ctx context.Context, ownerID string, now time.Time) (*Buckets, error) {
	todos, err := s.store.ListTodosByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Empty slices rather than nil so JSON renders [] for empty buckets.
	b := &Buckets{
		OverDue:        []*store.Todo{},
		DueToday:       []*store.Todo{},
		DueLater:       []*store.Todo{},
		CompletedItems: []*store.Todo{},
	}

	today := dayOf(now)
	for _, t := range todos {
		switch {
		case t.Completed:
			b.CompletedItems = append(b.CompletedItems, t)
		case dayOf(t.DueDate).Before(today):
			b.OverDue = append(b.OverDue, t)
		case dayOf(t.DueDate).Equal(today):
			b.DueToday = append(b.DueToday, t)
		default:
			b.DueLater = append(b.DueLater, t)
		}
	}
	return b, nil
}

// dayOf truncates a timestamp to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDueDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
