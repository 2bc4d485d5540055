package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aloks98/gotodo/internal/todo"
)

// todosPage is the data for the todos page template.
type todosPage struct {
	pageData
	Buckets *todo.Buckets
}

// ListTodos returns the four-bucket classification of the caller's todos,
// rendered as a page or as JSON depending on the caller's preference. The
// partition is computed fresh on every request.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	buckets, err := h.todos.Classify(r.Context(), sess.UserID, time.Now())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusOK, buckets)
		return
	}
	h.render(w, "todos.html", todosPage{
		pageData: h.pageData(r, "Your todos"),
		Buckets:  buckets,
	})
}

// ShowTodo returns a single owned todo as JSON.
func (h *Handler) ShowTodo(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	t, err := h.todos.Find(r.Context(), sess.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// CreateTodo adds a new todo for the caller.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	title, dueDate := createParams(r)
	t, err := h.todos.Add(r.Context(), sess.UserID, title, dueDate)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusCreated, t)
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// ToggleTodo sets the completed flag on an owned todo from the request's
// "completed" field and returns the updated record.
func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	completed, ok := completedParam(r)
	if !ok {
		// No usable flag: flip the current state, which is what the page's
		// checkbox submits.
		current, err := h.todos.Find(r.Context(), sess.UserID, chi.URLParam(r, "id"))
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		completed = !current.Completed
	}

	t, err := h.todos.SetCompletionStatus(r.Context(), sess.UserID, chi.URLParam(r, "id"), completed)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// DeleteTodo removes an owned todo. A missing id is reported as
// success=false, not as an error.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	removed, err := h.todos.Delete(r.Context(), sess.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": removed})
}

// createParams extracts title and due date from either a form or a JSON
// body.
func createParams(r *http.Request) (title, dueDate string) {
	if isJSONBody(r) {
		var body struct {
			Title   string `json:"title"`
			DueDate string `json:"dueDate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			return body.Title, body.DueDate
		}
		return "", ""
	}
	return r.FormValue("title"), r.FormValue("dueDate")
}

// completedParam extracts the desired completed flag, reporting whether one
// was supplied.
func completedParam(r *http.Request) (value, ok bool) {
	if isJSONBody(r) {
		var body struct {
			Completed *bool `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Completed != nil {
			return *body.Completed, true
		}
		return false, false
	}
	raw := r.FormValue("completed")
	if raw == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}

func isJSONBody(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
