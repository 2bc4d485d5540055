// Package web wires the HTTP surface: routing, session middleware, forgery
// token enforcement, and the handlers themselves.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/ratelimit"
	"github.com/aloks98/gotodo/internal/session"
	"github.com/aloks98/gotodo/internal/store"
	"github.com/aloks98/gotodo/internal/todo"
	"github.com/aloks98/gotodo/internal/users"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// sessionKey is the context key for the resolved session.
const sessionKey contextKey = "gotodo_session"

// Handler holds all HTTP handlers for the application.
type Handler struct {
	todos     *todo.Service
	users     *users.Service
	sessions  *session.Manager
	templates *template.Template
	limiter   ratelimit.Limiter
}

// New creates a new Handler.
func New(todos *todo.Service, userSvc *users.Service, sessions *session.Manager, templates *template.Template) *Handler {
	return &Handler{
		todos:     todos,
		users:     userSvc,
		sessions:  sessions,
		templates: templates,
	}
}

// SetLoginLimiter enables per-client throttling of the credential entry
// points. A nil limiter leaves them unthrottled.
func (h *Handler) SetLoginLimiter(l ratelimit.Limiter) {
	h.limiter = l
}

// Routes registers all application routes on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.WithSession)
		r.Use(h.RequireForgeryToken)

		// Public pages and auth entry points
		r.Get("/", h.ShowIndex)
		r.Get("/login", h.ShowLogin)
		r.Get("/signup", h.ShowSignup)
		r.With(h.ThrottleCredentials).Post("/session", h.Login)
		r.With(h.ThrottleCredentials).Post("/users", h.Signup)
		r.Get("/signout", h.Signout)

		// Todo operations
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuthenticated)
			r.Get("/todos", h.ListTodos)
			r.Get("/todos/{id}", h.ShowTodo)
			r.Post("/todos", h.CreateTodo)
			r.Put("/todos/{id}", h.ToggleTodo)
			r.Delete("/todos/{id}", h.DeleteTodo)
		})
	})
}

// SetSession stores the resolved session in the request context.
func SetSession(ctx context.Context, sess *store.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// GetSession retrieves the session from the context.
func GetSession(ctx context.Context) *store.Session {
	if v := ctx.Value(sessionKey); v != nil {
		if sess, ok := v.(*store.Session); ok {
			return sess
		}
	}
	return nil
}

// wantsJSON reports whether the caller asked for structured data rather than
// a rendered page. Browsers send text/html in Accept; API callers ask for
// application/json explicitly.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "text/html") {
		return false
	}
	return strings.Contains(accept, "application/json")
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("write json: %v", err)
	}
}

// render executes a template into a buffer first so a template error can
// still produce a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// errorPayload is the JSON shape for failures.
type errorPayload struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// respondError translates a taxonomy error into an HTTP response: a redirect
// for unauthenticated page views, a structured payload for everything else.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)

	if kind == apperr.KindAuth && !wantsJSON(r) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	code := kindToStatus(kind)
	if wantsJSON(r) {
		h.writeJSON(w, code, errorPayload{Error: publicMessage(err, kind), Kind: kind})
		return
	}
	http.Error(w, publicMessage(err, kind), code)
}

// kindToStatus maps error kinds to HTTP status codes. Validation failures use
// 422 to match the original interface contract.
func kindToStatus(kind string) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForgeryToken:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the error text safe to expose. Internal errors are
// logged and masked.
func publicMessage(err error, kind string) string {
	if kind == apperr.KindInternal {
		log.Printf("internal error: %v", err)
		return "Internal Server Error"
	}
	return err.Error()
}
