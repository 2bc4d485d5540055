package web

import (
	"net/http"

	"github.com/aloks98/gotodo/internal/ratelimit"
	"github.com/aloks98/gotodo/internal/session"
)

// pageData is the data passed to page templates.
type pageData struct {
	Title     string
	CSRFToken string
	LoggedIn  bool
	Error     string
}

func (h *Handler) pageData(r *http.Request, title string) pageData {
	data := pageData{Title: title}
	if sess := GetSession(r.Context()); sess != nil {
		data.CSRFToken = sess.CSRFToken
		data.LoggedIn = sess.UserID != ""
	}
	return data
}

// ShowIndex renders the landing page.
func (h *Handler) ShowIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", h.pageData(r, "Todo Application"))
}

// ShowLogin renders the login form.
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", h.pageData(r, "Login"))
}

// ShowSignup renders the signup form.
func (h *Handler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup.html", h.pageData(r, "Sign up"))
}

// Login handles login form submission. On success the anonymous session is
// replaced by one bound to the user; on failure page clients are sent back
// to the login form with no hint of why the attempt failed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	pass := r.FormValue("password")

	user, err := h.users.VerifyCredentials(r.Context(), email, pass)
	if err != nil {
		if wantsJSON(r) {
			h.respondError(w, r, err)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.bindUserSession(w, r, user.ID); err != nil {
		h.respondError(w, r, err)
		return
	}
	if h.limiter != nil {
		_ = h.limiter.Reset(r.Context(), ratelimit.ClientIP(r))
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// Signup handles signup form submission. A new user is logged in
// immediately.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Create(r.Context(),
		r.FormValue("firstname"),
		r.FormValue("lastname"),
		r.FormValue("email"),
		r.FormValue("password"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.bindUserSession(w, r, user.ID); err != nil {
		h.respondError(w, r, err)
		return
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusCreated, user)
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// Signout clears the session unconditionally and returns to the landing
// page. Signing out while already anonymous is a no-op.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.respondError(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// bindUserSession discards the current (anonymous) session and issues one
// bound to the user.
func (h *Handler) bindUserSession(w http.ResponseWriter, r *http.Request, userID string) error {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		_ = h.sessions.Destroy(r.Context(), cookie.Value)
	}

	_, cookieValue, err := h.sessions.Issue(r.Context(), userID)
	if err != nil {
		return err
	}
	h.setSessionCookie(w, cookieValue)
	return nil
}
