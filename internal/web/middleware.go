package web

import (
	"net/http"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/ratelimit"
	"github.com/aloks98/gotodo/internal/session"
)

// mutatingMethods are the methods that require a forgery token.
var mutatingMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// WithSession resolves the session cookie on every request. A request with
// no cookie, or a cookie that no longer resolves, gets a fresh anonymous
// session so the login and signup forms always have a forgery token to
// embed.
func (h *Handler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(session.CookieName); err == nil {
			if sess, err := h.sessions.Resolve(r.Context(), cookie.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(SetSession(r.Context(), sess)))
				return
			}
		}

		sess, cookieValue, err := h.sessions.Issue(r.Context(), "")
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		h.setSessionCookie(w, cookieValue)
		next.ServeHTTP(w, r.WithContext(SetSession(r.Context(), sess)))
	})
}

// RequireForgeryToken rejects state-mutating requests whose forgery token is
// missing or does not match the session's token. The check runs before any
// handler, so a rejected request has no side effects.
func (h *Handler) RequireForgeryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mutatingMethods[r.Method] {
			next.ServeHTTP(w, r)
			return
		}

		sess := GetSession(r.Context())
		if sess == nil {
			h.respondError(w, r, apperr.ErrUnauthenticated)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.FormValue("_csrf")
		}
		if err := h.sessions.VerifyCSRF(sess, token); err != nil {
			h.respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthenticated gates todo operations behind a logged-in session.
// Page-rendering clients are redirected to the login entry point; API
// callers get a 401.
func (h *Handler) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil || sess.UserID == "" {
			h.respondError(w, r, apperr.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ThrottleCredentials limits how often a single client address may hit the
// credential entry points. Repeated failures cannot be used to brute-force
// passwords within a window.
func (h *Handler) ThrottleCredentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := h.limiter.Allow(r.Context(), ratelimit.ClientIP(r))
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		if !allowed {
			if wantsJSON(r) {
				h.writeJSON(w, http.StatusTooManyRequests, errorPayload{
					Error: "too many attempts, try again later",
					Kind:  apperr.KindAuth,
				})
				return
			}
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setSessionCookie writes the session cookie.
func (h *Handler) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
