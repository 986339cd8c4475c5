package auth

import "net/http"

// SessionCookie is the name of the HttpOnly cookie carrying the admin
// session token. HttpOnly means page JavaScript cannot read it, which keeps
// an XSS from walking off with the session.
const SessionCookie = "admin_session"

// RequireAdmin is a middleware that gates the admin routes.
//
// It reads the session token from the cookie and validates it against the
// stored session (same token, not expired). On failure it returns 401 and
// stops the chain. There is exactly one admin, so unlike a multi-user
// system nothing needs to be stashed in the request context — passing the
// gate IS the identity.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler.
func RequireAdmin(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				unauthorized(w)
				return
			}

			ok, err := sessions.Validate(r.Context(), cookie.Value)
			if err != nil || !ok {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid admin session required"}`))
}
