package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/adupont/portfolio/internal/auth"
)

// AuthHandler manages the admin session lifecycle.
//
// HANDLER RESPONSIBILITIES:
//   - HandleLogin          → verify the password, issue the session cookie
//   - HandleLogout         → end the session, clear the cookie
//   - HandleSessionStatus  → report authenticated state and remaining time
//   - HandleExtendSession  → push the expiry forward
//   - HandleChangePassword → rotate the admin password
//
// There is a single admin identity, so the session state lives server-side
// in the store and the cookie only carries the opaque token.
type AuthHandler struct {
	sessions *auth.SessionManager
	logger   *slog.Logger
}

func NewAuthHandler(sessions *auth.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool  `json:"authenticated"`
	RemainingMs   int64 `json:"remainingMs"`
}

// setSessionCookie installs or clears the session cookie.
// HttpOnly keeps the token away from page scripts; SameSite=Lax stops
// cross-site POSTs from carrying it. maxAge <= 0 deletes the cookie.
func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable when serving over HTTPS
	})
}

// HandleLogin verifies the admin password and starts a session.
//
// HTTP: POST /api/admin/login
// REQUEST BODY: {"password":"..."}
//
// A failed attempt returns 401 and leaves any existing session untouched.
// A successful one mints a fresh token, so the previous cookie (on any
// other browser) stops validating immediately.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	ok, err := h.sessions.Login(r.Context(), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		h.logger.Warn("admin login rejected")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "invalid password"})
		return
	}

	token, err := h.sessions.SessionToken(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	remaining, err := h.sessions.SessionTimeRemaining(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, token, int(remaining.Seconds()))
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		RemainingMs:   remaining.Milliseconds(),
	})
}

// HandleLogout ends the session and clears the cookie.
//
// HTTP: POST /api/admin/logout
//
// POST, not GET: logout changes state, and GET would be vulnerable to
// browsers pre-fetching the URL. Logging out while already logged out is
// fine — the operation is idempotent.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleSessionStatus reports whether the caller holds a live session.
//
// HTTP: GET /api/admin/session
//
// This endpoint is public on purpose: the frontend calls it on page load to
// decide whether to show the admin UI. An anonymous caller just gets
// {"authenticated":false,"remainingMs":0}.
func (h *AuthHandler) HandleSessionStatus(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	ok, err := h.sessions.Validate(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	remaining, err := h.sessions.SessionTimeRemaining(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		RemainingMs:   remaining.Milliseconds(),
	})
}

// HandleExtendSession pushes the expiry a full session duration into the
// future and refreshes the cookie lifetime to match.
//
// HTTP: POST /api/admin/session/extend
// Auth: Required (RequireAdmin middleware)
func (h *AuthHandler) HandleExtendSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ExtendSession(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.sessions.SessionToken(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	remaining, err := h.sessions.SessionTimeRemaining(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, token, int(remaining.Seconds()))
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		RemainingMs:   remaining.Milliseconds(),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleChangePassword rotates the admin password.
//
// HTTP: POST /api/admin/password
// Auth: Required (RequireAdmin middleware)
// REQUEST BODY: {"currentPassword":"...","newPassword":"..."}
//
// The current password is re-verified even though the caller already holds
// a session — a stolen cookie alone must not be enough to lock the owner
// out.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}
	if req.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "new password is required"})
		return
	}

	ok, err := h.sessions.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "current password is incorrect"})
		return
	}

	h.logger.Info("admin password changed")
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
