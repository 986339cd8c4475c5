package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adupont/portfolio/internal/auth"
	"github.com/adupont/portfolio/internal/handler"
)

// sessionCookie digs the session cookie out of a recorded response.
func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

func TestHandleLogin(t *testing.T) {
	h := handler.NewAuthHandler(newTestSessions(t), testLogger())

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"nope"}`))
		rr := httptest.NewRecorder()
		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, sessionCookie(t, rr), "failed login must not set a cookie")
	})

	t.Run("correct password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"admin123"}`))
		rr := httptest.NewRecorder()
		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		cookie := sessionCookie(t, rr)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)

		var body struct {
			Authenticated bool  `json:"authenticated"`
			RemainingMs   int64 `json:"remainingMs"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.True(t, body.Authenticated)
		assert.Greater(t, body.RemainingMs, int64(0))
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{`))
		rr := httptest.NewRecorder()
		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	sessions := newTestSessions(t)
	h := handler.NewAuthHandler(sessions, testLogger())

	// Login.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"admin123"}`))
	rr := httptest.NewRecorder()
	h.HandleLogin(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(t, rr)
	require.NotNil(t, cookie)

	// Status with the cookie reports authenticated.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: cookie.Value})
	rr = httptest.NewRecorder()
	h.HandleSessionStatus(rr, req)

	var status struct {
		Authenticated bool  `json:"authenticated"`
		RemainingMs   int64 `json:"remainingMs"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Authenticated)
	assert.Greater(t, status.RemainingMs, int64(0))

	// Logout clears everything.
	req = httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	rr = httptest.NewRecorder()
	h.HandleLogout(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	cleared := sessionCookie(t, rr)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0, "logout must delete the cookie")

	// The old cookie no longer validates.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: cookie.Value})
	rr = httptest.NewRecorder()
	h.HandleSessionStatus(rr, req)

	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.False(t, status.Authenticated)
}

func TestHandleSessionStatusAnonymous(t *testing.T) {
	h := handler.NewAuthHandler(newTestSessions(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	rr := httptest.NewRecorder()
	h.HandleSessionStatus(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var status struct {
		Authenticated bool  `json:"authenticated"`
		RemainingMs   int64 `json:"remainingMs"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.False(t, status.Authenticated)
	assert.Zero(t, status.RemainingMs)
}

func TestHandleChangePassword(t *testing.T) {
	sessions := newTestSessions(t)
	h := handler.NewAuthHandler(sessions, testLogger())

	t.Run("wrong current password", func(t *testing.T) {
		reqBody := `{"currentPassword":"nope","newPassword":"fresh-secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/password", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()
		h.HandleChangePassword(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("empty new password", func(t *testing.T) {
		reqBody := `{"currentPassword":"admin123","newPassword":""}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/password", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()
		h.HandleChangePassword(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("successful rotation", func(t *testing.T) {
		reqBody := `{"currentPassword":"admin123","newPassword":"fresh-secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/password", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()
		h.HandleChangePassword(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		// Old password stops working, new one logs in.
		req = httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"admin123"}`))
		rr = httptest.NewRecorder()
		h.HandleLogin(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		req = httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"fresh-secret"}`))
		rr = httptest.NewRecorder()
		h.HandleLogin(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestRequireAdminMiddleware(t *testing.T) {
	sessions := newTestSessions(t)
	authHandler := handler.NewAuthHandler(sessions, testLogger())

	protected := auth.RequireAdmin(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("forged cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "forged-token"})
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"admin123"}`))
		rr := httptest.NewRecorder()
		authHandler.HandleLogin(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		cookie := sessionCookie(t, rr)
		require.NotNil(t, cookie)

		req = httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: cookie.Value})
		rr = httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
