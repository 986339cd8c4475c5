package handler_test

// Shared fixtures for handler tests. Handlers are exercised the same way
// the router drives them: httptest requests in, recorded responses out,
// with a real store backed by in-memory SQLite underneath. Only the outer
// network edges (email relay, save sink) are absent.

import (
	"io"
	"log/slog"
	"testing"

	"github.com/adupont/portfolio/internal/auth"
	"github.com/adupont/portfolio/internal/repository/sqlite"
	"github.com/adupont/portfolio/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.New(db, nil, testLogger())
}

// profileNameUpdate builds a partial profile update touching only the name.
func profileNameUpdate(name string) store.ProfileUpdate {
	return store.ProfileUpdate{Name: &name}
}

// newTestSessions wires a session manager with a fast bcrypt cost and the
// default admin password against a fresh in-memory database.
func newTestSessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return auth.NewSessionManager(db, auth.NewPasswordServiceForTest(4), testLogger(), auth.SessionConfig{})
}
