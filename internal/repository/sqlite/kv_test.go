package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/adupont/portfolio/internal/apperror"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only during the test —
// fast, isolated, and destroyed when the connection closes.
//
// newTestDB is a test helper. The t.Helper() call tells the test framework
// to report failures at the CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGet_MissingKeyReturnsNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), "never_written")
	if err == nil {
		t.Fatal("Get() on a missing key should return an error")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSetThenGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "portfolio_data_v2", `{"profile":{}}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := db.Get(ctx, "portfolio_data_v2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != `{"profile":{}}` {
		t.Errorf("Get() = %q, want %q", got, `{"profile":{}}`)
	}
}

func TestSet_OverwritesPriorValue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "admin_auth_token", "aaaa"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Set(ctx, "admin_auth_token", "bbbb"); err != nil {
		t.Fatalf("Set() second write error = %v", err)
	}

	got, err := db.Get(ctx, "admin_auth_token")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "bbbb" {
		t.Errorf("Get() = %q, want the overwritten value %q", got, "bbbb")
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "admin_auth_expiry", "12345"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Delete(ctx, "admin_auth_expiry"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Get(ctx, "admin_auth_expiry")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
}

func TestDelete_MissingKeyIsNoOp(t *testing.T) {
	db := newTestDB(t)

	// Logout clears the session keys unconditionally, so deleting a key
	// that was never written must not error.
	if err := db.Delete(context.Background(), "admin_auth_token"); err != nil {
		t.Errorf("Delete() on a missing key error = %v, want nil", err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "admin_auth_token", "tok"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Set(ctx, "admin_password_hash", "$2a$12$hash"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Delete(ctx, "admin_auth_token"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := db.Get(ctx, "admin_password_hash")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "$2a$12$hash" {
		t.Errorf("deleting one key disturbed another: got %q", got)
	}
}
