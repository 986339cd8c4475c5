package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adupont/portfolio/internal/apperror"
	"github.com/adupont/portfolio/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately instead of at
// the first call site that passes *DB around as a KVRepository.
var _ repository.KVRepository = (*DB)(nil)

// Get returns the value stored under key.
//
// sql.ErrNoRows is not really an error here — a key that was never written
// is a normal condition (first boot, logged-out session). We translate it
// to the app's NotFound error so callers can branch on it with errors.Is.
func (db *DB) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE key = ?`,
		key,
	).Scan(&value)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.NotFound("key", key)
		}
		return "", fmt.Errorf("sqlite: getting key %s: %w", key, err)
	}

	return value, nil
}

// Set writes value under key, completely replacing any prior value.
//
// UPSERT: SQLite's ON CONFLICT clause turns the INSERT into an UPDATE when
// the key already exists. One statement, atomic, no read-check-write race.
func (db *DB) Set(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a key that doesn't exist is a no-op, not an
// error — logout must be safe to call twice.
func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM kv_store WHERE key = ?`,
		key,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting key %s: %w", key, err)
	}
	return nil
}
