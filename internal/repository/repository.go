package repository

import "context"

// KVRepository is the persistent slot abstraction backing the store and the
// auth session manager. Each named key holds one serialized value:
//
//	portfolio_data_v2   → the whole aggregate as JSON
//	admin_password_hash → bcrypt digest of the admin password
//	admin_auth_token    → current session token (absent when logged out)
//	admin_auth_expiry   → session expiry as unix milliseconds
//
// Get returns apperror.ErrNotFound (wrapped) when the key has never been
// written or has been deleted. Set fully replaces any prior value.
// Delete on a missing key is a no-op.
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
