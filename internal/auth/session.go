package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/adupont/portfolio/internal/apperror"
	"github.com/adupont/portfolio/internal/repository"
)

// Persistent slot names. Three independent scalars, deliberately separate
// from the aggregate so that resetting the portfolio content never logs the
// admin out or wipes their password.
const (
	passwordHashKey  = "admin_password_hash"
	sessionTokenKey  = "admin_auth_token"
	sessionExpiryKey = "admin_auth_expiry" // unix milliseconds
)

// DefaultSessionDuration matches the original site's 24h session window.
const DefaultSessionDuration = 24 * time.Hour

// defaultAdminPassword seeds the digest slot on first boot when no password
// was configured. Running with it is a known weak point — Initialize logs a
// loud warning until it is changed.
const defaultAdminPassword = "admin123"

// SessionConfig carries the tunables the original hardcoded.
// Zero values fall back to the historical constants.
type SessionConfig struct {
	SessionDuration time.Duration // 0 → DefaultSessionDuration
	DefaultPassword string        // "" → defaultAdminPassword
}

// SessionManager is a state machine over two persisted facts: the password
// digest, and an optional (token, expiry) pair.
//
//	NoPasswordSet → PasswordSet        (Initialize, once)
//	LoggedOut ⇄ LoggedIn(token, expiry) (Login / Logout / lazy expiry)
//
// Each login mints a fresh random token; tokens are never reused across
// logins. Expiry is checked lazily: IsAuthenticated clears a stale session
// as a side effect rather than relying on a background reaper.
type SessionManager struct {
	repo      repository.KVRepository
	passwords *PasswordService
	logger    *slog.Logger
	duration  time.Duration
	defaultPW string
}

// NewSessionManager wires the session manager. The KV repository provides
// the three scalar slots; PasswordService provides the digest primitives.
func NewSessionManager(repo repository.KVRepository, passwords *PasswordService, logger *slog.Logger, cfg SessionConfig) *SessionManager {
	duration := cfg.SessionDuration
	if duration <= 0 {
		duration = DefaultSessionDuration
	}
	defaultPW := cfg.DefaultPassword
	if defaultPW == "" {
		defaultPW = defaultAdminPassword
	}
	return &SessionManager{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
		duration:  duration,
		defaultPW: defaultPW,
	}
}

// generateSessionToken returns 16 random bytes as a 32-char hex string.
// crypto/rand, not math/rand — session tokens must be unguessable.
func generateSessionToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Initialize seeds the password digest slot with the configured default
// password if no digest is persisted yet. Idempotent — safe to call on
// every startup.
func (m *SessionManager) Initialize(ctx context.Context) error {
	_, err := m.repo.Get(ctx, passwordHashKey)
	if err == nil {
		return nil // already set
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("auth: reading password digest: %w", err)
	}

	hash, err := m.passwords.Hash(m.defaultPW)
	if err != nil {
		return err
	}
	if err := m.repo.Set(ctx, passwordHashKey, hash); err != nil {
		return fmt.Errorf("auth: persisting password digest: %w", err)
	}

	m.logger.Warn("admin password initialized to the default — change it before going live")
	return nil
}

// VerifyPassword reports whether candidate matches the persisted digest,
// initializing the digest first if absent. The comparison is always against
// the digest; the raw password is never persisted anywhere.
func (m *SessionManager) VerifyPassword(ctx context.Context, candidate string) (bool, error) {
	hash, err := m.repo.Get(ctx, passwordHashKey)
	if errors.Is(err, apperror.ErrNotFound) {
		if err := m.Initialize(ctx); err != nil {
			return false, err
		}
		hash, err = m.repo.Get(ctx, passwordHashKey)
		if err != nil {
			return false, fmt.Errorf("auth: reading password digest: %w", err)
		}
	} else if err != nil {
		return false, fmt.Errorf("auth: reading password digest: %w", err)
	}

	return m.passwords.Matches(hash, candidate), nil
}

// ChangePassword replaces the digest, but only when the current password
// verifies. On a failed check nothing changes and false is returned —
// the caller cannot distinguish "wrong password" from any other denial,
// which is the point.
func (m *SessionManager) ChangePassword(ctx context.Context, current, newPassword string) (bool, error) {
	ok, err := m.VerifyPassword(ctx, current)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	hash, err := m.passwords.Hash(newPassword)
	if err != nil {
		return false, err
	}
	if err := m.repo.Set(ctx, passwordHashKey, hash); err != nil {
		return false, fmt.Errorf("auth: persisting password digest: %w", err)
	}

	m.logger.Info("admin password changed")
	return true, nil
}

// Login verifies the password and, on success, installs a fresh session:
// a newly minted random token and an expiry of now + session duration.
//
// A failed attempt returns false and touches nothing — in particular it
// does NOT invalidate an existing valid session, so a typo while already
// logged in elsewhere is harmless.
func (m *SessionManager) Login(ctx context.Context, password string) (bool, error) {
	ok, err := m.VerifyPassword(ctx, password)
	if err != nil {
		return false, err
	}
	if !ok {
		m.logger.Info("admin login rejected")
		return false, nil
	}

	token, err := generateSessionToken()
	if err != nil {
		return false, err
	}
	expiry := time.Now().Add(m.duration)

	if err := m.repo.Set(ctx, sessionTokenKey, token); err != nil {
		return false, fmt.Errorf("auth: persisting session token: %w", err)
	}
	if err := m.repo.Set(ctx, sessionExpiryKey, strconv.FormatInt(expiry.UnixMilli(), 10)); err != nil {
		return false, fmt.Errorf("auth: persisting session expiry: %w", err)
	}

	m.logger.Info("admin logged in", slog.Time("expiry", expiry))
	return true, nil
}

// SessionToken returns the current session token, or "" when logged out.
// Used by the login handler to set the cookie after a successful Login.
func (m *SessionManager) SessionToken(ctx context.Context) (string, error) {
	token, _, err := m.session(ctx)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout unconditionally clears the token and expiry slots.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.repo.Delete(ctx, sessionTokenKey); err != nil {
		return fmt.Errorf("auth: clearing session token: %w", err)
	}
	if err := m.repo.Delete(ctx, sessionExpiryKey); err != nil {
		return fmt.Errorf("auth: clearing session expiry: %w", err)
	}
	return nil
}

// session reads the (token, expiry) pair. A missing slot means logged out:
// ("", zero time, nil error).
func (m *SessionManager) session(ctx context.Context) (string, time.Time, error) {
	token, err := m.repo.Get(ctx, sessionTokenKey)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", time.Time{}, nil
	} else if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: reading session token: %w", err)
	}

	raw, err := m.repo.Get(ctx, sessionExpiryKey)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", time.Time{}, nil
	} else if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: reading session expiry: %w", err)
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// An unreadable expiry is an invalid session, not a crash.
		return "", time.Time{}, nil
	}

	return token, time.UnixMilli(millis), nil
}

// IsAuthenticated reports whether a session token exists and its expiry is
// in the future. A session found expired is cleared on the spot (lazy
// expiry) before false is returned.
func (m *SessionManager) IsAuthenticated(ctx context.Context) (bool, error) {
	token, expiry, err := m.session(ctx)
	if err != nil {
		return false, err
	}
	if token == "" || expiry.IsZero() {
		return false, nil
	}
	if time.Now().After(expiry) {
		if err := m.Logout(ctx); err != nil {
			return false, err
		}
		m.logger.Info("admin session expired")
		return false, nil
	}
	return true, nil
}

// Validate reports whether the presented token matches the live session.
// This is what the admin middleware calls: the token must equal the stored
// one (constant-time compare) AND the session must be unexpired.
func (m *SessionManager) Validate(ctx context.Context, presented string) (bool, error) {
	ok, err := m.IsAuthenticated(ctx)
	if err != nil || !ok {
		return false, err
	}

	stored, _, err := m.session(ctx)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1, nil
}

// ExtendSession pushes the expiry out to now + session duration, but only
// while authenticated — it can stretch a live session, never revive a dead
// one. Called on admin activity to avoid mid-edit logouts.
func (m *SessionManager) ExtendSession(ctx context.Context) error {
	ok, err := m.IsAuthenticated(ctx)
	if err != nil || !ok {
		return err
	}

	expiry := time.Now().Add(m.duration)
	if err := m.repo.Set(ctx, sessionExpiryKey, strconv.FormatInt(expiry.UnixMilli(), 10)); err != nil {
		return fmt.Errorf("auth: persisting session expiry: %w", err)
	}
	return nil
}

// SessionTimeRemaining returns expiry − now, floored at zero, and zero when
// not authenticated.
func (m *SessionManager) SessionTimeRemaining(ctx context.Context) (time.Duration, error) {
	ok, err := m.IsAuthenticated(ctx)
	if err != nil || !ok {
		return 0, err
	}

	_, expiry, err := m.session(ctx)
	if err != nil {
		return 0, err
	}
	remaining := time.Until(expiry)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}
