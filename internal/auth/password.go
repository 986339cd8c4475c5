// Package auth implements the admin password and session machinery.
//
// WHY BCRYPT?
// bcrypt is a password hashing function specifically designed to be slow.
// That slowness is a security feature: it makes brute-force attacks expensive.
//
// bcrypt automatically:
//   - Generates a random salt (two identical passwords hash differently)
//   - Embeds the salt in the output hash (no separate salt slot needed)
//   - Controls the work factor via "cost" (higher = slower = harder to crack)
//
// The original site digested the admin password with a single SHA-256 round
// and compared hex strings. Fast hashes are exactly what GPU crackers eat
// for breakfast, so the server-side rework uses bcrypt instead. The observable
// contract is unchanged: only the digest is ever persisted, never the
// plaintext, and verification yields a plain yes/no.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly ~250ms on a
// modern server — negligible for an admin login, brutal for attackers.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so that the cost can be injected in
// tests — cost 4 (the bcrypt minimum) makes tests run in milliseconds.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// newPasswordServiceWithCost is the unexported test hook for this package.
func newPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// cost for use by tests in other packages. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt. The output is a
// self-contained string (salt and cost included) that goes straight into
// the password digest slot.
//
// Returns an error if the plaintext is over 72 bytes — bcrypt silently
// truncates beyond that, so we reject it explicitly instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Matches reports whether a plaintext password matches a stored bcrypt hash.
//
// bcrypt.CompareHashAndPassword is constant-time internally, so this is
// safe against timing attacks. A malformed stored hash also reports false —
// the caller treats it the same as a wrong password (access denied), and
// the next successful password change repairs the slot.
func (p *PasswordService) Matches(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
