// Package auth implements the credential primitives of the server: password
// hashing and stateless bearer tokens. It deliberately knows nothing about
// storage or transport.
package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt. Passwords are
// pre-digested with SHA-256 so that inputs longer than bcrypt's 72-byte
// limit are accepted instead of rejected.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside the
// valid bcrypt range fall back to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash of the password. Two calls with the same
// input produce different hashes.
func (h *Hasher) Hash(password string) (string, error) {
	digest := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(digest[:], h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password produced hash. A malformed hash verifies
// false, never an error. The underlying bcrypt comparison does not short
// circuit on the first differing byte.
func (h *Hasher) Verify(password, hash string) bool {
	digest := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hash), digest[:]) == nil
}
