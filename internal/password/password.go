// Package password provides password hashing and verification.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher defines the interface for password hashing algorithms.
type Hasher interface {
	// Hash creates a salted hash from a password.
	Hash(password string) (string, error)

	// Verify checks if a password matches a hash. The comparison is
	// constant-time; a mismatch is reported as (false, nil), not an error.
	Verify(password, hash string) (bool, error)
}

// BcryptCost is the fixed bcrypt work factor used for stored credentials.
const BcryptCost = 10

// BcryptHasher implements the Hasher interface using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new bcrypt hasher. A cost of 0 selects
// BcryptCost; out-of-range values are clamped.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = BcryptCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash creates a bcrypt hash from a password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks if a password matches a bcrypt hash.
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ensure BcryptHasher implements Hasher.
var _ Hasher = (*BcryptHasher)(nil)
