package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrCorruptCredential indicates a stored password hash that cannot be
// parsed. It means the credential store holds garbage, not that the
// password was wrong.
var ErrCorruptCredential = errors.New("corrupt credential hash")

// DefaultBcryptCost matches the work factor the original deployment used.
const DefaultBcryptCost = 10

// dummyHash is a structurally valid bcrypt hash that matches no password.
// Login verifies against it when the account doesn't exist so a lookup
// miss costs the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hasher hashes and verifies passwords using bcrypt
type Hasher struct {
	cost int
}

// NewHasher creates a password hasher with the given bcrypt cost.
// Out-of-range costs are clamped to the valid bcrypt range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash creates a salted one-way hash of a plaintext password
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash. A mismatch is
// (false, nil); only an unparseable hash returns an error.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrCorruptCredential, err)
}

// VerifyDummy burns the same bcrypt work as a real verification.
// The result is always false.
func (h *Hasher) VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	return false
}
