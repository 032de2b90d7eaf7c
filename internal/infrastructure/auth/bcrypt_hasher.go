// Package auth provides the approval secret hashing primitive.
package auth

import (
	"errors"
	"fmt"

	"github.com/labcore/backend/internal/domain/security"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured
const DefaultBcryptCost = bcrypt.DefaultCost

// ErrSecretMismatch is returned by Compare when the secret does not match
var ErrSecretMismatch = errors.New("secret does not match hash")

// BcryptHasher hashes approval secrets with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher; out-of-range costs fall back to the default
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the work factor used for new hashes
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of secret
func (h *BcryptHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

// Compare returns nil when secret matches hash
func (h *BcryptHasher) Compare(hash, secret string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrSecretMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to compare secret: %w", err)
	}
	return nil
}

var _ security.SecretHasher = (*BcryptHasher)(nil)
