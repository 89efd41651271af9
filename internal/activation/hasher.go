package activation

import "golang.org/x/crypto/bcrypt"

// Hasher transforms a plain secret into a stored verifier.
type Hasher interface {
	Hash(secret string) ([]byte, error)
}

// BcryptHasher hashes secrets with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a bcrypt hasher. A cost outside bcrypt's valid range
// falls back to the default cost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

// Hash derives a salted bcrypt hash of the secret.
func (h BcryptHasher) Hash(secret string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(secret), h.cost)
}
