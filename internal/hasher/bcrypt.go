package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vibtellect/user-service/internal/model"
)

// Bcrypt implements Hasher backed by the bcrypt adaptive hash.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher with the provided cost. A cost below
// bcrypt's minimum falls back to the library default.
func NewBcrypt(cost int) model.Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash produces a salted one-way digest of the secret.
func (b *Bcrypt) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the secret matches the digest.
func (b *Bcrypt) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
