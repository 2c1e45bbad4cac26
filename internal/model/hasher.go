package model

// Hasher performs one-way credential hashing and verification.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}
