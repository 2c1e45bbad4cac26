package model

// TokenManager issues and validates bearer tokens bound to a username.
// Tokens are self-contained: validity is decided entirely from the token
// itself, so there is no server-side revocation.
type TokenManager interface {
	Issue(username string) (string, error)
	Validate(token string) bool
	Subject(token string) (string, error)
}
