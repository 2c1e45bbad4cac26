package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vibtellect/user-service/internal/model"
)

// JWT implements TokenManager backed by symmetric HMAC. Tokens carry the
// username as subject and expire after the configured TTL.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key and TTL.
func NewJWT(secretKey string, ttl time.Duration) model.TokenManager {
	return &JWT{secretKey: secretKey, ttl: ttl}
}

// Issue creates a signed token for the given username.
func (j *JWT) Issue(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate reports whether the token has a valid signature and has not
// expired. It never fails: malformed input is simply invalid.
func (j *JWT) Validate(tokenString string) bool {
	token, err := j.parse(tokenString)
	return err == nil && token.Valid
}

// Subject extracts the username claim. The token is parsed and verified in
// the process, so callers do not need a prior Validate call.
func (j *JWT) Subject(tokenString string) (string, error) {
	token, err := j.parse(tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}

	return subject, nil
}

func (j *JWT) parse(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
}
