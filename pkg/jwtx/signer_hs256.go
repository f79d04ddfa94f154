package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret accepted.
const MinSecretLength = 32

var ErrWeakSecret = errors.New("jwtx: HS256 secret shorter than 32 bytes")

// HS256Signer signs with a shared server secret.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 returns a signer for secret.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	// Keep our own copy so the caller can wipe theirs.
	return &HS256Signer{secret: append([]byte(nil), secret...)}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if claims.ID == "" || claims.Subject == "" {
		return "", ErrInvalidClaim
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}
