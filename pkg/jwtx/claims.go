package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session token stays valid after issuance.
const DefaultSessionTTL = time.Hour

// Claims are the session token claims. The role and scopes are copied in at
// issuance so downstream checks do not need a second lookup.
type Claims struct {
	jwt.RegisteredClaims

	// Role name, e.g. "customer".
	Role string `json:"role"`

	// Scopes derived from the role, e.g. "applications:read".
	Scopes []string `json:"scopes,omitempty"`

	Email string `json:"email,omitempty"`
}

// NewSessionClaims builds claims for subject. jti must be unique per token
// because revocation is keyed on it.
func NewSessionClaims(
	subject, jti, role, email string,
	scopes []string,
	issuer string,
	now time.Time,
	ttl time.Duration,
) Claims {
	now = now.UTC()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		Role:   role,
		Scopes: scopes,
		Email:  email,
	}
}

// ExpiresAtTime returns exp, or the zero time when the claim is absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// HasScope reports whether scope was granted.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ValidateIssuer checks iss when expected is non-empty.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks exp and nbf against now, allowing leeway for skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
