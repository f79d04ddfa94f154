package jwtx

import (
	"errors"
	"time"
)

// Verifier parses a compact JWS, checks its signature and registered claims
// and returns the claims.
//
// Signature and structure failures are reported before time based ones, so
// callers can tell a forged token (ErrMalformed, ErrInvalidSig) from one that
// simply ran out (ErrExpired).
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must carry. Empty means any.
	Issuer string

	// Leeway tolerated on exp and nbf.
	Leeway time.Duration

	// Now is the time source; nil means time.Now.
	Now func() time.Time
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
