package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/aussiebroadwan/loandesk/pkg/jwtx"
)

// IssuedToken is a signed bearer token and the identifiers needed to revoke
// it later.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// TokenService signs session tokens. It persists nothing.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
	Clock  clock.Clock
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.TTL
}

// Issue signs a token for u carrying its role and the role's scopes.
func (s *TokenService) Issue(u domain.User) (IssuedToken, error) {
	now := nowFrom(s.Clock)
	jti := uuid.NewString()
	claims := jwtx.NewSessionClaims(
		u.ID.String(), jti, string(u.Role), u.Email,
		u.Role.Scopes(), s.Issuer, now, s.ttl(),
	)
	tok, err := s.Signer.Sign(claims)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{Token: tok, JTI: jti, ExpiresAt: claims.ExpiresAtTime()}, nil
}

// RevocationService keeps the jti denylist.
type RevocationService struct {
	Store store.Store
	Clock clock.Clock
}

// Revoke denies jti until expiresAt. Revoking twice is harmless.
func (s *RevocationService) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return ErrInvalidToken
	}
	err := s.Store.Revocations().Revoke(ctx, domain.Revocation{
		JTI:       jti,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: nowFrom(s.Clock),
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RevocationService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.Store.Revocations().IsRevoked(ctx, jti, nowFrom(s.Clock))
}

// Purge drops entries whose tokens would have expired anyway.
func (s *RevocationService) Purge(ctx context.Context) (int64, error) {
	return s.Store.Revocations().DeleteExpired(ctx, nowFrom(s.Clock))
}

// Session is an authenticated request's principal and its token claims.
type Session struct {
	User   domain.User
	Claims jwtx.Claims
}

func (s Session) Principal() domain.Principal { return s.User.Principal() }

func (s Session) JTI() string { return s.Claims.ID }

func (s Session) ExpiresAt() time.Time { return s.Claims.ExpiresAtTime() }

// Authenticator turns a bearer token into a Session.
type Authenticator struct {
	Verifier    jwtx.Verifier
	Revocations *RevocationService
	Store       store.Store
}

// Authenticate checks raw in a fixed order and stops at the first failure:
// structure and signature, expiry, revocation, then the principal lookup.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (Session, error) {
	if raw == "" {
		return Session{}, ErrInvalidToken
	}

	claims, err := a.Verifier.Verify(raw)
	switch {
	case err == nil:
	case errors.Is(err, jwtx.ErrExpired):
		return Session{}, ErrTokenExpired
	default:
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	revoked, err := a.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Session{}, ErrTokenRevoked
	}

	id, err := idx.Parse(claims.Subject)
	if err != nil {
		return Session{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	u, err := a.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrPrincipalNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load principal: %w", err)
	}

	return Session{User: u, Claims: claims}, nil
}

// AuthenticateOptional is Authenticate for endpoints that also serve
// anonymous callers. Any failure yields ok=false.
func (a *Authenticator) AuthenticateOptional(ctx context.Context, raw string) (Session, bool) {
	if raw == "" {
		return Session{}, false
	}
	sess, err := a.Authenticate(ctx, raw)
	if err != nil {
		return Session{}, false
	}
	return sess, true
}
