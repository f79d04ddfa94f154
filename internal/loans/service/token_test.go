package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/internal/loans/store/storetest"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/aussiebroadwan/loandesk/pkg/jwtx"
)

func TestIssueThenAuthenticate(t *testing.T) {
	e := newEnv(t)
	u := storetest.NewUser(t, e.store, "officer@example.com", domain.RoleLoanOfficer)

	tok, err := e.tokens.Issue(u)
	require.NoError(t, err)
	require.NotEmpty(t, tok.JTI)
	require.True(t, tok.ExpiresAt.Equal(e.clock.Now().Add(jwtx.DefaultSessionTTL)))

	sess, err := e.authn.Authenticate(t.Context(), tok.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, sess.User.ID)
	require.Equal(t, u.ID.String(), sess.Claims.Subject)
	require.Equal(t, string(domain.RoleLoanOfficer), sess.Claims.Role)
	require.True(t, sess.Claims.HasScope(domain.ScopeApplicationsReview))
	require.Equal(t, tok.JTI, sess.JTI())
}

func TestIssueGivesDistinctJTIs(t *testing.T) {
	e := newEnv(t)
	u := storetest.NewUser(t, e.store, "jti@example.com", domain.RoleCustomer)
	a, err := e.tokens.Issue(u)
	require.NoError(t, err)
	b, err := e.tokens.Issue(u)
	require.NoError(t, err)
	require.NotEqual(t, a.JTI, b.JTI)
}

func TestAuthenticateFailures(t *testing.T) {
	e := newEnv(t)
	u := storetest.NewUser(t, e.store, "fail@example.com", domain.RoleCustomer)

	t.Run("empty", func(t *testing.T) {
		_, err := e.authn.Authenticate(t.Context(), "")
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := e.authn.Authenticate(t.Context(), "not.a.jwt")
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		ts := &service.TokenService{Signer: other, Issuer: "loandesk-test", Clock: e.clock}
		tok, err := ts.Issue(u)
		require.NoError(t, err)
		_, err = e.authn.Authenticate(t.Context(), tok.Token)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("unknown principal", func(t *testing.T) {
		ghost := u
		ghost.ID = idx.New()
		tok, err := e.tokens.Issue(ghost)
		require.NoError(t, err)
		_, err = e.authn.Authenticate(t.Context(), tok.Token)
		require.ErrorIs(t, err, service.ErrPrincipalNotFound)
	})

	t.Run("expired is reported before revoked", func(t *testing.T) {
		tok, err := e.tokens.Issue(u)
		require.NoError(t, err)
		require.NoError(t, e.revoke.Revoke(t.Context(), tok.JTI, tok.ExpiresAt))
		e.clock.Advance(jwtx.DefaultSessionTTL + time.Second)
		_, err = e.authn.Authenticate(t.Context(), tok.Token)
		require.ErrorIs(t, err, service.ErrTokenExpired)
	})
}

func TestRevokedTokenStaysRejected(t *testing.T) {
	e := newEnv(t)
	u := storetest.NewUser(t, e.store, "revoked@example.com", domain.RoleCustomer)
	tok, err := e.tokens.Issue(u)
	require.NoError(t, err)

	_, err = e.authn.Authenticate(t.Context(), tok.Token)
	require.NoError(t, err)

	require.NoError(t, e.revoke.Revoke(t.Context(), tok.JTI, tok.ExpiresAt))
	require.NoError(t, e.revoke.Revoke(t.Context(), tok.JTI, tok.ExpiresAt))

	for range 3 {
		_, err = e.authn.Authenticate(t.Context(), tok.Token)
		require.ErrorIs(t, err, service.ErrTokenRevoked)
		e.clock.Advance(10 * time.Minute)
	}

	_, ok := e.authn.AuthenticateOptional(t.Context(), tok.Token)
	require.False(t, ok)
}

func TestRevocationPurge(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	now := e.clock.Now()

	require.NoError(t, e.revoke.Revoke(ctx, "short", now.Add(time.Minute)))
	require.NoError(t, e.revoke.Revoke(ctx, "long", now.Add(time.Hour)))
	require.ErrorIs(t, e.revoke.Revoke(ctx, "", now), service.ErrInvalidToken)

	e.clock.Advance(2 * time.Minute)
	n, err := e.revoke.Purge(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	revoked, err := e.revoke.IsRevoked(ctx, "long")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestAuthenticateOptional(t *testing.T) {
	e := newEnv(t)
	u := storetest.NewUser(t, e.store, "opt@example.com", domain.RoleCustomer)

	_, ok := e.authn.AuthenticateOptional(t.Context(), "")
	require.False(t, ok)
	_, ok = e.authn.AuthenticateOptional(t.Context(), "junk")
	require.False(t, ok)

	tok, err := e.tokens.Issue(u)
	require.NoError(t, err)
	sess, ok := e.authn.AuthenticateOptional(t.Context(), tok.Token)
	require.True(t, ok)
	require.Equal(t, u.Email, sess.User.Email)
}
