package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/loandesk/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newPair(t *testing.T, now func() time.Time) (*jwtx.HS256Signer, *jwtx.HS256Verifier) {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{Issuer: "loandesk", Now: now})
	require.NoError(t, err)

	return signer, verifier
}

func TestHS256RoundTrip(t *testing.T) {
	now := time.Now().UTC()
	signer, verifier := newPair(t, func() time.Time { return now })

	claims := jwtx.NewSessionClaims("user-7", "jti-7", "customer", "seven@example.com",
		[]string{"applications:read"}, "loandesk", now, time.Hour)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-7", got.Subject)
	require.Equal(t, "jti-7", got.ID)
	require.Equal(t, "customer", got.Role)
	require.Equal(t, []string{"applications:read"}, got.Scopes)
}

func TestHS256RejectsWeakSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewVerifierHS256([]byte("short"), jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256SignRequiresIdentity(t *testing.T) {
	signer, _ := newPair(t, nil)

	_, err := signer.Sign(jwtx.Claims{})
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestHS256VerifyFailures(t *testing.T) {
	now := time.Now().UTC()
	signer, verifier := newPair(t, func() time.Time { return now })

	valid, err := signer.Sign(jwtx.NewSessionClaims("u", "j", "customer", "", nil, "loandesk", now, time.Hour))
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("tampered signature", func(t *testing.T) {
		parts := strings.Split(valid, ".")
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		_, err := verifier.Verify(parts[0] + "." + parts[1] + "." + string(sig))
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		tok, err := other.Sign(jwtx.NewSessionClaims("u", "j", "customer", "", nil, "loandesk", now, time.Hour))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS384,
			jwtx.NewSessionClaims("u", "j", "customer", "", nil, "loandesk", now, time.Hour)).
			SignedString(testSecret)
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewSessionClaims("u", "j", "customer", "", nil, "elsewhere", now, time.Hour))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewSessionClaims("u", "j", "customer", "", nil, "loandesk",
			now.Add(-2*time.Hour), time.Hour))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("expired and forged reports signature", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		tok, err := other.Sign(jwtx.NewSessionClaims("u", "j", "customer", "", nil, "loandesk",
			now.Add(-2*time.Hour), time.Hour))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})
}
