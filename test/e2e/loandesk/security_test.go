package loandesk_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

func TestUnauthenticatedRequests(t *testing.T) {
	baseURL := setupContainer(t)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, baseURL+"/v1/profile", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("WWW-Authenticate"), "Bearer"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

// TestForgedTokens checks that tokens with a wrong key, a wrong algorithm or
// a past expiry are refused.
func TestForgedTokens(t *testing.T) {
	client := loansdk.NewClient(setupContainer(t))
	ctx := t.Context()

	session := signupCustomer(t, client, "forged@example.com")
	userID := session.User().ID

	sign := func(method jwt.SigningMethod, key any, exp time.Time) string {
		tok := jwt.NewWithClaims(method, jwt.MapClaims{
			"sub":    userID,
			"iss":    "loandesk",
			"jti":    "forged",
			"iat":    time.Now().Add(-time.Minute).Unix(),
			"exp":    exp.Unix(),
			"scopes": []string{"applications:read", "applications:approve"},
		})
		s, err := tok.SignedString(key)
		require.NoError(t, err)
		return s
	}

	cases := map[string]string{
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("some-other-secret-with-32-bytes-or-more"), time.Now().Add(time.Hour)),
		"expired":      sign(jwt.SigningMethodHS256, []byte(jwtSecret), time.Now().Add(-time.Minute)),
		"alg none":     sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, time.Now().Add(time.Hour)),
		"garbage":      "not.a.token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := client.NewSession(token).Profile(ctx)
			requireStatus(t, err, http.StatusUnauthorized, name)
		})
	}
}

func TestCustomerCannotListUsers(t *testing.T) {
	client := loansdk.NewClient(setupContainer(t))
	client.CheckScopes = false

	session := signupCustomer(t, client, "curious@example.com")

	_, err := session.ListUsers(t.Context(), "", 0, 0)
	requireStatus(t, err, http.StatusForbidden, "customer lists users")
}

func TestErrorsDoNotLeakInternals(t *testing.T) {
	baseURL := setupContainer(t)

	resp, err := http.Post(baseURL+"/v1/auth/signup", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body loansdk.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Malformed JSON body", body.Status.Message)
}
