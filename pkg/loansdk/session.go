package loansdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/loandesk/pkg/jwtx"
)

// refreshBefore is how close to expiry a session refreshes its token ahead
// of the next call.
const refreshBefore = 30 * time.Second

// Session is an authenticated caller. It is safe for concurrent use.
type Session struct {
	client *Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	scopes    map[string]bool
	user      *User
}

func newSession(c *Client, token string, user *User) *Session {
	s := &Session{client: c, user: user}
	s.setToken(token)
	return s
}

// setToken stores token and reads exp and scopes from it. The signature is
// not checked here; the server does that on every call.
func (s *Session) setToken(token string) {
	var claims jwtx.Claims
	_, _, _ = jwt.NewParser().ParseUnverified(token, &claims)

	scopes := make(map[string]bool, len(claims.Scopes))
	for _, sc := range claims.Scopes {
		scopes[sc] = true
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = claims.ExpiresAtTime()
	s.scopes = scopes
	s.mu.Unlock()
}

// Token returns the current bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the account returned at signup or login, or nil for a
// session built from a bare token.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) HasScope(scope string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scopes[scope]
}

func (s *Session) checkScopes(required ...string) error {
	if !s.client.CheckScopes {
		return nil
	}
	for _, sc := range required {
		if !s.HasScope(sc) {
			return fmt.Errorf("%w: %s", ErrMissingScope, sc)
		}
	}
	return nil
}

// getValidToken refreshes the token when it is about to expire.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, exp := s.token, s.expiresAt
	s.mu.RUnlock()

	if exp.IsZero() || time.Until(exp) > refreshBefore || time.Now().After(exp) {
		return token, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return "", err
	}
	return s.Token(), nil
}

// Refresh swaps the token for a new one. The old token is revoked by the
// server.
func (s *Session) Refresh(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/v1/auth/refresh", nil, nil, s.Token())
	if err != nil {
		return err
	}
	token := bearerFromHeader(resp.Header.Get("Authorization"))

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return err
	}
	s.setToken(token)
	s.mu.Lock()
	s.user = &out.Data
	s.mu.Unlock()
	return nil
}

// Logout revokes the session's token. The session is unusable afterwards.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodDelete, "/v1/auth/logout", nil, http.StatusOK, nil)
}

// do sends an authenticated JSON request and decodes the response into out.
func (s *Session) do(
	ctx context.Context,
	method, path string,
	body any,
	want int,
	out any,
	requiredScopes ...string,
) error {
	if err := s.checkScopes(requiredScopes...); err != nil {
		return err
	}
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}
	r, err := jsonBody(body)
	if err != nil {
		return err
	}
	var headers map[string]string
	if body != nil {
		headers = jsonHeaders
	}
	resp, err := s.client.doRequest(ctx, method, path, r, headers, token)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, want)
}
