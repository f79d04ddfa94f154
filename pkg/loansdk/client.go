package loansdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to a loandesk server. Unauthenticated calls live here;
// everything else goes through a Session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// CheckScopes makes sessions refuse calls their token has no scope for
	// without contacting the server. Default: true.
	CheckScopes bool
}

// NewClient returns a client for baseURL with scope checking enabled.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		CheckScopes: true,
	}
}

// Signup registers a customer account and returns a session for it.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	return c.authenticate(ctx, "/v1/auth/signup", req, http.StatusCreated)
}

// Login signs in with email and password, plus a TOTP code when the account
// has MFA enabled.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	return c.authenticate(ctx, "/v1/auth/login", req, http.StatusOK)
}

// NewSession wraps an existing bearer token.
func (c *Client) NewSession(token string) *Session {
	return newSession(c, token, nil)
}

func (c *Client) authenticate(ctx context.Context, path string, body any, want int) (*Session, error) {
	r, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, path, r, jsonHeaders, "")
	if err != nil {
		return nil, err
	}
	token := bearerFromHeader(resp.Header.Get("Authorization"))

	var out UserResponse
	if err := decodeJSON(resp, &out, want); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: CodeUnauthorized, Message: "no token in Authorization header"}
	}
	return newSession(c, token, &out.Data), nil
}

func bearerFromHeader(v string) string {
	scheme, token, ok := strings.Cut(v, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
