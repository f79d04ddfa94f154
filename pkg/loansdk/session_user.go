package loansdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Profile returns the signed in user.
// Requires: profile:read
func (s *Session) Profile(ctx context.Context) (*User, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodGet, "/v1/profile", nil, http.StatusOK, &out, "profile:read"); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateProfile changes the name or phone number.
// Requires: profile:write
func (s *Session) UpdateProfile(ctx context.Context, req ProfileRequest) (*User, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodPatch, "/v1/profile", req, http.StatusOK, &out, "profile:write"); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Activity lists the newest audit events about the signed in user.
// Requires: profile:read
func (s *Session) Activity(ctx context.Context, page, limit int) ([]ActivityEvent, error) {
	path := "/v1/profile/activity" + pageQuery(page, limit)
	var out ActivityResponse
	if err := s.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out, "profile:read"); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ChangePassword replaces the password. Existing tokens stay valid.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	req := ChangePasswordRequest{CurrentPassword: current, Password: next}
	return s.do(ctx, http.MethodPut, "/v1/auth/password", req, http.StatusOK, nil)
}

// ListUsers pages through accounts, newest first. role may be empty.
// Requires: users:read
func (s *Session) ListUsers(ctx context.Context, role string, page, limit int) (*UserListResponse, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	setPage(q, page, limit)
	path := "/v1/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out UserListResponse
	if err := s.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out, "users:read"); err != nil {
		return nil, err
	}
	return &out, nil
}

func setPage(q url.Values, page, limit int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
}

func pageQuery(page, limit int) string {
	q := url.Values{}
	setPage(q, page, limit)
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
