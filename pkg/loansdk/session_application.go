package loansdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	scopeAppRead    = "applications:read"
	scopeAppWrite   = "applications:write"
	scopeAppApprove = "applications:approve"
	scopeAppReject  = "applications:reject"
)

func appPath(id string, suffix ...string) string {
	p := "/v1/applications/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// CreateApplication starts a draft.
// Requires: applications:write
func (s *Session) CreateApplication(ctx context.Context, req ApplicationRequest) (*Application, error) {
	return s.application(ctx, http.MethodPost, "/v1/applications", req, http.StatusCreated, scopeAppWrite)
}

// Requires: applications:read
func (s *Session) GetApplication(ctx context.Context, id string) (*Application, error) {
	return s.application(ctx, http.MethodGet, appPath(id), nil, http.StatusOK, scopeAppRead)
}

// ListApplications returns the caller's applications, or all of them for
// staff.
// Requires: applications:read
func (s *Session) ListApplications(ctx context.Context, opts ListApplicationsOptions) (*ApplicationListResponse, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/v1/applications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out ApplicationListResponse
	if err := s.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out, scopeAppRead); err != nil {
		return nil, err
	}
	return &out, nil
}

// Requires: applications:write
func (s *Session) UpdateApplication(ctx context.Context, id string, req ApplicationRequest) (*Application, error) {
	return s.application(ctx, http.MethodPatch, appPath(id), req, http.StatusOK, scopeAppWrite)
}

// DeleteApplication removes a draft.
// Requires: applications:write
func (s *Session) DeleteApplication(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, appPath(id), nil, http.StatusOK, nil, scopeAppWrite)
}

// Requires: applications:read
func (s *Session) History(ctx context.Context, id string) ([]HistoryEntry, error) {
	var out HistoryResponse
	if err := s.do(ctx, http.MethodGet, appPath(id, "history"), nil, http.StatusOK, &out, scopeAppRead); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Notes lists the notes visible to the caller.
// Requires: applications:read
func (s *Session) Notes(ctx context.Context, id string) ([]Note, error) {
	var out NoteListResponse
	if err := s.do(ctx, http.MethodGet, appPath(id, "notes"), nil, http.StatusOK, &out, scopeAppRead); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AddNote attaches a note. Only staff may add notes.
// Requires: applications:read
func (s *Session) AddNote(ctx context.Context, id string, req NoteRequest) (*Note, error) {
	var out NoteResponse
	if err := s.do(ctx, http.MethodPost, appPath(id, "notes"), req, http.StatusCreated, &out, scopeAppRead); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Submit hands a draft in for review.
func (s *Session) Submit(ctx context.Context, id string) (*Application, error) {
	return s.application(ctx, http.MethodPost, appPath(id, "submit"), nil, http.StatusOK, scopeAppWrite)
}

// Review starts the review of a submitted application. Either staff role
// may review, so the scope is left to the server.
func (s *Session) Review(ctx context.Context, id string) (*Application, error) {
	return s.application(ctx, http.MethodPost, appPath(id, "review"), nil, http.StatusOK, "")
}

func (s *Session) RequestDocuments(ctx context.Context, id string, req RequestDocumentsRequest) (*Application, error) {
	return s.application(ctx, http.MethodPost, appPath(id, "request-documents"), req, http.StatusOK, "")
}

// Resubmit returns an application with its documents to review.
func (s *Session) Resubmit(ctx context.Context, id string, req ResubmitRequest) (*Application, error) {
	return s.application(ctx, http.MethodPost, appPath(id, "resubmit"), req, http.StatusOK, scopeAppWrite)
}

func (s *Session) Approve(ctx context.Context, id string, req ApproveRequest) (*Application, error) {
	return s.application(ctx, http.MethodPost, appPath(id, "approve"), req, http.StatusOK, scopeAppApprove)
}

func (s *Session) Reject(ctx context.Context, id string, req RejectRequest) (*Application, error) {
	return s.application(ctx, http.MethodPost, appPath(id, "reject"), req, http.StatusOK, scopeAppReject)
}

// Sign accepts the agreement of an approved application.
func (s *Session) Sign(ctx context.Context, id string, req SignRequest) (*Application, error) {
	return s.application(ctx, http.MethodPost, appPath(id, "sign"), req, http.StatusOK, scopeAppWrite)
}

func (s *Session) application(ctx context.Context, method, path string, body any, want int, scope string) (*Application, error) {
	var scopes []string
	if scope != "" {
		scopes = append(scopes, scope)
	}
	var out ApplicationResponse
	if err := s.do(ctx, method, path, body, want, &out, scopes...); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
