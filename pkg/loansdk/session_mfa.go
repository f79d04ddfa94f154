package loansdk

import (
	"context"
	"net/http"
)

// MFAStatus reports whether TOTP is enabled for the signed in user.
func (s *Session) MFAStatus(ctx context.Context) (bool, error) {
	var out MFAStatusResponse
	if err := s.do(ctx, http.MethodGet, "/v1/mfa/totp", nil, http.StatusOK, &out); err != nil {
		return false, err
	}
	return out.Data.Enabled, nil
}

// SetupMFA generates a TOTP secret. MFA stays off until EnableMFA confirms a
// code from it.
func (s *Session) SetupMFA(ctx context.Context) (*MFASetup, error) {
	var out MFASetupResponse
	if err := s.do(ctx, http.MethodPost, "/v1/mfa/totp/setup", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (s *Session) EnableMFA(ctx context.Context, code string) error {
	return s.do(ctx, http.MethodPost, "/v1/mfa/totp/enable", MFACodeRequest{Code: code}, http.StatusOK, nil)
}

func (s *Session) DisableMFA(ctx context.Context, code string) error {
	return s.do(ctx, http.MethodDelete, "/v1/mfa/totp", MFACodeRequest{Code: code}, http.StatusOK, nil)
}
