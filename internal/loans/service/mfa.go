package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/juju/clock"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

const DefaultTOTPIssuer = "LoanDesk"

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// MFASetup is a freshly generated, not yet enabled, TOTP secret.
type MFASetup struct {
	Secret  string
	URL     string // otpauth:// URI for authenticator apps
	Issuer  string
	Account string
}

type MFAService struct {
	Store  store.Store
	Audit  *AuditService
	Clock  clock.Clock
	Issuer string
}

func (s *MFAService) issuer() string {
	if s.Issuer == "" {
		return DefaultTOTPIssuer
	}
	return s.Issuer
}

func (s *MFAService) load(ctx context.Context, userID idx.ID) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// Status reports whether a confirmed TOTP factor is active.
func (s *MFAService) Status(ctx context.Context, userID idx.ID) (bool, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.MFAEnabled(), nil
}

// Setup stores a new TOTP secret for the user. MFA stays off until Enable
// confirms a code generated from it.
func (s *MFAService) Setup(ctx context.Context, userID idx.ID) (MFASetup, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return MFASetup{}, err
	}
	if u.MFAEnabled() {
		return MFASetup{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer(),
		AccountName: u.Email,
		Period:      totpOpts.Period,
		Digits:      totpOpts.Digits,
		Algorithm:   totpOpts.Algorithm,
	})
	if err != nil {
		return MFASetup{}, fmt.Errorf("generate TOTP key: %w", err)
	}
	if err := s.Store.Users().UpdateMFASecret(ctx, u.ID, key.Secret(), nowFrom(s.Clock)); err != nil {
		return MFASetup{}, fmt.Errorf("store MFA secret: %w", err)
	}

	s.Audit.Record(ctx, Event{Type: domain.EventMFASetup, ActorID: u.ID, Success: true})
	return MFASetup{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.issuer(),
		Account: u.Email,
	}, nil
}

// Enable confirms the pending secret with code and turns MFA on.
func (s *MFAService) Enable(ctx context.Context, userID idx.ID, code string) error {
	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if u.MFAEnabled() {
		return ErrMFAAlreadyEnabled
	}
	if !s.verify(ctx, u, code) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().EnableMFA(ctx, u.ID, nowFrom(s.Clock)); err != nil {
		return fmt.Errorf("enable MFA: %w", err)
	}
	s.Audit.Record(ctx, Event{Type: domain.EventMFAEnable, ActorID: u.ID, Success: true})
	return nil
}

// Disable turns MFA off and forgets the secret. A current code is required.
func (s *MFAService) Disable(ctx context.Context, userID idx.ID, code string) error {
	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !u.MFAEnabled() {
		return ErrMFANotEnabled
	}
	if !s.verify(ctx, u, code) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().DisableMFA(ctx, u.ID, nowFrom(s.Clock)); err != nil {
		return fmt.Errorf("disable MFA: %w", err)
	}
	s.Audit.Record(ctx, Event{Type: domain.EventMFADisable, ActorID: u.ID, Success: true})
	return nil
}

// Verify checks code against the user's secret and audits the outcome.
func (s *MFAService) Verify(ctx context.Context, u domain.User, code string) bool {
	ok := s.verify(ctx, u, code)
	if ok {
		s.Audit.Record(ctx, Event{Type: domain.EventMFAVerifySuccess, ActorID: u.ID, Success: true})
	}
	return ok
}

// verify records mfa_verify_failure on a bad code.
func (s *MFAService) verify(ctx context.Context, u domain.User, code string) bool {
	ok := false
	if u.MFASecret != nil && code != "" {
		ok, _ = totp.ValidateCustom(code, *u.MFASecret, nowFrom(s.Clock), totpOpts)
	}
	if !ok {
		s.Audit.Record(ctx, Event{Type: domain.EventMFAVerifyFailure, ActorID: u.ID})
	}
	return ok
}
