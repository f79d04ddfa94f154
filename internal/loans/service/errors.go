package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/policy"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenRevoked      = errors.New("token revoked")
	ErrPrincipalNotFound = errors.New("token subject no longer exists")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account locked")
	ErrMFARequired        = errors.New("TOTP code required")
	ErrInvalidTOTPCode    = errors.New("invalid TOTP code")
	ErrMFANotEnrolled     = errors.New("MFA not enrolled, call setup first")
	ErrMFANotEnabled      = errors.New("MFA not enabled for this user")
	ErrMFAAlreadyEnabled  = errors.New("MFA already enabled for this user")

	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
)

// ForbiddenError is a policy deny. It matches ErrForbidden.
type ForbiddenError struct {
	Action domain.Action
	Rule   policy.Rule
	Reason string
	At     time.Time
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s denied (%s): %s", e.Action, e.Rule, e.Reason)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// LockedError is returned while an account is locked. It matches
// ErrAccountLocked.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return "account locked until " + e.Until.Format(time.RFC3339)
}

func (e *LockedError) Is(target error) bool { return target == ErrAccountLocked }
