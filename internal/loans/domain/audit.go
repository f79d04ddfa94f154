package domain

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

// EventType is the closed catalogue of security audit events.
type EventType string

const (
	EventLoginSuccess          EventType = "login_success"
	EventLoginFailure          EventType = "login_failure"
	EventLogout                EventType = "logout"
	EventTokenRefresh          EventType = "token_refresh"
	EventMFASetup              EventType = "mfa_setup"
	EventMFAEnable             EventType = "mfa_enable"
	EventMFADisable            EventType = "mfa_disable"
	EventMFAVerifySuccess      EventType = "mfa_verify_success"
	EventMFAVerifyFailure      EventType = "mfa_verify_failure"
	EventPermissionDenied      EventType = "permission_denied"
	EventRateLimitExceeded     EventType = "rate_limit_exceeded"
	EventPasswordChange        EventType = "password_change"
	EventPasswordResetRequest  EventType = "password_reset_request"
	EventPasswordResetComplete EventType = "password_reset_complete"
	EventAccountLocked         EventType = "account_locked"
	EventAccountUnlocked       EventType = "account_unlocked"
)

var EventTypes = []EventType{
	EventLoginSuccess,
	EventLoginFailure,
	EventLogout,
	EventTokenRefresh,
	EventMFASetup,
	EventMFAEnable,
	EventMFADisable,
	EventMFAVerifySuccess,
	EventMFAVerifyFailure,
	EventPermissionDenied,
	EventRateLimitExceeded,
	EventPasswordChange,
	EventPasswordResetRequest,
	EventPasswordResetComplete,
	EventAccountLocked,
	EventAccountUnlocked,
}

func ParseEventType(s string) (EventType, error) {
	et := EventType(s)
	if !et.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
	return et, nil
}

func (e EventType) Valid() bool {
	for _, known := range EventTypes {
		if e == known {
			return true
		}
	}
	return false
}

func (e EventType) String() string { return string(e) }

// AuditEvent is an append-only security log entry. ActorID is zero for
// anonymous events such as a failed login for an unknown email.
type AuditEvent struct {
	ID           idx.ID
	ActorID      idx.ID
	Type         EventType
	IP           string
	UserAgent    string
	ResourceType string
	ResourceID   string
	Metadata     map[string]any
	Success      bool
	CreatedAt    time.Time
}
