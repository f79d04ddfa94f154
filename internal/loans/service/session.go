package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/juju/clock"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/cryptox"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"
)

const (
	DefaultMaxFailedAttempts = 5
	DefaultLockoutDuration   = 30 * time.Minute
)

type LoginInput struct {
	Email    string
	Password string
	OTPCode  string // required once MFA is enabled
}

// Authenticated is the result of a signup, login or refresh.
type Authenticated struct {
	User  domain.User
	Token IssuedToken
}

// SessionService signs users in and out.
type SessionService struct {
	Store       store.Store
	Users       *UserService
	Hasher      *cryptox.PasswordHasher
	Tokens      *TokenService
	Revocations *RevocationService
	MFA         *MFAService
	Audit       *AuditService
	Clock       clock.Clock
	Metrics     *Metrics

	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

func (s *SessionService) maxFailed() int {
	if s.MaxFailedAttempts <= 0 {
		return DefaultMaxFailedAttempts
	}
	return s.MaxFailedAttempts
}

func (s *SessionService) lockout() time.Duration {
	if s.LockoutDuration <= 0 {
		return DefaultLockoutDuration
	}
	return s.LockoutDuration
}

// Signup registers a customer and signs them straight in.
func (s *SessionService) Signup(ctx context.Context, in RegisterInput) (Authenticated, error) {
	u, err := s.Users.Register(ctx, in)
	if err != nil {
		return Authenticated{}, err
	}
	if err := s.recordSignIn(ctx, &u, nowFrom(s.Clock)); err != nil {
		return Authenticated{}, err
	}
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return Authenticated{}, err
	}
	s.Audit.Record(ctx, Event{
		Type:     domain.EventLoginSuccess,
		ActorID:  u.ID,
		Metadata: map[string]any{"method": "registration"},
		Success:  true,
	})
	return Authenticated{User: u, Token: tok}, nil
}

// Login checks credentials and, when enabled, the TOTP code.
//
// Failed passwords and TOTP codes count towards a lock. A locked account is refused with a
// *LockedError until LockoutDuration has passed, after which the next
// attempt unlocks it and proceeds.
func (s *SessionService) Login(ctx context.Context, in LoginInput) (Authenticated, error) {
	var v domain.ValidationError
	if strings.TrimSpace(in.Email) == "" {
		v.Add("email", "is required")
	}
	if in.Password == "" {
		v.Add("password", "is required")
	}
	if err := v.Err(); err != nil {
		return Authenticated{}, err
	}

	email := domain.NormalizeEmail(in.Email)
	now := nowFrom(s.Clock)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(ctx, domain.User{}, email, "user_not_found", nil)
		return Authenticated{}, ErrInvalidCredentials
	}
	if err != nil {
		return Authenticated{}, fmt.Errorf("load user: %w", err)
	}

	if u.IsLocked() {
		if !u.LockExpired(now, s.lockout()) {
			s.fail(ctx, u, email, "account_locked", nil)
			return Authenticated{}, &LockedError{Until: u.LockedAt.Add(s.lockout())}
		}
		if err := s.Store.Users().ResetLoginState(ctx, u.ID, now); err != nil {
			return Authenticated{}, fmt.Errorf("unlock user: %w", err)
		}
		u.LockedAt, u.FailedAttempts = nil, 0
		s.Audit.Record(ctx, Event{
			Type:     domain.EventAccountUnlocked,
			ActorID:  u.ID,
			Metadata: map[string]any{"reason": "lockout_expired"},
			Success:  true,
		})
	}

	if err := s.Hasher.Verify(in.Password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return Authenticated{}, fmt.Errorf("verify password: %w", err)
		}
		return Authenticated{}, s.badCredential(ctx, u, email, "invalid_password", ErrInvalidCredentials, now)
	}

	if u.MFAEnabled() {
		if in.OTPCode == "" {
			s.Metrics.observeLogin("mfa_required")
			return Authenticated{}, ErrMFARequired
		}
		if !s.MFA.Verify(ctx, u, in.OTPCode) {
			return Authenticated{}, s.badCredential(ctx, u, email, "invalid_totp_code", ErrInvalidTOTPCode, now)
		}
	}

	if err := s.recordSignIn(ctx, &u, now); err != nil {
		return Authenticated{}, err
	}
	s.upgradeHash(ctx, u, in.Password, now)

	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return Authenticated{}, err
	}
	s.Audit.Record(ctx, Event{
		Type:     domain.EventLoginSuccess,
		ActorID:  u.ID,
		Metadata: map[string]any{"method": "password", "mfa": u.MFAEnabled()},
		Success:  true,
	})
	s.Metrics.observeLogin("success")
	return Authenticated{User: u, Token: tok}, nil
}

// recordSignIn stores a successful sign in from the caller's address and
// mirrors it onto u.
func (s *SessionService) recordSignIn(ctx context.Context, u *domain.User, now time.Time) error {
	ip := ClientInfoFrom(ctx).IP
	if err := s.Store.Users().RecordSignIn(ctx, u.ID, ip, now); err != nil {
		return fmt.Errorf("record sign in: %w", err)
	}
	u.FailedAttempts = 0
	u.SignInCount++
	u.LastSignInAt, u.LastSignInIP = u.CurrentSignInAt, u.CurrentSignInIP
	u.CurrentSignInAt, u.CurrentSignInIP = &now, ip
	return nil
}

// badCredential counts a failed password or second factor against u and
// locks the account once the limit is reached. Below the limit it returns
// failure unchanged.
func (s *SessionService) badCredential(ctx context.Context, u domain.User, email, reason string, failure error, now time.Time) error {
	n, err := s.Store.Users().RecordFailedLogin(ctx, u.ID, now)
	if err != nil {
		return fmt.Errorf("record failed login: %w", err)
	}
	s.fail(ctx, u, email, reason, map[string]any{"failed_attempts": n})

	if n < s.maxFailed() {
		return failure
	}
	if err := s.Store.Users().LockUser(ctx, u.ID, now); err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	s.Audit.Record(ctx, Event{
		Type:     domain.EventAccountLocked,
		ActorID:  u.ID,
		Metadata: map[string]any{"failed_attempts": n},
		Success:  true,
	})
	return &LockedError{Until: now.Add(s.lockout())}
}

func (s *SessionService) fail(ctx context.Context, u domain.User, email, reason string, extra map[string]any) {
	md := map[string]any{"email": email, "reason": reason}
	for k, v := range extra {
		md[k] = v
	}
	s.Audit.Record(ctx, Event{Type: domain.EventLoginFailure, ActorID: u.ID, Metadata: md})
	s.Metrics.observeLogin(reason)
}

// upgradeHash replaces legacy bcrypt hashes after a successful login.
func (s *SessionService) upgradeHash(ctx context.Context, u domain.User, password string, now time.Time) {
	if !s.Hasher.NeedsRehash(u.PasswordHash) {
		return
	}
	hash, err := s.Hasher.Hash(password)
	if err == nil {
		err = s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash, now)
	}
	if err != nil {
		slogx.FromContext(ctx).Warn("password rehash failed", slog.String("user_id", u.ID.String()), slog.Any("error", err))
	}
}

// Logout revokes the session's token.
func (s *SessionService) Logout(ctx context.Context, sess Session) error {
	if err := s.Revocations.Revoke(ctx, sess.JTI(), sess.ExpiresAt()); err != nil {
		return err
	}
	s.Audit.Record(ctx, Event{Type: domain.EventLogout, ActorID: sess.User.ID, Success: true})
	return nil
}

// Refresh issues a new token and revokes the one the session was opened
// with.
func (s *SessionService) Refresh(ctx context.Context, sess Session) (Authenticated, error) {
	tok, err := s.Tokens.Issue(sess.User)
	if err != nil {
		return Authenticated{}, err
	}
	if err := s.Revocations.Revoke(ctx, sess.JTI(), sess.ExpiresAt()); err != nil {
		return Authenticated{}, err
	}
	s.Audit.Record(ctx, Event{
		Type:     domain.EventTokenRefresh,
		ActorID:  sess.User.ID,
		Metadata: map[string]any{"previous_jti": sess.JTI()},
		Success:  true,
	})
	return Authenticated{User: sess.User, Token: tok}, nil
}
