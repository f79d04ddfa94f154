package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/juju/clock"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/policy"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/cryptox"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

type UserService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Audit  *AuditService
	Clock  clock.Clock
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Register creates a customer account. Self-service signup never grants a
// staff role.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	var v domain.ValidationError
	if strings.TrimSpace(in.Email) == "" {
		v.Add("email", "is required")
	}
	v.AddField(domain.ValidatePassword("password", in.Password))
	if strings.TrimSpace(in.FirstName) == "" {
		v.Add("first_name", "is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		v.Add("last_name", "is required")
	}
	if err := v.Err(); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := nowFrom(s.Clock)
	u, err := domain.NewUser(domain.NewUserParams{
		ID:           idx.NewAt(now),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         domain.RoleCustomer,
		Now:          now,
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().CreateUser(ctx, *u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("%w: email has already been taken", ErrConflict)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return *u, nil
}

func (s *UserService) Profile(ctx context.Context, userID idx.ID) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// ProfileInput holds the editable profile fields. Nil leaves a field as is.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID idx.ID, in ProfileInput) (domain.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	var v domain.ValidationError
	if in.FirstName != nil {
		if u.FirstName = strings.TrimSpace(*in.FirstName); u.FirstName == "" {
			v.Add("first_name", "can't be blank")
		}
	}
	if in.LastName != nil {
		if u.LastName = strings.TrimSpace(*in.LastName); u.LastName == "" {
			v.Add("last_name", "can't be blank")
		}
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := v.Err(); err != nil {
		return domain.User{}, err
	}

	u.UpdatedAt = nowFrom(s.Clock)
	if err := s.Store.Users().UpdateProfile(ctx, u.ID, u.FirstName, u.LastName, u.Phone, u.UpdatedAt); err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID idx.ID, current, next string) error {
	var v domain.ValidationError
	if current == "" {
		v.Add("current_password", "is required")
	}
	v.AddField(domain.ValidatePassword("password", next))
	if err := v.Err(); err != nil {
		return err
	}

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Hasher.Verify(current, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			s.Audit.Record(ctx, Event{
				Type:     domain.EventPasswordChange,
				ActorID:  u.ID,
				Metadata: map[string]any{"reason": "invalid_current_password"},
			})
			return ErrInvalidCredentials
		}
		return fmt.Errorf("verify password: %w", err)
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash, nowFrom(s.Clock)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.Audit.Record(ctx, Event{Type: domain.EventPasswordChange, ActorID: u.ID, Success: true})
	return nil
}

// List pages through users, newest first. Only staff may list and role
// narrows the result when set.
func (s *UserService) List(ctx context.Context, actor domain.Principal, role domain.Role, page PageRequest) (Page[domain.User], error) {
	if !actor.Role.IsStaff() {
		return Page[domain.User]{}, &ForbiddenError{
			Action: domain.ActionShow,
			Rule:   policy.RuleRole,
			Reason: "only staff may list users",
			At:     nowFrom(s.Clock),
		}
	}
	page = page.normalize()
	users, total, err := s.Store.Users().ListUsers(ctx, role, page.storePage())
	if err != nil {
		return Page[domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return Page[domain.User]{Items: users, Page: page.Page, PerPage: page.PerPage, Total: total}, nil
}
