package domain_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNextFollowsTheTransitionTable(t *testing.T) {
	legal := map[domain.Status]map[domain.Action]domain.Status{
		domain.StatusDraft:            {domain.ActionSubmit: domain.StatusSubmitted},
		domain.StatusSubmitted:        {domain.ActionReview: domain.StatusUnderReview},
		domain.StatusPendingDocuments: {domain.ActionResubmit: domain.StatusUnderReview},
		domain.StatusApproved:         {domain.ActionSign: domain.StatusPending},
		domain.StatusUnderReview: {
			domain.ActionRequestDocuments: domain.StatusPendingDocuments,
			domain.ActionApprove:          domain.StatusApproved,
			domain.ActionReject:           domain.StatusRejected,
		},
	}

	for _, from := range domain.Statuses {
		for _, action := range domain.Actions {
			to, err := domain.Next(from, action)
			want, ok := legal[from][action]
			if ok {
				require.NoError(t, err, "%s --%s-->", from, action)
				require.Equal(t, want, to)
				continue
			}
			require.ErrorIs(t, err, domain.ErrInvalidTransition, "%s --%s-->", from, action)
			var te *domain.TransitionError
			require.True(t, errors.As(err, &te))
			require.Equal(t, from, te.From)
			require.Equal(t, action, te.Action)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, st := range domain.Statuses {
		if !st.Terminal() {
			continue
		}
		for _, a := range domain.Actions {
			_, err := domain.Next(st, a)
			require.Error(t, err)
		}
	}
}

func TestParseEnums(t *testing.T) {
	for _, r := range domain.Roles {
		got, err := domain.ParseRole(string(r))
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
	_, err := domain.ParseRole("admin")
	require.ErrorIs(t, err, domain.ErrUnknownRole)

	_, err = domain.ParseStatus("funded")
	require.ErrorIs(t, err, domain.ErrUnknownStatus)

	for _, et := range domain.EventTypes {
		got, err := domain.ParseEventType(string(et))
		require.NoError(t, err)
		require.Equal(t, et, got)
	}
	_, err = domain.ParseEventType("login_attempt")
	require.ErrorIs(t, err, domain.ErrUnknownEventType)
	require.Len(t, domain.EventTypes, 16)
}

func TestRoleScopes(t *testing.T) {
	require.Contains(t, domain.RoleCustomer.Scopes(), domain.ScopeProfileWrite)
	require.NotContains(t, domain.RoleCustomer.Scopes(), domain.ScopeUsersRead)
	require.Contains(t, domain.RoleLoanOfficer.Scopes(), domain.ScopeApplicationsReview)
	require.Contains(t, domain.RoleUnderwriter.Scopes(), domain.ScopeApplicationsApprove)
	require.Contains(t, domain.RoleUnderwriter.Scopes(), domain.ScopeApplicationsReject)
	require.Empty(t, domain.Role("admin").Scopes())

	// Callers get a copy.
	s := domain.RoleCustomer.Scopes()
	s[0] = "tampered"
	require.NotEqual(t, "tampered", domain.RoleCustomer.Scopes()[0])

	require.False(t, domain.RoleCustomer.IsStaff())
	require.True(t, domain.RoleLoanOfficer.IsStaff())
	require.True(t, domain.RoleUnderwriter.IsStaff())
}

func TestNewUser(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("normalises email", func(t *testing.T) {
		u, err := domain.NewUser(domain.NewUserParams{
			ID:           idx.New(),
			Email:        "  Alice@Example.COM ",
			PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
			FirstName:    "Alice",
			LastName:     "Smith",
			Role:         domain.RoleCustomer,
			Now:          now,
		})
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", u.Email)
		require.Equal(t, "Alice Smith", u.FullName())
		require.Equal(t, now, u.CreatedAt)
		require.False(t, u.IsLocked())
		require.False(t, u.MFAEnabled())
	})

	t.Run("requires a hashed credential", func(t *testing.T) {
		_, err := domain.NewUser(domain.NewUserParams{
			ID:        idx.New(),
			Email:     "bob@example.com",
			FirstName: "Bob",
			LastName:  "Jones",
			Role:      domain.RoleCustomer,
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, []domain.FieldError{{Field: "password", Message: "is required"}}, ve.Fields)
	})

	t.Run("collects every field error", func(t *testing.T) {
		_, err := domain.NewUser(domain.NewUserParams{ID: idx.New(), Email: "nope", Role: "admin"})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Fields, 5)
	})
}

func TestLockExpired(t *testing.T) {
	locked := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &domain.User{LockedAt: &locked}

	require.False(t, u.LockExpired(locked.Add(29*time.Minute), 30*time.Minute))
	require.True(t, u.LockExpired(locked.Add(30*time.Minute), 30*time.Minute))
	require.False(t, (&domain.User{}).LockExpired(locked, 0))
}

func TestValidatePassword(t *testing.T) {
	require.Nil(t, domain.ValidatePassword("password", "secret"))
	require.NotNil(t, domain.ValidatePassword("password", "12345"))
	require.NotNil(t, domain.ValidatePassword("password", ""))
	require.NotNil(t, domain.ValidatePassword("password", string(make([]byte, 129))))
}

func TestApplicationNumber(t *testing.T) {
	n, err := domain.ApplicationNumber(time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^AL-20250109-[0-9A-F]{6}$`), n)
}

func TestMonthlyPayment(t *testing.T) {
	// 20,000.00 over 60 months at 5.99% is 386.56 a month.
	require.Equal(t, int64(38656), domain.MonthlyPayment(2_000_000, 599, 60))
	require.Equal(t, int64(10000), domain.MonthlyPayment(120_000, 0, 12))
	require.Zero(t, domain.MonthlyPayment(0, 599, 60))
	require.Zero(t, domain.MonthlyPayment(100, 599, 0))
}

func TestIsSigned(t *testing.T) {
	app := domain.NewApplication(idx.New(), idx.New(), "AL-20250101-ABCDEF", time.Now())
	require.Equal(t, domain.StatusDraft, app.Status)
	require.Equal(t, 1, app.CurrentStep)
	require.False(t, app.IsSigned())

	now := time.Now()
	app.SignedAt = &now
	require.False(t, app.IsSigned())
	app.AgreementAccepted = true
	require.True(t, app.IsSigned())
}

func TestCloneDoesNotAlias(t *testing.T) {
	amt := int64(1000)
	app := &domain.Application{LoanAmount: &amt}
	c := app.Clone()
	*c.LoanAmount = 5
	require.Equal(t, int64(1000), *app.LoanAmount)
}

func TestRevocationActive(t *testing.T) {
	exp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := domain.Revocation{JTI: "j", ExpiresAt: exp}
	require.True(t, r.Active(exp.Add(-time.Second)))
	require.False(t, r.Active(exp))
}
