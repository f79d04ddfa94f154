// Package storetest is a conformance suite run against every store driver.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Base is the fixed instant fixtures are created at.
var Base = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

// Run exercises s. s must be migrated and empty.
func Run(t *testing.T, s store.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, s) })
	t.Run("Applications", func(t *testing.T) { testApplications(t, s) })
	t.Run("ConditionalTransition", func(t *testing.T) { testConditionalTransition(t, s) })
	t.Run("HistoryAndNotes", func(t *testing.T) { testHistoryAndNotes(t, s) })
	t.Run("Revocations", func(t *testing.T) { testRevocations(t, s) })
	t.Run("AuditEvents", func(t *testing.T) { testAuditEvents(t, s) })
	t.Run("TxRollback", func(t *testing.T) { testTxRollback(t, s) })
}

// NewUser inserts a user with the given role and returns it.
func NewUser(t *testing.T, s store.Store, email string, role domain.Role) domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.NewUserParams{
		ID:           idx.New(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		Now:          Base,
	})
	require.NoError(t, err)
	require.NoError(t, s.Users().CreateUser(t.Context(), *u))
	return *u
}

// NewApplication inserts a draft owned by owner and returns it.
func NewApplication(t *testing.T, s store.Store, owner idx.ID) domain.Application {
	t.Helper()
	num, err := domain.ApplicationNumber(Base)
	require.NoError(t, err)
	a := domain.NewApplication(idx.New(), owner, num, Base)
	require.NoError(t, s.Applications().CreateApplication(t.Context(), *a))
	return *a
}

func testUsers(t *testing.T, s store.Store) {
	ctx := t.Context()
	u := NewUser(t, s, "users@example.com", domain.RoleCustomer)

	dup := u
	dup.ID = idx.New()
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Users().GetUserByEmail(ctx, "users@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, domain.RoleCustomer, got.Role)
	require.True(t, got.CreatedAt.Equal(Base))

	_, err = s.Users().GetUserByID(ctx, idx.New())
	require.ErrorIs(t, err, store.ErrNotFound)

	later := Base.Add(time.Minute)
	require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, "Ada", "Lovelace", "555-0100", later))
	require.ErrorIs(t, s.Users().UpdateProfile(ctx, idx.New(), "a", "b", "", later), store.ErrNotFound)

	n, err := s.Users().RecordFailedLogin(ctx, u.ID, later)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	n, err = s.Users().RecordFailedLogin(ctx, u.ID, later)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, s.Users().LockUser(ctx, u.ID, later))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada", got.FirstName)
	require.Equal(t, "555-0100", got.Phone)
	require.Equal(t, 2, got.FailedAttempts)
	require.NotNil(t, got.LockedAt)
	require.True(t, got.LockedAt.Equal(later))

	require.NoError(t, s.Users().ResetLoginState(ctx, u.ID, later))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, got.FailedAttempts)
	require.Nil(t, got.LockedAt)

	require.ErrorIs(t, s.Users().EnableMFA(ctx, u.ID, later), store.ErrNotFound, "enable needs a secret")
	require.NoError(t, s.Users().UpdateMFASecret(ctx, u.ID, "JBSWY3DPEHPK3PXP", later))
	require.NoError(t, s.Users().EnableMFA(ctx, u.ID, later))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.MFAEnabled())
	require.NoError(t, s.Users().DisableMFA(ctx, u.ID, later))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.MFAEnabled())
	require.Nil(t, got.MFASecret)

	_, err = s.Users().RecordFailedLogin(ctx, u.ID, later)
	require.NoError(t, err)
	require.NoError(t, s.Users().RecordSignIn(ctx, u.ID, "203.0.113.5", later))
	second := later.Add(time.Hour)
	require.NoError(t, s.Users().RecordSignIn(ctx, u.ID, "198.51.100.7", second))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.SignInCount)
	require.Zero(t, got.FailedAttempts)
	require.Equal(t, "198.51.100.7", got.CurrentSignInIP)
	require.Equal(t, "203.0.113.5", got.LastSignInIP)
	require.True(t, got.CurrentSignInAt.Equal(second))
	require.True(t, got.LastSignInAt.Equal(later))
	require.ErrorIs(t, s.Users().RecordSignIn(ctx, idx.New(), "", later), store.ErrNotFound)

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash", later))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	NewUser(t, s, "officer-list@example.com", domain.RoleLoanOfficer)
	staff, total, err := s.Users().ListUsers(ctx, domain.RoleLoanOfficer, store.Page{Limit: 10})
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, 1)
	for _, st := range staff {
		require.Equal(t, domain.RoleLoanOfficer, st.Role)
	}
}

func testApplications(t *testing.T, s store.Store) {
	ctx := t.Context()
	owner := NewUser(t, s, "apps@example.com", domain.RoleCustomer)
	other := NewUser(t, s, "apps-other@example.com", domain.RoleCustomer)

	a := NewApplication(t, s, owner.ID)
	NewApplication(t, s, owner.ID)
	NewApplication(t, s, other.ID)

	dup := a
	dup.ID = idx.New()
	require.ErrorIs(t, s.Applications().CreateApplication(ctx, dup), store.ErrAlreadyExists,
		"application numbers are unique")

	got, err := s.Applications().GetApplicationByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Number, got.Number)
	require.Equal(t, domain.StatusDraft, got.Status)
	require.Equal(t, 1, got.CurrentStep)
	require.Nil(t, got.LoanAmount)
	require.False(t, got.AgreementAccepted)

	mine, total, err := s.Applications().ListApplications(ctx, store.ApplicationFilter{OwnerID: owner.ID}, store.Page{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, mine, 1)

	amount, term := int64(2_500_000), 48
	got.LoanAmount = &amount
	got.LoanTerm = &term
	got.CurrentStep = 3
	got.DateOfBirth = "1990-04-01"
	got.UpdatedAt = Base.Add(time.Hour)
	require.NoError(t, s.Applications().UpdateApplicationFields(ctx, got))

	got, err = s.Applications().GetApplicationByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, amount, *got.LoanAmount)
	require.Equal(t, term, *got.LoanTerm)
	require.Equal(t, 3, got.CurrentStep)
	require.Equal(t, "1990-04-01", got.DateOfBirth)

	stale := got
	stale.Status = domain.StatusSubmitted
	require.ErrorIs(t, s.Applications().UpdateApplicationFields(ctx, stale), store.ErrStaleState)

	require.ErrorIs(t, s.Applications().DeleteApplication(ctx, a.ID, domain.StatusSubmitted), store.ErrStaleState)
	require.NoError(t, s.Applications().DeleteApplication(ctx, a.ID, domain.StatusDraft))
	_, err = s.Applications().GetApplicationByID(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testConditionalTransition(t *testing.T, s store.Store) {
	ctx := t.Context()
	owner := NewUser(t, s, "race@example.com", domain.RoleCustomer)
	a := NewApplication(t, s, owner.ID)

	submit := func() error {
		next := a.Clone()
		next.Status = domain.StatusSubmitted
		at := Base.Add(time.Minute)
		next.SubmittedAt = &at
		next.UpdatedAt = at
		return s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Applications().TransitionApplication(ctx, *next, domain.StatusDraft); err != nil {
				return err
			}
			return tx.StatusHistory().AppendHistory(ctx, domain.StatusHistory{
				ID:            idx.New(),
				ApplicationID: a.ID,
				ActorID:       owner.ID,
				FromStatus:    domain.StatusDraft,
				ToStatus:      domain.StatusSubmitted,
				CreatedAt:     at,
			})
		})
	}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		stale   int
		unknown []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := submit()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, store.ErrStaleState):
				stale++
			default:
				unknown = append(unknown, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unknown)
	require.Equal(t, 1, ok)
	require.Equal(t, workers-1, stale)

	hist, err := s.StatusHistory().ListHistory(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)

	got, err := s.Applications().GetApplicationByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusSubmitted, got.Status)
	require.NotNil(t, got.SubmittedAt)
}

func testHistoryAndNotes(t *testing.T, s store.Store) {
	ctx := t.Context()
	owner := NewUser(t, s, "notes@example.com", domain.RoleCustomer)
	officer := NewUser(t, s, "notes-officer@example.com", domain.RoleLoanOfficer)
	a := NewApplication(t, s, owner.ID)

	for i, to := range []domain.Status{domain.StatusSubmitted, domain.StatusUnderReview} {
		from := domain.StatusDraft
		if i == 1 {
			from = domain.StatusSubmitted
		}
		require.NoError(t, s.StatusHistory().AppendHistory(ctx, domain.StatusHistory{
			ID:            idx.New(),
			ApplicationID: a.ID,
			ActorID:       officer.ID,
			FromStatus:    from,
			ToStatus:      to,
			Comment:       "step",
			CreatedAt:     Base.Add(time.Duration(i) * time.Minute),
		}))
	}
	hist, err := s.StatusHistory().ListHistory(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, domain.StatusSubmitted, hist[0].ToStatus)
	require.Equal(t, domain.StatusUnderReview, hist[1].ToStatus)
	require.Equal(t, "step", hist[1].Comment)

	require.NoError(t, s.Notes().CreateNote(ctx, domain.Note{
		ID: idx.New(), ApplicationID: a.ID, AuthorID: officer.ID, Body: "please send payslips", CreatedAt: Base,
	}))
	require.NoError(t, s.Notes().CreateNote(ctx, domain.Note{
		ID: idx.New(), ApplicationID: a.ID, AuthorID: officer.ID, Body: "income looks thin", Internal: true,
		CreatedAt: Base.Add(time.Second),
	}))

	all, err := s.Notes().ListNotes(ctx, a.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	public, err := s.Notes().ListNotes(ctx, a.ID, false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.Equal(t, "please send payslips", public[0].Body)
}

func testRevocations(t *testing.T, s store.Store) {
	ctx := t.Context()
	rev := domain.Revocation{JTI: "jti-1", ExpiresAt: Base.Add(time.Hour), CreatedAt: Base}

	require.NoError(t, s.Revocations().Revoke(ctx, rev))
	require.NoError(t, s.Revocations().Revoke(ctx, rev), "revoking twice is idempotent")

	revoked, err := s.Revocations().IsRevoked(ctx, "jti-1", Base.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = s.Revocations().IsRevoked(ctx, "jti-2", Base)
	require.NoError(t, err)
	require.False(t, revoked)

	revoked, err = s.Revocations().IsRevoked(ctx, "jti-1", Base.Add(2*time.Hour))
	require.NoError(t, err)
	require.False(t, revoked, "expired entries never block")

	n, err := s.Revocations().DeleteExpired(ctx, Base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)
	n, err = s.Revocations().DeleteExpired(ctx, Base.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func testAuditEvents(t *testing.T, s store.Store) {
	ctx := t.Context()
	user := NewUser(t, s, "audit@example.com", domain.RoleCustomer)
	const ip = "203.0.113.5"

	logAt := func(at time.Time, et domain.EventType, actor idx.ID, ip string) {
		t.Helper()
		require.NoError(t, s.AuditEvents().AppendEvent(ctx, domain.AuditEvent{
			ID:        idx.New(),
			ActorID:   actor,
			Type:      et,
			IP:        ip,
			UserAgent: "storetest",
			Metadata:  map[string]any{"email": "audit@example.com"},
			CreatedAt: at,
		}))
	}

	for i := range 5 {
		logAt(Base.Add(time.Duration(i)*time.Minute), domain.EventLoginFailure, user.ID, ip)
	}
	logAt(Base.Add(-2*time.Hour), domain.EventLoginFailure, user.ID, ip)
	logAt(Base, domain.EventLoginFailure, idx.Zero, "198.51.100.7")
	logAt(Base, domain.EventLoginSuccess, user.ID, ip)

	n, err := s.AuditEvents().CountEvents(ctx, store.AuditQuery{
		Type: domain.EventLoginFailure, IP: ip, Since: Base.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, 5, n)

	n, err = s.AuditEvents().CountEvents(ctx, store.AuditQuery{
		Type: domain.EventLoginFailure, ActorID: user.ID, Since: Base.Add(-3 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, 6, n)

	n, err = s.AuditEvents().CountEvents(ctx, store.AuditQuery{
		Type: domain.EventLoginFailure, IP: ip, Since: Base.Add(4 * time.Minute),
	})
	require.NoError(t, err)
	require.Equal(t, 1, n, "since is inclusive")

	events, err := s.AuditEvents().ListEvents(ctx, user.ID, store.Page{Limit: 3})
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "audit@example.com", events[0].Metadata["email"])

	deleted, err := s.AuditEvents().DeleteBefore(ctx, Base.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
}

func testTxRollback(t *testing.T, s store.Store) {
	ctx := t.Context()
	boom := errors.New("boom")

	var id idx.ID
	err := s.WithTx(ctx, func(tx store.Tx) error {
		u, err := domain.NewUser(domain.NewUserParams{
			ID: idx.New(), Email: "rollback@example.com", PasswordHash: "h",
			FirstName: "R", LastName: "B", Role: domain.RoleCustomer, Now: Base,
		})
		if err != nil {
			return err
		}
		id = u.ID
		if err := tx.Users().CreateUser(ctx, *u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByID(context.WithoutCancel(ctx), id)
	require.ErrorIs(t, err, store.ErrNotFound)
}
