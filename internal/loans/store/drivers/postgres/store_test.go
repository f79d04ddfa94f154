package postgres_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/internal/loans/store/drivers/postgres"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*postgres.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.FromDB(db), mock
}

func TestRebind(t *testing.T) {
	require.Equal(t,
		"UPDATE applications SET status = $1 WHERE id = $2 AND status = $3",
		postgres.Dialect.Rebind("UPDATE applications SET status = ? WHERE id = ? AND status = ?"))
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	u, err := domain.NewUser(domain.NewUserParams{
		ID: idx.New(), Email: "dup@example.com", PasswordHash: "h",
		FirstName: "D", LastName: "U", Role: domain.RoleCustomer, Now: time.Now(),
	})
	require.NoError(t, err)

	err = s.Users().CreateUser(t.Context(), *u)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionUsesNumberedPlaceholdersAndDetectsStaleRows(t *testing.T) {
	s, mock := newMock(t)
	app := domain.NewApplication(idx.New(), idx.New(), "AL-20250301-ABC123", time.Now())
	app.Status = domain.StatusSubmitted

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE applications SET .* WHERE id = \$12 AND status = \$13`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), app.ID.String(), "draft").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.WithTx(t.Context(), func(tx store.Tx) error {
		return tx.Applications().TransitionApplication(t.Context(), *app, domain.StatusDraft)
	})
	require.ErrorIs(t, err, store.ErrStaleState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRevoked(t *testing.T) {
	s, mock := newMock(t)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM jwt_denylist WHERE jti = $1 AND expires_at > $2")).
		WithArgs("abc", now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	revoked, err := s.Revocations().IsRevoked(t.Context(), "abc", now)
	require.NoError(t, err)
	require.True(t, revoked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationNotFound(t *testing.T) {
	s, mock := newMock(t)
	id := idx.New()

	mock.ExpectQuery(`SELECT .* FROM applications WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Applications().GetApplicationByID(t.Context(), id)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountFailedLoginsForIP(t *testing.T) {
	s, mock := newMock(t)
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM security_audit_logs WHERE event_type = $1 AND created_at >= $2 AND ip_address = $3")).
		WithArgs("login_failure", since, "203.0.113.5").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := s.AuditEvents().CountEvents(t.Context(), store.AuditQuery{
		Type: domain.EventLoginFailure, IP: "203.0.113.5", Since: since,
	})
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
