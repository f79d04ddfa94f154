package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStaleState is returned by conditional writes when the row is no
	// longer in the status the caller read.
	ErrStaleState = errors.New("store: stale state")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Repositories hang off it so a Tx exposes exactly
// the same surface and nested transactions cannot be started by accident.
type Store interface {
	Users() Users
	Applications() Applications
	StatusHistory() StatusHistory
	Notes() Notes
	Revocations() Revocations
	AuditEvents() AuditEvents

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise. Inside fn only tx may be used; the outer
	// store may share the single connection of an in-memory database.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

type Users interface {
	// CreateUser inserts u. A duplicate email is ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)

	// GetUserByEmail expects an already normalised address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	UpdateProfile(ctx context.Context, id idx.ID, first, last, phone string, now time.Time) error
	UpdatePasswordHash(ctx context.Context, id idx.ID, hash string, now time.Time) error

	// RecordFailedLogin increments failed_attempts and returns the new count.
	RecordFailedLogin(ctx context.Context, id idx.ID, now time.Time) (int, error)

	// LockUser sets locked_at.
	LockUser(ctx context.Context, id idx.ID, at time.Time) error

	// ResetLoginState clears locked_at and failed_attempts.
	ResetLoginState(ctx context.Context, id idx.ID, now time.Time) error

	// RecordSignIn counts a successful login from ip, moves the current
	// sign in to last and clears failed_attempts.
	RecordSignIn(ctx context.Context, id idx.ID, ip string, at time.Time) error

	// UpdateMFASecret stores a pending secret and clears any enabled flag.
	UpdateMFASecret(ctx context.Context, id idx.ID, secret string, now time.Time) error
	EnableMFA(ctx context.Context, id idx.ID, at time.Time) error
	DisableMFA(ctx context.Context, id idx.ID, now time.Time) error

	// ListUsers returns one page, newest first, plus the total count.
	// An empty role lists everyone.
	ListUsers(ctx context.Context, role domain.Role, page Page) ([]domain.User, int, error)
}

// ApplicationFilter narrows ListApplications. Zero fields do not filter.
type ApplicationFilter struct {
	OwnerID idx.ID
	Status  domain.Status
}

type Applications interface {
	CreateApplication(ctx context.Context, a domain.Application) error
	GetApplicationByID(ctx context.Context, id idx.ID) (domain.Application, error)

	// ListApplications returns newest first, plus the total count.
	ListApplications(ctx context.Context, f ApplicationFilter, page Page) ([]domain.Application, int, error)

	// UpdateApplicationFields writes the editable fields of a, provided the
	// row is still in a.Status. Otherwise ErrStaleState.
	UpdateApplicationFields(ctx context.Context, a domain.Application) error

	// TransitionApplication writes status, timestamps and decision fields of
	// a, provided the row is still in from. Otherwise ErrStaleState.
	TransitionApplication(ctx context.Context, a domain.Application, from domain.Status) error

	// DeleteApplication removes the row provided it is still in status.
	DeleteApplication(ctx context.Context, id idx.ID, status domain.Status) error
}

type StatusHistory interface {
	AppendHistory(ctx context.Context, h domain.StatusHistory) error

	// ListHistory returns entries oldest first.
	ListHistory(ctx context.Context, applicationID idx.ID) ([]domain.StatusHistory, error)
}

type Notes interface {
	CreateNote(ctx context.Context, n domain.Note) error

	// ListNotes returns notes oldest first, skipping internal ones unless
	// includeInternal is set.
	ListNotes(ctx context.Context, applicationID idx.ID, includeInternal bool) ([]domain.Note, error)
}

type Revocations interface {
	// Revoke records r. Revoking a jti twice is not an error.
	Revoke(ctx context.Context, r domain.Revocation) error

	// IsRevoked reports whether jti has an entry that has not expired at now.
	IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error)

	// DeleteExpired purges entries with expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuditQuery counts events of Type since Since (inclusive). IP and ActorID
// filter when set.
type AuditQuery struct {
	Type    domain.EventType
	IP      string
	ActorID idx.ID
	Since   time.Time
}

type AuditEvents interface {
	AppendEvent(ctx context.Context, e domain.AuditEvent) error
	CountEvents(ctx context.Context, q AuditQuery) (int, error)

	// ListEvents returns the newest events first, optionally for one actor.
	ListEvents(ctx context.Context, actorID idx.ID, page Page) ([]domain.AuditEvent, error)

	// DeleteBefore purges events created before t.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)
}
