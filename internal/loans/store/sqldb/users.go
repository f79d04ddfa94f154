package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, role,
	failed_attempts, locked_at, mfa_secret, mfa_enabled_at,
	sign_in_count, current_sign_in_at, last_sign_in_at, current_sign_in_ip, last_sign_in_ip,
	created_at, updated_at`

type usersRepo struct {
	conn
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		id, role   string
		phone      sql.NullString
		lockedAt   sql.NullTime
		mfaSecret  sql.NullString
		mfaEnabled sql.NullTime
		curAt      sql.NullTime
		lastAt     sql.NullTime
		curIP      sql.NullString
		lastIP     sql.NullString
	)
	err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &phone, &role,
		&u.FailedAttempts, &lockedAt, &mfaSecret, &mfaEnabled,
		&u.SignInCount, &curAt, &lastAt, &curIP, &lastIP,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = idx.ID(id)
	u.Role = domain.Role(role)
	u.Phone = phone.String
	u.LockedAt = ptrTime(lockedAt)
	u.MFASecret = ptrString(mfaSecret)
	u.MFAEnabledAt = ptrTime(mfaEnabled)
	u.CurrentSignInAt = ptrTime(curAt)
	u.LastSignInAt = ptrTime(lastAt)
	u.CurrentSignInIP = curIP.String
	u.LastSignInIP = lastIP.String
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Email, u.PasswordHash, u.FirstName, u.LastName, nullString(u.Phone),
		string(u.Role), u.FailedAttempts, nullTime(u.LockedAt), nullStringPtr(u.MFASecret),
		nullTime(u.MFAEnabledAt), u.SignInCount, nullTime(u.CurrentSignInAt), nullTime(u.LastSignInAt),
		nullString(u.CurrentSignInIP), nullString(u.LastSignInIP), utc(u.CreatedAt), utc(u.UpdatedAt))
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	u, err := scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String()))
	return u, mapNotFound(err)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	return u, mapNotFound(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id idx.ID, first, last, phone string, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET first_name = ?, last_name = ?, phone = ?, updated_at = ?
		WHERE id = ?`, first, last, nullString(phone), utc(now), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id idx.ID, hash string, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, utc(now), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) RecordFailedLogin(ctx context.Context, id idx.ID, now time.Time) (int, error) {
	var n int
	err := r.queryRow(ctx, `UPDATE users SET failed_attempts = failed_attempts + 1, updated_at = ?
		WHERE id = ? RETURNING failed_attempts`, utc(now), id.String()).Scan(&n)
	return n, mapNotFound(err)
}

func (r *usersRepo) LockUser(ctx context.Context, id idx.ID, at time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET locked_at = ?, updated_at = ? WHERE id = ?`,
		utc(at), utc(at), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) ResetLoginState(ctx context.Context, id idx.ID, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET failed_attempts = 0, locked_at = NULL, updated_at = ?
		WHERE id = ?`, utc(now), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) RecordSignIn(ctx context.Context, id idx.ID, ip string, at time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET
		sign_in_count = sign_in_count + 1,
		last_sign_in_at = current_sign_in_at,
		last_sign_in_ip = current_sign_in_ip,
		current_sign_in_at = ?,
		current_sign_in_ip = ?,
		failed_attempts = 0,
		updated_at = ?
		WHERE id = ?`, utc(at), nullString(ip), utc(at), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, id idx.ID, secret string, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET mfa_secret = ?, mfa_enabled_at = NULL, updated_at = ?
		WHERE id = ?`, secret, utc(now), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) EnableMFA(ctx context.Context, id idx.ID, at time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET mfa_enabled_at = ?, updated_at = ?
		WHERE id = ? AND mfa_secret IS NOT NULL`, utc(at), utc(at), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) DisableMFA(ctx context.Context, id idx.ID, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET mfa_secret = NULL, mfa_enabled_at = NULL, updated_at = ?
		WHERE id = ?`, utc(now), id.String())
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) ListUsers(ctx context.Context, role domain.Role, page store.Page) ([]domain.User, int, error) {
	where, args := "", []any{}
	if role != "" {
		where = ` WHERE role = ?`
		args = append(args, string(role))
	}

	var total int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.query(ctx, `SELECT `+userColumns+` FROM users`+where+
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}
