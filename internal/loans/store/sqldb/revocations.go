package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
)

type revocationsRepo struct {
	conn
}

func (r *revocationsRepo) Revoke(ctx context.Context, rev domain.Revocation) error {
	_, err := r.exec(ctx, `INSERT INTO jwt_denylist (jti, expires_at, created_at)
		VALUES (?, ?, ?) ON CONFLICT (jti) DO NOTHING`,
		rev.JTI, utc(rev.ExpiresAt), utc(rev.CreatedAt))
	return err
}

func (r *revocationsRepo) IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error) {
	var n int
	err := r.queryRow(ctx, `SELECT COUNT(*) FROM jwt_denylist WHERE jti = ? AND expires_at > ?`,
		jti, utc(now)).Scan(&n)
	return n > 0, err
}

func (r *revocationsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.exec(ctx, `DELETE FROM jwt_denylist WHERE expires_at <= ?`, utc(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
