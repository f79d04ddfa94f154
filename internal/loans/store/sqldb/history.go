package sqldb

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

type historyRepo struct {
	conn
}

func (r *historyRepo) AppendHistory(ctx context.Context, h domain.StatusHistory) error {
	_, err := r.exec(ctx, `INSERT INTO status_histories
		(id, application_id, user_id, from_status, to_status, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID.String(), h.ApplicationID.String(), h.ActorID.String(),
		string(h.FromStatus), string(h.ToStatus), nullString(h.Comment), utc(h.CreatedAt))
	return err
}

func (r *historyRepo) ListHistory(ctx context.Context, applicationID idx.ID) ([]domain.StatusHistory, error) {
	rows, err := r.query(ctx, `SELECT id, application_id, user_id, from_status, to_status, comment, created_at
		FROM status_histories WHERE application_id = ? ORDER BY created_at, id`, applicationID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StatusHistory
	for rows.Next() {
		var (
			h                domain.StatusHistory
			id, appID, actor string
			from, to         string
			comment          sql.NullString
		)
		if err := rows.Scan(&id, &appID, &actor, &from, &to, &comment, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.ID, h.ApplicationID, h.ActorID = idx.ID(id), idx.ID(appID), idx.ID(actor)
		h.FromStatus, h.ToStatus = domain.Status(from), domain.Status(to)
		h.Comment = comment.String
		h.CreatedAt = h.CreatedAt.UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

type notesRepo struct {
	conn
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	_, err := r.exec(ctx, `INSERT INTO application_notes
		(id, application_id, user_id, note, internal, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID.String(), n.ApplicationID.String(), n.AuthorID.String(), n.Body, n.Internal, utc(n.CreatedAt))
	return err
}

func (r *notesRepo) ListNotes(ctx context.Context, applicationID idx.ID, includeInternal bool) ([]domain.Note, error) {
	q := `SELECT id, application_id, user_id, note, internal, created_at
		FROM application_notes WHERE application_id = ?`
	if !includeInternal {
		q += ` AND internal = ?`
	}
	args := []any{applicationID.String()}
	if !includeInternal {
		args = append(args, false)
	}

	rows, err := r.query(ctx, q+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Note
	for rows.Next() {
		var (
			n                 domain.Note
			id, appID, author string
		)
		if err := rows.Scan(&id, &appID, &author, &n.Body, &n.Internal, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.ID, n.ApplicationID, n.AuthorID = idx.ID(id), idx.ID(appID), idx.ID(author)
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}
