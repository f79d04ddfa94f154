package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

type auditRepo struct {
	conn
}

func (r *auditRepo) AppendEvent(ctx context.Context, e domain.AuditEvent) error {
	meta := []byte("{}")
	if len(e.Metadata) > 0 {
		var err error
		if meta, err = json.Marshal(e.Metadata); err != nil {
			return fmt.Errorf("encode audit metadata: %w", err)
		}
	}
	_, err := r.exec(ctx, `INSERT INTO security_audit_logs
		(id, user_id, event_type, ip_address, user_agent, resource_type, resource_id, metadata, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), nullString(e.ActorID.String()), string(e.Type), nullString(e.IP),
		nullString(e.UserAgent), nullString(e.ResourceType), nullString(e.ResourceID),
		string(meta), e.Success, utc(e.CreatedAt))
	return err
}

func (r *auditRepo) CountEvents(ctx context.Context, q store.AuditQuery) (int, error) {
	conds := []string{"event_type = ?", "created_at >= ?"}
	args := []any{string(q.Type), utc(q.Since)}
	if q.IP != "" {
		conds = append(conds, "ip_address = ?")
		args = append(args, q.IP)
	}
	if !q.ActorID.IsZero() {
		conds = append(conds, "user_id = ?")
		args = append(args, q.ActorID.String())
	}

	var n int
	err := r.queryRow(ctx, `SELECT COUNT(*) FROM security_audit_logs WHERE `+
		strings.Join(conds, " AND "), args...).Scan(&n)
	return n, err
}

func (r *auditRepo) ListEvents(ctx context.Context, actorID idx.ID, page store.Page) ([]domain.AuditEvent, error) {
	where, args := "", []any{}
	if !actorID.IsZero() {
		where = ` WHERE user_id = ?`
		args = append(args, actorID.String())
	}

	rows, err := r.query(ctx, `SELECT id, user_id, event_type, ip_address, user_agent,
		resource_type, resource_id, metadata, success, created_at
		FROM security_audit_logs`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var (
			e                             domain.AuditEvent
			id, eventType, meta           string
			actor, ip, ua, resType, resID sql.NullString
		)
		if err := rows.Scan(&id, &actor, &eventType, &ip, &ua, &resType, &resID,
			&meta, &e.Success, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID, e.ActorID, e.Type = idx.ID(id), idx.ID(actor.String), domain.EventType(eventType)
		e.IP, e.UserAgent = ip.String, ua.String
		e.ResourceType, e.ResourceID = resType.String, resID.String
		e.CreatedAt = e.CreatedAt.UTC()
		if meta != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode audit metadata: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *auditRepo) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.exec(ctx, `DELETE FROM security_audit_logs WHERE created_at < ?`, utc(t))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
