package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/juju/clock"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"
)

// Event is the input to AuditService.Log. IP and UserAgent default to the
// ClientInfo on the context.
type Event struct {
	Type         domain.EventType
	ActorID      idx.ID
	IP           string
	UserAgent    string
	ResourceType string
	ResourceID   string
	Metadata     map[string]any
	Success      bool
}

type AuditService struct {
	Store   store.Store
	Clock   clock.Clock
	Metrics *Metrics
}

// Log appends e to the audit log. Types outside the catalogue are rejected
// with domain.ErrUnknownEventType.
func (s *AuditService) Log(ctx context.Context, e Event) error {
	et, err := domain.ParseEventType(string(e.Type))
	if err != nil {
		return err
	}

	ci := ClientInfoFrom(ctx)
	if e.IP == "" {
		e.IP = ci.IP
	}
	if e.UserAgent == "" {
		e.UserAgent = ci.UserAgent
	}

	now := nowFrom(s.Clock)
	err = s.Store.AuditEvents().AppendEvent(ctx, domain.AuditEvent{
		ID:           idx.NewAt(now),
		ActorID:      e.ActorID,
		Type:         et,
		IP:           e.IP,
		UserAgent:    e.UserAgent,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Metadata:     e.Metadata,
		Success:      e.Success,
		CreatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	s.Metrics.observeAudit(et)
	return nil
}

// Record is Log for callers that must not fail because auditing did. The
// error is logged.
func (s *AuditService) Record(ctx context.Context, e Event) {
	if err := s.Log(ctx, e); err != nil {
		slogx.FromContext(ctx).Error("audit write failed",
			slog.String("event_type", string(e.Type)),
			slog.Any("error", err))
	}
}

// FailedLoginsForIP counts login_failure events from ip at or after since.
// An empty ip is a validation error rather than a count across all
// addresses.
func (s *AuditService) FailedLoginsForIP(ctx context.Context, ip string, since time.Time) (int, error) {
	if strings.TrimSpace(ip) == "" {
		return 0, domain.NewValidationError("ip", "is required")
	}
	return s.Store.AuditEvents().CountEvents(ctx, store.AuditQuery{
		Type:  domain.EventLoginFailure,
		IP:    ip,
		Since: since,
	})
}

// FailedLoginsForUser counts login_failure events for userID at or after
// since.
func (s *AuditService) FailedLoginsForUser(ctx context.Context, userID idx.ID, since time.Time) (int, error) {
	if userID.IsZero() {
		return 0, domain.NewValidationError("user_id", "is required")
	}
	return s.Store.AuditEvents().CountEvents(ctx, store.AuditQuery{
		Type:    domain.EventLoginFailure,
		ActorID: userID,
		Since:   since,
	})
}

// Recent lists the newest events for userID, or for everyone when userID is
// zero.
func (s *AuditService) Recent(ctx context.Context, userID idx.ID, page PageRequest) ([]domain.AuditEvent, error) {
	page = page.normalize()
	return s.Store.AuditEvents().ListEvents(ctx, userID, page.storePage())
}
