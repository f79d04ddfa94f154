package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/aussiebroadwan/loandesk/internal/loans/store"
)

const DefaultHousekeepingInterval = time.Hour

// HousekeepingService periodically purges expired revocation entries and,
// when AuditRetention is set, audit events older than the retention.
type HousekeepingService struct {
	Store          store.Store
	Logger         *slog.Logger
	Clock          clock.Clock
	Metrics        *Metrics
	Interval       time.Duration
	AuditRetention time.Duration // zero keeps audit events forever

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService returns a stopped service. A non-positive interval
// means DefaultHousekeepingInterval; a nil clock means the wall clock.
func NewHousekeepingService(st store.Store, logger *slog.Logger, clk clock.Clock, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Clock:    clk,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs one cleanup straight away and then one per Interval until
// Stop is called. Calls after the first, or after Stop, do nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished. It returns at
// once when Start was never called, and is safe to call more than once.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	close(s.stopCh)
	s.mu.Unlock()

	if started {
		<-s.doneCh
	}
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.RunOnce(ctx)
	for {
		select {
		case <-s.Clock.After(s.Interval):
			s.RunOnce(ctx)
		case <-s.stopCh:
			return
		}
	}
}

// HousekeepingResult counts the rows removed by one pass.
type HousekeepingResult struct {
	Revocations int64
	AuditEvents int64
}

// RunOnce performs one cleanup pass. Each purge is independent so a failure
// in one does not stop the other.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingResult {
	var res HousekeepingResult
	now := nowFrom(s.Clock)

	n, err := s.Store.Revocations().DeleteExpired(ctx, now)
	if err != nil {
		s.Logger.Error("failed to purge expired revocations", "error", err)
	} else {
		res.Revocations = n
		s.Metrics.observePurge("jwt_denylist", n)
	}

	if s.AuditRetention > 0 {
		n, err := s.Store.AuditEvents().DeleteBefore(ctx, now.Add(-s.AuditRetention))
		if err != nil {
			s.Logger.Error("failed to purge old audit events", "error", err)
		} else {
			res.AuditEvents = n
			s.Metrics.observePurge("security_audit_logs", n)
		}
	}

	s.Logger.Info("housekeeping cleanup completed",
		"revocations_purged", res.Revocations,
		"audit_events_purged", res.AuditEvents)
	return res
}
