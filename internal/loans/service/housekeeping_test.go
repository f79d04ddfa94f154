package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"
)

func TestHousekeepingRunOnce(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	now := e.clock.Now()

	require.NoError(t, e.revoke.Revoke(ctx, "gone", now.Add(time.Minute)))
	require.NoError(t, e.revoke.Revoke(ctx, "kept", now.Add(48*time.Hour)))
	require.NoError(t, e.audit.Log(ctx, service.Event{Type: domain.EventLogout}))

	hk := service.NewHousekeepingService(e.store, slogx.Discard(), e.clock, time.Minute)
	hk.Metrics = e.metrics

	e.clock.Advance(2 * time.Minute)
	res := hk.RunOnce(ctx)
	require.EqualValues(t, 1, res.Revocations)
	require.Zero(t, res.AuditEvents)

	hk.AuditRetention = 24 * time.Hour
	e.clock.Advance(25 * time.Hour)
	require.NoError(t, e.audit.Log(ctx, service.Event{Type: domain.EventLogout}))
	res = hk.RunOnce(ctx)
	require.EqualValues(t, 1, res.AuditEvents)
	require.Equal(t, 1, e.count(t, domain.EventLogout))
}

func TestHousekeepingLoop(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	now := e.clock.Now()
	require.NoError(t, e.revoke.Revoke(ctx, "a", now.Add(30*time.Second)))

	hk := service.NewHousekeepingService(e.store, slogx.Discard(), e.clock, time.Minute)
	hk.Start()
	defer hk.Stop()

	// The first pass runs immediately; the next waits for the clock.
	require.NoError(t, e.clock.WaitAdvance(time.Minute, time.Second, 1))

	require.Eventually(t, func() bool {
		var n int
		err := e.db.SQL().QueryRowContext(ctx, `SELECT COUNT(*) FROM jwt_denylist`).Scan(&n)
		return err == nil && n == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHousekeepingStopWithoutStart(t *testing.T) {
	e := newEnv(t)
	hk := service.NewHousekeepingService(e.store, slogx.Discard(), e.clock, time.Minute)

	done := make(chan struct{})
	go func() {
		hk.Stop()
		hk.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without Start")
	}

	// Start after Stop does nothing.
	hk.Start()
	hk.Stop()
}
