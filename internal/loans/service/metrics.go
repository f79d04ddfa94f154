package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
)

// Metrics counts domain outcomes. A nil *Metrics records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	logins      *prometheus.CounterVec
	audit       *prometheus.CounterVec
	purged      *prometheus.CounterVec
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_transitions_total",
			Help:      "Application lifecycle actions by outcome.",
		}, []string{"action", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"result"}),
		audit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_total",
			Help:      "Security audit events written, by type.",
		}, []string{"event_type"}),
		purged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "housekeeping_purged_total",
			Help:      "Rows removed by housekeeping.",
		}, []string{"table"}),
	}
	reg.MustRegister(m.transitions, m.logins, m.audit, m.purged)
	return m
}

func (m *Metrics) observeTransition(action domain.Action, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(action), result).Inc()
}

func (m *Metrics) observeLogin(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) observeAudit(et domain.EventType) {
	if m == nil {
		return
	}
	m.audit.WithLabelValues(string(et)).Inc()
}

func (m *Metrics) observePurge(table string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.purged.WithLabelValues(table).Add(float64(n))
}
