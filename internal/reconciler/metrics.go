package reconciler

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

// ReconcilerMetrics tracks pass outcomes for monitoring and alerting.
//
// Counters are kept in memory for the summary endpoint and mirrored into
// Prometheus collectors when a registerer is supplied.
type ReconcilerMetrics struct {
	mu sync.RWMutex

	totalPasses       int64
	totalSuccesses    int64
	totalFailures     int64
	totalDryRuns      int64
	updatesByState    map[api.RunState]int64
	deletionsByKind   map[api.ResourceKind]int64
	lastPassAt        time.Time
	lastSuccessAt     time.Time
	lastFailureAt     time.Time
	lastFailedPhase   Phase
	lastPassOperation int

	passes    *prometheus.CounterVec
	updates   *prometheus.CounterVec
	deletions *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewReconcilerMetrics creates a metrics instance. When reg is non-nil the
// Prometheus collectors are registered with it.
func NewReconcilerMetrics(reg prometheus.Registerer) *ReconcilerMetrics {
	m := &ReconcilerMetrics{
		updatesByState:  make(map[api.RunState]int64),
		deletionsByKind: make(map[api.ResourceKind]int64),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raccoon_passes_total",
			Help: "Reconciliation passes by mode and outcome",
		}, []string{"mode", "outcome"}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raccoon_run_updates_published_total",
			Help: "Run updates published to the notification sink by new state",
		}, []string{"state"}),
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raccoon_resources_deleted_total",
			Help: "Cluster resources deleted by kind",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raccoon_pass_duration_seconds",
			Help:    "Wall time of full reconciliation passes",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.passes, m.updates, m.deletions, m.duration)
	}
	return m
}

// RecordDryRun records a completed dry run.
func (m *ReconcilerMetrics) RecordDryRun(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDryRuns++
	m.passes.WithLabelValues("dry-run", outcome(ok)).Inc()
}

// RecordPass records the result of a full pass.
func (m *ReconcilerMetrics) RecordPass(result Result, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.totalPasses++
	m.lastPassAt = now
	m.lastPassOperation = result.Total
	m.duration.Observe(elapsed.Seconds())

	if result.Success {
		m.totalSuccesses++
		m.lastSuccessAt = now
		m.lastFailedPhase = PhaseNone
	} else {
		m.totalFailures++
		m.lastFailureAt = now
		m.lastFailedPhase = result.FailedPhase
		logging.Warn("Metrics", "Pass failed in phase %q (failures: %d)", result.FailedPhase, m.totalFailures)
	}
	m.passes.WithLabelValues("run", outcome(result.Success)).Inc()
}

// RecordUpdatePublished counts one published run update.
func (m *ReconcilerMetrics) RecordUpdatePublished(state api.RunState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updatesByState[state]++
	m.updates.WithLabelValues(string(state)).Inc()
}

// RecordResourceDeleted counts one applied deletion.
func (m *ReconcilerMetrics) RecordResourceDeleted(kind api.ResourceKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deletionsByKind[kind]++
	m.deletions.WithLabelValues(string(kind)).Inc()
}

// ReconcilerMetricsSummary is a point-in-time view of the counters.
type ReconcilerMetricsSummary struct {
	TotalPasses        int64                      `json:"total_passes"`
	TotalSuccesses     int64                      `json:"total_successes"`
	TotalFailures      int64                      `json:"total_failures"`
	TotalDryRuns       int64                      `json:"total_dry_runs"`
	UpdatesByState     map[api.RunState]int64     `json:"updates_by_state"`
	DeletionsByKind    map[api.ResourceKind]int64 `json:"deletions_by_kind"`
	LastPassAt         time.Time                  `json:"last_pass_at,omitempty"`
	LastSuccessAt      time.Time                  `json:"last_success_at,omitempty"`
	LastFailureAt      time.Time                  `json:"last_failure_at,omitempty"`
	LastFailedPhase    Phase                      `json:"last_failed_phase,omitempty"`
	LastPassOperations int                        `json:"last_pass_operations"`
	FailureRate        float64                    `json:"failure_rate"`
}

// GetSummary returns a copy of the current counters.
func (m *ReconcilerMetrics) GetSummary() ReconcilerMetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := ReconcilerMetricsSummary{
		TotalPasses:        m.totalPasses,
		TotalSuccesses:     m.totalSuccesses,
		TotalFailures:      m.totalFailures,
		TotalDryRuns:       m.totalDryRuns,
		UpdatesByState:     make(map[api.RunState]int64, len(m.updatesByState)),
		DeletionsByKind:    make(map[api.ResourceKind]int64, len(m.deletionsByKind)),
		LastPassAt:         m.lastPassAt,
		LastSuccessAt:      m.lastSuccessAt,
		LastFailureAt:      m.lastFailureAt,
		LastFailedPhase:    m.lastFailedPhase,
		LastPassOperations: m.lastPassOperation,
	}
	for k, v := range m.updatesByState {
		summary.UpdatesByState[k] = v
	}
	for k, v := range m.deletionsByKind {
		summary.DeletionsByKind[k] = v
	}
	if m.totalPasses > 0 {
		summary.FailureRate = float64(m.totalFailures) / float64(m.totalPasses)
	}
	return summary
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
