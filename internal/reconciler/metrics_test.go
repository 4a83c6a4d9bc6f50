package reconciler

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"raccoon/internal/api"
)

func TestReconcilerMetrics_NewInstance(t *testing.T) {
	metrics := NewReconcilerMetrics(nil)
	if metrics == nil {
		t.Fatal("expected non-nil metrics instance")
	}
	if metrics.updatesByState == nil || metrics.deletionsByKind == nil {
		t.Error("expected counter maps to be initialized")
	}
}

func TestReconcilerMetrics_RecordPass(t *testing.T) {
	metrics := NewReconcilerMetrics(nil)

	metrics.RecordPass(Result{Applied: 3, Total: 3, Success: true}, time.Second)
	metrics.RecordPass(Result{Applied: 1, Total: 3, FailedPhase: PhaseDeletePods, Err: errors.New("boom")}, time.Second)

	summary := metrics.GetSummary()
	if summary.TotalPasses != 2 {
		t.Errorf("expected TotalPasses=2, got %d", summary.TotalPasses)
	}
	if summary.TotalSuccesses != 1 {
		t.Errorf("expected TotalSuccesses=1, got %d", summary.TotalSuccesses)
	}
	if summary.TotalFailures != 1 {
		t.Errorf("expected TotalFailures=1, got %d", summary.TotalFailures)
	}
	if summary.LastFailedPhase != PhaseDeletePods {
		t.Errorf("expected LastFailedPhase=%s, got %s", PhaseDeletePods, summary.LastFailedPhase)
	}
	if summary.FailureRate != 0.5 {
		t.Errorf("expected FailureRate=0.5, got %f", summary.FailureRate)
	}
	if summary.LastFailureAt.IsZero() {
		t.Error("expected LastFailureAt to be set")
	}
}

func TestReconcilerMetrics_SummaryIsCopy(t *testing.T) {
	metrics := NewReconcilerMetrics(nil)
	metrics.RecordResourceDeleted(api.ResourceKindPod)

	summary := metrics.GetSummary()
	summary.DeletionsByKind[api.ResourceKindPod] = 42

	if got := metrics.GetSummary().DeletionsByKind[api.ResourceKindPod]; got != 1 {
		t.Errorf("expected internal counter to stay 1, got %d", got)
	}
}

func TestReconcilerMetrics_PrometheusCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewReconcilerMetrics(reg)

	metrics.RecordUpdatePublished(api.RunStateSystemError)
	metrics.RecordUpdatePublished(api.RunStateSystemError)
	metrics.RecordResourceDeleted(api.ResourceKindConfigMap)
	metrics.RecordDryRun(true)

	if got := testutil.ToFloat64(metrics.updates.WithLabelValues("SYSTEM_ERROR")); got != 2 {
		t.Errorf("expected 2 published SYSTEM_ERROR updates, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.deletions.WithLabelValues("ConfigMap")); got != 1 {
		t.Errorf("expected 1 ConfigMap deletion, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.passes.WithLabelValues("dry-run", "success")); got != 1 {
		t.Errorf("expected 1 dry run, got %f", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
}
