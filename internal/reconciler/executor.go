package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

// Pacing holds the delays inserted between consecutive items of a phase.
type Pacing struct {
	NotificationDelay time.Duration
	DeletionDelay     time.Duration
}

// Executor applies a Plan as three ordered, serial, paced phases:
// notifications, pod deletions and ConfigMap deletions. The first failure
// aborts the remaining pipeline; nothing already applied is undone.
type Executor struct {
	notifier  api.EventPublisher
	inventory api.ResourceInventory
	metrics   *ReconcilerMetrics

	mu     sync.RWMutex
	pacing Pacing

	// wait blocks for d or until ctx is done. Replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an Executor. metrics may be nil.
func NewExecutor(notifier api.EventPublisher, inventory api.ResourceInventory, pacing Pacing, metrics *ReconcilerMetrics) *Executor {
	return &Executor{
		notifier:  notifier,
		inventory: inventory,
		pacing:    pacing,
		metrics:   metrics,
		wait:      sleepContext,
	}
}

// SetPacing replaces the delays used by subsequent Apply calls.
func (e *Executor) SetPacing(p Pacing) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pacing = p
}

// Pacing returns the current delays.
func (e *Executor) Pacing() Pacing {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pacing
}

// Apply runs the plan and reports how far it got.
func (e *Executor) Apply(ctx context.Context, plan *Plan) Result {
	result := Result{Total: plan.TotalOperationCount()}
	pacing := e.Pacing()

	phases := []struct {
		phase Phase
		count int
		delay time.Duration
		run   func(ctx context.Context, i int) error
	}{
		{PhaseNotify, len(plan.runUpdates), pacing.NotificationDelay, func(ctx context.Context, i int) error {
			return e.notify(ctx, plan.runUpdates[i])
		}},
		{PhaseDeletePods, len(plan.stalePods), pacing.DeletionDelay, func(ctx context.Context, i int) error {
			return e.delete(ctx, plan.stalePods[i])
		}},
		{PhaseDeleteConfigMaps, len(plan.staleConfigMaps), pacing.DeletionDelay, func(ctx context.Context, i int) error {
			return e.delete(ctx, plan.staleConfigMaps[i])
		}},
	}

	for _, p := range phases {
		if p.count == 0 {
			continue
		}
		logging.Info("Executor", "Phase %s: %d operation(s)", p.phase, p.count)

		for i := 0; i < p.count; i++ {
			if i > 0 && p.delay > 0 {
				if err := e.wait(ctx, p.delay); err != nil {
					return e.fail(result, p.phase, err)
				}
			}
			if err := ctx.Err(); err != nil {
				return e.fail(result, p.phase, err)
			}
			if err := p.run(ctx, i); err != nil {
				return e.fail(result, p.phase, err)
			}
			result.Applied++
		}
	}

	result.Success = result.Applied == result.Total
	return result
}

func (e *Executor) notify(ctx context.Context, update api.RunUpdate) error {
	if err := e.notifier.Publish(ctx, update); err != nil {
		return fmt.Errorf("failed to publish update for run %s: %w", update.RunID, err)
	}
	logging.Info("Executor", "Published %s -> %s for run %s", update.CurrentState, update.NewState, update.RunID)
	if e.metrics != nil {
		e.metrics.RecordUpdatePublished(update.NewState)
	}
	return nil
}

func (e *Executor) delete(ctx context.Context, ref api.ResourceRef) error {
	existed, err := e.inventory.Delete(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	if existed {
		logging.Info("Executor", "Deleted %s", ref)
	} else {
		logging.Debug("Executor", "%s already gone", ref)
	}
	if e.metrics != nil {
		e.metrics.RecordResourceDeleted(ref.Kind)
	}
	return nil
}

func (e *Executor) fail(result Result, phase Phase, err error) Result {
	result.FailedPhase = phase
	result.Err = err
	result.Success = false
	logging.Error("Executor", err, "Phase %s aborted after %d/%d operation(s)", phase, result.Applied, result.Total)
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
