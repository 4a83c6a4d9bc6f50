package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

// ManagerConfig holds the tunable settings of the pass manager.
type ManagerConfig struct {
	// Retention is the rotation policy applied to each resource kind.
	Retention api.RetentionPolicy

	// Pacing is the delay between consecutive operations of a phase.
	Pacing Pacing

	// Schedule is an optional five-field cron expression. When set, Start
	// triggers a full pass on every tick.
	Schedule string
}

// Dependencies are the collaborator handles a Manager drives.
type Dependencies struct {
	Registry  api.RunRegistry
	Inventory api.ResourceInventory
	Publisher api.EventPublisher

	// Clock defaults to the system clock.
	Clock Clock

	// Metrics may be nil.
	Metrics *ReconcilerMetrics
}

// Manager coordinates reconciliation passes.
//
// It manages:
//   - State gathering from the run registry and the resource inventory
//   - Plan computation for dry runs and full runs
//   - Background passes and their lifecycle
//   - The optional periodic schedule
type Manager struct {
	registry   api.RunRegistry
	inventory  api.ResourceInventory
	reconciler *Reconciler
	executor   *Executor
	metrics    *ReconcilerMetrics
	clock      Clock

	mu        sync.RWMutex
	retention api.RetentionPolicy
	schedule  string
	cron      *cron.Cron

	// ctx is the lifetime of background passes; Stop cancels it.
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	newPassID func() string
}

// NewManager creates a pass manager.
func NewManager(deps Dependencies, config ManagerConfig) *Manager {
	clock := deps.Clock
	if clock == nil {
		clock = RealClock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		registry:   deps.Registry,
		inventory:  deps.Inventory,
		reconciler: NewReconciler(clock),
		executor:   NewExecutor(deps.Publisher, deps.Inventory, config.Pacing, deps.Metrics),
		metrics:    deps.Metrics,
		clock:      clock,
		retention:  config.Retention,
		schedule:   config.Schedule,
		ctx:        ctx,
		cancelFunc: cancel,
		newPassID:  uuid.NewString,
	}
}

// UpdateSettings swaps the retention policy and pacing used by later passes.
// A pass already running keeps the settings it started with.
func (m *Manager) UpdateSettings(retention api.RetentionPolicy, pacing Pacing) {
	m.mu.Lock()
	m.retention = retention
	m.mu.Unlock()
	m.executor.SetPacing(pacing)

	logging.Info("Reconciler", "Settings updated: pod rotation %d day(s), ConfigMap rotation %d day(s), delays %s/%s",
		retention.PodRotationDays, retention.ConfigMapRotationDays, pacing.NotificationDelay, pacing.DeletionDelay)
}

// Retention returns the current retention policy.
func (m *Manager) Retention() api.RetentionPolicy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.retention
}

// gather reads the run registry and both resource kinds concurrently.
func (m *Manager) gather(ctx context.Context) (PlanInput, error) {
	in := PlanInput{Retention: m.Retention()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		runs, err := m.registry.ListActiveRuns(gctx)
		if err != nil {
			return fmt.Errorf("failed to list active runs: %w", err)
		}
		in.ActiveRuns = runs
		return nil
	})
	g.Go(func() error {
		pods, err := m.inventory.ListResources(gctx, api.ResourceKindPod)
		if err != nil {
			return fmt.Errorf("failed to list pods: %w", err)
		}
		in.Pods = pods
		return nil
	})
	g.Go(func() error {
		configMaps, err := m.inventory.ListResources(gctx, api.ResourceKindConfigMap)
		if err != nil {
			return fmt.Errorf("failed to list config maps: %w", err)
		}
		in.ConfigMaps = configMaps
		return nil
	})

	if err := g.Wait(); err != nil {
		return PlanInput{}, err
	}
	return in, nil
}

// Plan gathers the current state and computes the plan without applying it.
func (m *Manager) Plan(ctx context.Context) (*Plan, error) {
	in, err := m.gather(ctx)
	if err != nil {
		return nil, err
	}

	logging.Debug("Reconciler", "Gathered %d active run(s), %d pod(s), %d config map(s)",
		len(in.ActiveRuns), len(in.Pods), len(in.ConfigMaps))

	plan, err := BuildPlan(ctx, m.reconciler, in)
	if err != nil {
		if api.IsInvariantViolation(err) {
			logging.Error("Reconciler", err, "Refusing to build plan")
		}
		return nil, err
	}
	return plan, nil
}

// DryRun computes the plan and returns its counts. It never publishes or
// deletes anything.
func (m *Manager) DryRun(ctx context.Context) (DryRunSummary, error) {
	plan, err := m.Plan(ctx)
	if m.metrics != nil {
		m.metrics.RecordDryRun(err == nil)
	}
	if err != nil {
		return DryRunSummary{}, err
	}

	summary := plan.Summary()
	logging.Info("Reconciler", "Dry run: %d stuck run(s), %d pod(s) and %d config map(s) to clean up",
		summary.NumJobsStuck, summary.NumPodsToCleanup, summary.NumConfigMapsToCleanup)
	return summary, nil
}

// Run performs one full pass: gather, plan and apply. The returned error is
// set only when the plan could not be built; failures while applying are
// reported in the Result.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	return m.run(ctx, m.newPassID())
}

func (m *Manager) run(ctx context.Context, passID string) (Result, error) {
	start := time.Now()
	logging.Info("Reconciler", "Pass %s started", passID)

	plan, err := m.Plan(ctx)
	if err != nil {
		result := Result{Err: err}
		m.recordPass(result, start)
		logging.Error("Reconciler", err, "Pass %s aborted before applying", passID)
		return result, err
	}

	result := m.executor.Apply(ctx, plan)
	m.recordPass(result, start)

	if result.Success {
		logging.Info("Reconciler", "Pass %s finished: %d/%d operation(s) applied in %s",
			passID, result.Applied, result.Total, time.Since(start).Round(time.Millisecond))
	} else {
		logging.Error("Reconciler", result.Err, "Pass %s failed in phase %s: %d/%d operation(s) applied",
			passID, result.FailedPhase, result.Applied, result.Total)
	}
	return result, nil
}

func (m *Manager) recordPass(result Result, start time.Time) {
	if m.metrics != nil {
		m.metrics.RecordPass(result, time.Since(start))
	}
}

// RunAsync starts a full pass in the background and returns its id
// immediately. Concurrent passes are not excluded. The pass is bound to the
// manager's lifetime, not to the caller's context.
func (m *Manager) RunAsync() string {
	passID := m.newPassID()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		_, _ = m.run(m.ctx, passID)
	}()

	return passID
}

// Start installs the periodic schedule, if one is configured.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schedule == "" || m.cron != nil {
		return nil
	}

	c := cron.New(cron.WithParser(scheduleParser))
	if _, err := c.AddFunc(m.schedule, func() {
		passID := m.RunAsync()
		logging.Debug("Reconciler", "Scheduled pass %s triggered", passID)
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", m.schedule, err)
	}
	c.Start()
	m.cron = c

	logging.Info("Reconciler", "Scheduled passes on %q", m.schedule)
	return nil
}

// Stop halts the schedule, cancels background passes and waits for them.
func (m *Manager) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}

	m.cancelFunc()
	m.wg.Wait()
	logging.Info("Reconciler", "Pass manager stopped")
}

// Wait blocks until all background passes have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Metrics returns the metrics instance, which may be nil.
func (m *Manager) Metrics() *ReconcilerMetrics {
	return m.metrics
}
