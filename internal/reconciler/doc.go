// Package reconciler computes and applies cleanup passes for workflow runs.
//
// # Overview
//
// A pass compares the run registry's view of active runs with the run pods
// found in the clusters, and selects run pods and ConfigMaps older than the
// retention window. The result is an immutable Plan that is either reported
// (dry run) or applied by the Executor.
//
// # Architecture
//
//   - Reconciler: classifies each active run as converged, diverged or orphaned
//   - SelectStale: generic age filter used for both resource kinds
//   - Plan: the ordered actions of one pass and their total count
//   - Executor: applies a Plan in three serial, paced phases
//   - Manager: gathers state concurrently, builds plans, runs passes in the
//     background and on an optional cron schedule
//
// # Usage
//
//	manager := reconciler.NewManager(reconciler.Dependencies{
//	    Registry:  rdpcClient,
//	    Inventory: clusters,
//	    Publisher: publisher,
//	}, reconciler.ManagerConfig{Retention: policy})
//	summary, err := manager.DryRun(ctx)
//
// # Failure Semantics
//
// Phases run in the order notifications, pod deletions, ConfigMap deletions.
// The first failing operation aborts the rest of the pass and nothing is
// rolled back. Deleting a resource that is already gone counts as applied.
// Duplicate resource ids in one pass are an invariant violation and abort
// the pass before any side effect.
package reconciler
