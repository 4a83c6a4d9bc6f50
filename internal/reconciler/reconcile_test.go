package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raccoon/internal/api"
	"raccoon/internal/testing/mock"
)

func TestReconcile_Classification(t *testing.T) {
	clock := mock.NewMockClock(testNow)
	started := testNow.Add(-72 * time.Hour)

	tests := []struct {
		name    string
		runs    []api.ActiveRun
		pods    []api.ResourceRecord
		want    []api.RunUpdate
		wantLen int
	}{
		{
			name: "orphaned run becomes system error with empty logs",
			runs: []api.ActiveRun{{RunID: "wes-1", State: api.RunStateRunning, WorkflowURL: "repo", StartTime: timePtr(started)}},
			want: []api.RunUpdate{{
				RunID:        "wes-1",
				CurrentState: api.RunStateRunning,
				NewState:     api.RunStateSystemError,
				WorkflowURL:  "repo",
				StartTime:    started,
				CompleteTime: testNow,
			}},
		},
		{
			name: "converged run produces nothing",
			runs: []api.ActiveRun{{RunID: "wes-1", State: api.RunStateRunning}},
			pods: []api.ResourceRecord{pod("wes-1", api.RunStateRunning, started)},
			want: nil,
		},
		{
			name: "diverged run takes pod state and logs",
			runs: []api.ActiveRun{{RunID: "wes-1", State: api.RunStateRunning, SessionID: strPtr("s-1")}},
			pods: []api.ResourceRecord{func() api.ResourceRecord {
				p := pod("wes-1", api.RunStateExecutorError, started)
				p.LogSnippet = "boom"
				return p
			}()},
			want: []api.RunUpdate{{
				RunID:        "wes-1",
				CurrentState: api.RunStateRunning,
				NewState:     api.RunStateExecutorError,
				SessionID:    strPtr("s-1"),
				StartTime:    started,
				CompleteTime: testNow,
				Logs:         "boom",
			}},
		},
		{
			name: "orphaned run without start time uses now",
			runs: []api.ActiveRun{{RunID: "nf-9", State: api.RunStateQueued}},
			want: []api.RunUpdate{{
				RunID:        "nf-9",
				CurrentState: api.RunStateQueued,
				NewState:     api.RunStateSystemError,
				StartTime:    testNow,
				CompleteTime: testNow,
			}},
		},
		{
			name: "pods without runs are ignored",
			pods: []api.ResourceRecord{pod("wes-2", api.RunStateComplete, started)},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReconciler(clock)
			got, err := r.Reconcile(context.Background(), tt.runs, tt.pods)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_PreservesRunOrder(t *testing.T) {
	r := NewReconciler(mock.NewMockClock(testNow))
	runs := []api.ActiveRun{
		{RunID: "c", State: api.RunStateRunning},
		{RunID: "a", State: api.RunStateRunning},
		{RunID: "b", State: api.RunStateRunning},
	}

	got, err := r.Reconcile(context.Background(), runs, []api.ResourceRecord{
		pod("a", api.RunStateComplete, testNow),
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].RunID)
	assert.Equal(t, "a", got[1].RunID)
	assert.Equal(t, api.RunStateComplete, got[1].NewState)
	assert.Equal(t, "b", got[2].RunID)
}

func TestReconcile_DuplicatePodIDs(t *testing.T) {
	r := NewReconciler(mock.NewMockClock(testNow))
	pods := []api.ResourceRecord{
		pod("wes-1", api.RunStateRunning, testNow),
		pod("wes-1", api.RunStateComplete, testNow),
	}

	got, err := r.Reconcile(context.Background(), []api.ActiveRun{{RunID: "wes-1", State: api.RunStateRunning}}, pods)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, api.IsInvariantViolation(err))
}

func TestReconcile_LazyLogs(t *testing.T) {
	r := NewReconciler(mock.NewMockClock(testNow))

	loads := 0
	diverged := pod("wes-1", api.RunStateExecutorError, testNow)
	diverged.LogLoader = func(ctx context.Context) (string, error) {
		loads++
		return "tail of log", nil
	}
	converged := pod("wes-2", api.RunStateRunning, testNow)
	converged.LogLoader = func(ctx context.Context) (string, error) {
		loads++
		return "", nil
	}

	got, err := r.Reconcile(context.Background(), []api.ActiveRun{
		{RunID: "wes-1", State: api.RunStateRunning},
		{RunID: "wes-2", State: api.RunStateRunning},
	}, []api.ResourceRecord{diverged, converged})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tail of log", got[0].Logs)
	assert.Equal(t, 1, loads, "only diverged pods should load logs")
}

func TestReconcile_LogLoadFailureFallsBackToSnippet(t *testing.T) {
	r := NewReconciler(mock.NewMockClock(testNow))

	p := pod("wes-1", api.RunStateExecutorError, testNow)
	p.LogSnippet = "cached"
	p.LogLoader = func(ctx context.Context) (string, error) {
		return "", errors.New("log stream closed")
	}

	got, err := r.Reconcile(context.Background(), []api.ActiveRun{{RunID: "wes-1", State: api.RunStateRunning}}, []api.ResourceRecord{p})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cached", got[0].Logs)
}
