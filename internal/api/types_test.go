package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRunState(t *testing.T) {
	for state := range knownRunStates {
		t.Run(string(state), func(t *testing.T) {
			got, err := ParseRunState(string(state))
			require.NoError(t, err)
			assert.Equal(t, state, got)
			assert.Equal(t, string(state), got.WireValue())
		})
	}

	_, err := ParseRunState("running")
	assert.Error(t, err, "parsing is case sensitive")

	_, err = ParseRunState("")
	assert.Error(t, err)
}

func TestRunState_UnmarshalYAML(t *testing.T) {
	var states []RunState
	require.NoError(t, yaml.Unmarshal([]byte("[RUNNING, QUEUED]"), &states))
	assert.Equal(t, []RunState{RunStateRunning, RunStateQueued}, states)

	assert.Error(t, yaml.Unmarshal([]byte("[BOGUS]"), &states))
}

func TestResourceRef_String(t *testing.T) {
	assert.Equal(t, "Pod/cumulus/wes-1", ResourceRef{Kind: ResourceKindPod, Cluster: "cumulus", ID: "wes-1"}.String())
	assert.Equal(t, "ConfigMap/nf-config-1", ResourceRef{Kind: ResourceKindConfigMap, ID: "nf-config-1"}.String())
}

func TestResourceRecord_Logs(t *testing.T) {
	ctx := context.Background()

	t.Run("snippet without loader", func(t *testing.T) {
		r := ResourceRecord{LogSnippet: "cached"}
		assert.Equal(t, "cached", r.Logs(ctx))
	})

	t.Run("loader result", func(t *testing.T) {
		r := ResourceRecord{LogSnippet: "cached", LogLoader: func(context.Context) (string, error) {
			return "fresh", nil
		}}
		assert.Equal(t, "fresh", r.Logs(ctx))
	})

	t.Run("loader failure falls back", func(t *testing.T) {
		r := ResourceRecord{LogSnippet: "cached", LogLoader: func(context.Context) (string, error) {
			return "", errors.New("stream closed")
		}}
		assert.Equal(t, "cached", r.Logs(ctx))
	})
}

func TestRetentionPolicy_RotationDays(t *testing.T) {
	p := RetentionPolicy{PodRotationDays: 30, ConfigMapRotationDays: -1}

	assert.Equal(t, 30, p.RotationDays(ResourceKindPod))
	assert.Equal(t, -1, p.RotationDays(ResourceKindConfigMap))
	assert.Equal(t, -1, p.RotationDays(ResourceKind("Secret")))
}
