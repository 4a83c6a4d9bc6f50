package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	kubefake "k8s.io/client-go/kubernetes/fake"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	"raccoon/internal/api"
)

const testNamespace = "workflows"

var (
	created = time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	started = time.Date(2024, 4, 1, 8, 5, 0, 0, time.UTC)
)

func newPod(name string, phase corev1.PodPhase, startTime *time.Time) *corev1.Pod {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         testNamespace,
			CreationTimestamp: metav1.NewTime(created),
		},
		Status: corev1.PodStatus{Phase: phase},
	}
	if startTime != nil {
		st := metav1.NewTime(*startTime)
		pod.Status.StartTime = &st
	}
	return pod
}

func newConfigMap(name string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         testNamespace,
			CreationTimestamp: metav1.NewTime(created),
		},
	}
}

func newTestInventory(t *testing.T, funcs *interceptor.Funcs, objs ...client.Object) *KubernetesInventory {
	t.Helper()

	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))

	builder := fake.NewClientBuilder().WithScheme(scheme).WithObjects(objs...)
	if funcs != nil {
		builder = builder.WithInterceptorFuncs(*funcs)
	}

	return NewKubernetesInventory(builder.Build(), kubefake.NewClientset(), InventoryOptions{
		Cluster:   "cumulus",
		Namespace: testNamespace,
	})
}

func TestKubernetesInventory_ListPods(t *testing.T) {
	inv := newTestInventory(t, nil,
		newPod("wes-1", corev1.PodRunning, &started),
		newPod("nf-2", corev1.PodFailed, &started),
		newPod("wes-3", corev1.PodPending, nil),
		newPod("unrelated", corev1.PodRunning, &started),
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "wes-other-ns", Namespace: "default"}},
	)

	records, err := inv.ListResources(context.Background(), api.ResourceKindPod)
	require.NoError(t, err)

	byID := make(map[string]api.ResourceRecord)
	for _, r := range records {
		byID[r.ID] = r
	}
	require.Len(t, byID, 3)

	assert.Equal(t, api.RunStateRunning, byID["wes-1"].State)
	assert.Equal(t, api.RunStateExecutorError, byID["nf-2"].State)
	assert.Equal(t, api.RunStateSystemError, byID["wes-3"].State)

	assert.True(t, byID["wes-1"].Age.Equal(started), "age should be the start time")
	assert.True(t, byID["wes-3"].Age.Equal(created), "unstarted pod should fall back to creation time")

	assert.Equal(t, api.ResourceKindPod, byID["wes-1"].Kind)
	assert.Equal(t, "cumulus", byID["wes-1"].Cluster)
	assert.NotNil(t, byID["wes-1"].LogLoader)
}

func TestKubernetesInventory_LazyLogs(t *testing.T) {
	inv := newTestInventory(t, nil, newPod("wes-1", corev1.PodFailed, &started))

	records, err := inv.ListResources(context.Background(), api.ResourceKindPod)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// The fake clientset serves a fixed body for every log request.
	assert.Equal(t, "fake logs", records[0].Logs(context.Background()))
}

func TestKubernetesInventory_ListConfigMaps(t *testing.T) {
	inv := newTestInventory(t, nil,
		newConfigMap("nf-config-1"),
		newConfigMap("kube-root-ca.crt"),
		newConfigMap("nf-other"),
	)

	records, err := inv.ListResources(context.Background(), api.ResourceKindConfigMap)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "nf-config-1", records[0].ID)
	assert.Equal(t, api.ResourceKindConfigMap, records[0].Kind)
	assert.True(t, records[0].Age.Equal(created))
}

func TestKubernetesInventory_ListError(t *testing.T) {
	inv := newTestInventory(t, &interceptor.Funcs{
		List: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) error {
			return errors.New("apiserver unavailable")
		},
	})

	_, err := inv.ListResources(context.Background(), api.ResourceKindPod)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiserver unavailable")
}

func TestKubernetesInventory_UnsupportedKind(t *testing.T) {
	inv := newTestInventory(t, nil)

	_, err := inv.ListResources(context.Background(), api.ResourceKind("Secret"))
	assert.Error(t, err)
}

func TestKubernetesInventory_Delete(t *testing.T) {
	inv := newTestInventory(t, nil, newPod("wes-1", corev1.PodSucceeded, &started), newConfigMap("nf-config-1"))
	ctx := context.Background()

	deleted, err := inv.Delete(ctx, api.ResourceRef{Kind: api.ResourceKindPod, Cluster: "cumulus", ID: "wes-1"})
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = inv.Delete(ctx, api.ResourceRef{Kind: api.ResourceKindConfigMap, Cluster: "cumulus", ID: "nf-config-1"})
	require.NoError(t, err)
	assert.True(t, deleted)

	records, err := inv.ListResources(ctx, api.ResourceKindPod)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestKubernetesInventory_DeleteMissingIsNotAnError(t *testing.T) {
	inv := newTestInventory(t, nil)

	deleted, err := inv.Delete(context.Background(), api.ResourceRef{Kind: api.ResourceKindPod, Cluster: "cumulus", ID: "wes-gone"})
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestKubernetesInventory_DeleteError(t *testing.T) {
	inv := newTestInventory(t, &interceptor.Funcs{
		Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
			return errors.New("forbidden")
		},
	}, newPod("wes-1", corev1.PodSucceeded, &started))

	deleted, err := inv.Delete(context.Background(), api.ResourceRef{Kind: api.ResourceKindPod, Cluster: "cumulus", ID: "wes-1"})
	require.Error(t, err)
	assert.False(t, deleted)
}

func TestPodRunState(t *testing.T) {
	tests := []struct {
		phase corev1.PodPhase
		want  api.RunState
	}{
		{corev1.PodRunning, api.RunStateRunning},
		{corev1.PodFailed, api.RunStateExecutorError},
		{corev1.PodSucceeded, api.RunStateComplete},
		{corev1.PodPending, api.RunStateSystemError},
		{corev1.PodUnknown, api.RunStateSystemError},
		{"", api.RunStateSystemError},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.want, PodRunState(tt.phase))
		})
	}
}

func TestNewKubernetesInventory_Defaults(t *testing.T) {
	inv := NewKubernetesInventory(nil, nil, InventoryOptions{Cluster: "c"})

	assert.Equal(t, DefaultPodPrefixes, inv.options.PodPrefixes)
	assert.Equal(t, DefaultConfigMapPrefixes, inv.options.ConfigMapPrefixes)
	assert.Equal(t, DefaultLogTailLines, inv.options.LogTailLines)
	assert.Equal(t, "c", inv.Cluster())
}
