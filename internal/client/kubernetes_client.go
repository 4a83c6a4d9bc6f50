package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

// Default name prefixes of run resources.
var (
	DefaultPodPrefixes       = []string{"wes-", "nf-"}
	DefaultConfigMapPrefixes = []string{"nf-config-"}
)

// DefaultLogTailLines is the number of log lines fetched for a diverged pod.
const DefaultLogTailLines int64 = 200

// InventoryOptions configures a KubernetesInventory.
type InventoryOptions struct {
	// Cluster is the name recorded in every ResourceRef.
	Cluster string

	// Namespace holds the run pods and ConfigMaps.
	Namespace string

	// PodPrefixes and ConfigMapPrefixes select run resources by name.
	PodPrefixes       []string
	ConfigMapPrefixes []string

	// LogTailLines limits fetched pod logs; 0 uses DefaultLogTailLines.
	LogTailLines int64
}

// KubernetesInventory lists and deletes run resources in one namespace of
// one cluster. It implements api.ResourceInventory.
//
// Listing and deletion go through the controller-runtime client. Pod logs
// need the log subresource stream, so they are read through a client-go
// clientset, and only when a diverged pod's logs are actually requested.
type KubernetesInventory struct {
	client  client.Client
	logs    kubernetes.Interface
	options InventoryOptions
}

// NewKubernetesInventory creates an inventory from existing clients.
func NewKubernetesInventory(c client.Client, logs kubernetes.Interface, options InventoryOptions) *KubernetesInventory {
	if options.PodPrefixes == nil {
		options.PodPrefixes = DefaultPodPrefixes
	}
	if options.ConfigMapPrefixes == nil {
		options.ConfigMapPrefixes = DefaultConfigMapPrefixes
	}
	if options.LogTailLines == 0 {
		options.LogTailLines = DefaultLogTailLines
	}
	return &KubernetesInventory{client: c, logs: logs, options: options}
}

// NewKubernetesInventoryForConfig builds the clients for restConfig and
// returns an inventory over them.
func NewKubernetesInventoryForConfig(restConfig *rest.Config, options InventoryOptions) (*KubernetesInventory, error) {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	k8sClient, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client for cluster %s: %w", options.Cluster, err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset for cluster %s: %w", options.Cluster, err)
	}

	return NewKubernetesInventory(k8sClient, clientset, options), nil
}

// Cluster returns the cluster name of this inventory.
func (k *KubernetesInventory) Cluster() string {
	return k.options.Cluster
}

// ListResources lists the run resources of kind.
func (k *KubernetesInventory) ListResources(ctx context.Context, kind api.ResourceKind) ([]api.ResourceRecord, error) {
	switch kind {
	case api.ResourceKindPod:
		return k.listPods(ctx)
	case api.ResourceKindConfigMap:
		return k.listConfigMaps(ctx)
	default:
		return nil, fmt.Errorf("unsupported resource kind %q", kind)
	}
}

func (k *KubernetesInventory) listPods(ctx context.Context) ([]api.ResourceRecord, error) {
	podList := &corev1.PodList{}
	if err := k.client.List(ctx, podList, client.InNamespace(k.options.Namespace)); err != nil {
		return nil, fmt.Errorf("failed to list pods in %s/%s: %w", k.options.Cluster, k.options.Namespace, err)
	}

	var records []api.ResourceRecord
	for i := range podList.Items {
		pod := &podList.Items[i]
		if !hasAnyPrefix(pod.Name, k.options.PodPrefixes) {
			continue
		}
		records = append(records, api.ResourceRecord{
			ResourceRef: k.ref(api.ResourceKindPod, pod.Name),
			State:       PodRunState(pod.Status.Phase),
			Age:         podAge(pod),
			LogLoader:   k.logLoader(pod.Name),
		})
	}

	logging.Debug("Inventory", "Cluster %s: %d run pod(s) of %d", k.options.Cluster, len(records), len(podList.Items))
	return records, nil
}

func (k *KubernetesInventory) listConfigMaps(ctx context.Context) ([]api.ResourceRecord, error) {
	configMapList := &corev1.ConfigMapList{}
	if err := k.client.List(ctx, configMapList, client.InNamespace(k.options.Namespace)); err != nil {
		return nil, fmt.Errorf("failed to list config maps in %s/%s: %w", k.options.Cluster, k.options.Namespace, err)
	}

	var records []api.ResourceRecord
	for i := range configMapList.Items {
		cm := &configMapList.Items[i]
		if !hasAnyPrefix(cm.Name, k.options.ConfigMapPrefixes) {
			continue
		}
		records = append(records, api.ResourceRecord{
			ResourceRef: k.ref(api.ResourceKindConfigMap, cm.Name),
			Age:         cm.CreationTimestamp.Time,
		})
	}

	logging.Debug("Inventory", "Cluster %s: %d run config map(s) of %d", k.options.Cluster, len(records), len(configMapList.Items))
	return records, nil
}

// Delete removes the resource. It returns false, without error, when the
// resource was already gone.
func (k *KubernetesInventory) Delete(ctx context.Context, ref api.ResourceRef) (bool, error) {
	meta := metav1.ObjectMeta{Name: ref.ID, Namespace: k.options.Namespace}

	var obj client.Object
	switch ref.Kind {
	case api.ResourceKindPod:
		obj = &corev1.Pod{ObjectMeta: meta}
	case api.ResourceKindConfigMap:
		obj = &corev1.ConfigMap{ObjectMeta: meta}
	default:
		return false, fmt.Errorf("unsupported resource kind %q", ref.Kind)
	}

	logging.Debug("Inventory", "Deleting %s", ref)
	if err := k.client.Delete(ctx, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	return true, nil
}

func (k *KubernetesInventory) ref(kind api.ResourceKind, name string) api.ResourceRef {
	return api.ResourceRef{Kind: kind, Cluster: k.options.Cluster, ID: name}
}

func (k *KubernetesInventory) logLoader(podName string) func(context.Context) (string, error) {
	if k.logs == nil {
		return nil
	}
	tail := k.options.LogTailLines
	namespace := k.options.Namespace
	return func(ctx context.Context) (string, error) {
		raw, err := k.logs.CoreV1().Pods(namespace).GetLogs(podName, &corev1.PodLogOptions{TailLines: &tail}).DoRaw(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to fetch logs of pod %s: %w", podName, err)
		}
		return string(raw), nil
	}
}

// PodRunState maps a pod phase onto a run state. Pending and unknown
// phases are reported as SYSTEM_ERROR.
func PodRunState(phase corev1.PodPhase) api.RunState {
	switch phase {
	case corev1.PodRunning:
		return api.RunStateRunning
	case corev1.PodFailed:
		return api.RunStateExecutorError
	case corev1.PodSucceeded:
		return api.RunStateComplete
	default:
		return api.RunStateSystemError
	}
}

// podAge is the pod's start time, or its creation time before it started.
func podAge(pod *corev1.Pod) time.Time {
	if pod.Status.StartTime != nil {
		return pod.Status.StartTime.Time
	}
	return pod.CreationTimestamp.Time
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
