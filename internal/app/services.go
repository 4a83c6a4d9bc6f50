package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"raccoon/internal/api"
	"raccoon/internal/client"
	"raccoon/internal/config"
	"raccoon/internal/events"
	"raccoon/internal/reconciler"
	"raccoon/pkg/logging"
)

// Services holds the collaborators and the pass manager built from the
// configuration.
type Services struct {
	Registry  api.RunRegistry
	Inventory api.ResourceInventory
	Publisher api.EventPublisher

	// MetricsRegistry backs GET /metrics.
	MetricsRegistry *prometheus.Registry
	Metrics         *reconciler.ReconcilerMetrics

	Manager *reconciler.Manager
}

// newClusterInventory builds the inventory of one cluster. Replaced in tests.
var newClusterInventory = func(cluster config.ClusterConfig, k8s config.KubernetesConfig) (api.ResourceInventory, error) {
	restConfig, err := client.RestConfig(client.ClusterConnection{
		Name:             cluster.Name,
		Kubeconfig:       cluster.Kubeconfig,
		Context:          cluster.Context,
		MasterURL:        cluster.MasterURL,
		TrustCertificate: cluster.TrustCertificate,
	})
	if err != nil {
		return nil, err
	}
	return client.NewKubernetesInventoryForConfig(restConfig, client.InventoryOptions{
		Cluster:           cluster.Name,
		Namespace:         cluster.RunsNamespace,
		PodPrefixes:       k8s.PodPrefixes,
		ConfigMapPrefixes: k8s.ConfigMapPrefixes,
		LogTailLines:      k8s.LogTailLines,
	})
}

// InitializeServices creates every collaborator client and wires them into a
// pass manager.
//
// Initialization Sequence:
//  1. RDPC client (OAuth2 client credentials when a token URL is set)
//  2. One Kubernetes inventory per configured cluster, joined in a ClusterSet
//  3. Weblog sink and event publisher
//  4. Prometheus registry and reconciler metrics
//  5. Pass manager
func InitializeServices(ctx context.Context, cfg *config.RaccoonConfig) (*Services, error) {
	registry := client.NewRDPCClient(ctx, client.RDPCOptions{
		URL:          cfg.RDPC.URL,
		TokenURL:     cfg.RDPC.TokenURL,
		ClientID:     cfg.RDPC.ClientID,
		ClientSecret: cfg.RDPC.ClientSecret,
		ActiveStates: cfg.RDPC.ActiveStates,
		PageSize:     cfg.RDPC.PageSize,
		Timeout:      cfg.RDPC.Timeout(),
	})
	logging.Info("Bootstrap", "Run registry at %s (states %v)", cfg.RDPC.URL, cfg.RDPC.ActiveStates)

	clusters := client.NewClusterSet()
	for _, cluster := range cfg.Kubernetes.Clusters {
		inv, err := newClusterInventory(cluster, cfg.Kubernetes)
		if err != nil {
			return nil, fmt.Errorf("failed to set up cluster %s: %w", cluster.Name, err)
		}
		if err := clusters.Add(cluster.Name, inv); err != nil {
			return nil, err
		}
	}

	var publisher api.EventPublisher = unconfiguredPublisher{}
	if cfg.Weblog.URL != "" {
		sink := events.NewHTTPSink(cfg.Weblog.URL, &http.Client{Timeout: cfg.Weblog.Timeout()})
		publisher = events.NewPublisher(sink, nil)
		logging.Info("Bootstrap", "Publishing run updates to %s", cfg.Weblog.URL)
	}

	return newServices(cfg, registry, clusters, publisher), nil
}

// newServices wires already built collaborators.
func newServices(cfg *config.RaccoonConfig, registry api.RunRegistry, inventory api.ResourceInventory, publisher api.EventPublisher) *Services {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := reconciler.NewReconcilerMetrics(promRegistry)

	manager := reconciler.NewManager(reconciler.Dependencies{
		Registry:  registry,
		Inventory: inventory,
		Publisher: publisher,
		Metrics:   metrics,
	}, reconciler.ManagerConfig{
		Retention: cfg.Retention,
		Pacing:    pacingFrom(*cfg),
		Schedule:  cfg.Schedule,
	})

	return &Services{
		Registry:        registry,
		Inventory:       inventory,
		Publisher:       publisher,
		MetricsRegistry: promRegistry,
		Metrics:         metrics,
		Manager:         manager,
	}
}

func pacingFrom(cfg config.RaccoonConfig) reconciler.Pacing {
	return reconciler.Pacing{
		NotificationDelay: cfg.Pacing.NotificationDelay(),
		DeletionDelay:     cfg.Pacing.DeletionDelay(),
	}
}

var errWeblogNotConfigured = errors.New("weblog.url is not configured")

// unconfiguredPublisher stands in for the sink in read-only modes.
type unconfiguredPublisher struct{}

func (unconfiguredPublisher) Publish(ctx context.Context, update api.RunUpdate) error {
	return errWeblogNotConfigured
}
