package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	ctrl "sigs.k8s.io/controller-runtime"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

// ClusterConnection describes how to reach one cluster.
type ClusterConnection struct {
	Name string

	// Kubeconfig is an explicit kubeconfig path. Empty uses the default
	// loading rules when Context is set.
	Kubeconfig string

	// Context selects a kubeconfig context.
	Context string

	// MasterURL is the API server address. It overrides the kubeconfig
	// server when both are set.
	MasterURL string

	// TrustCertificate skips TLS verification of the API server.
	TrustCertificate bool
}

// RestConfig resolves the REST configuration for conn.
//
// With a kubeconfig path or context the kubeconfig is loaded. With only a
// master URL a bare configuration for that address is returned. With
// neither, controller-runtime's standard lookup is used (flags, env,
// in-cluster, home kubeconfig).
func RestConfig(conn ClusterConnection) (*rest.Config, error) {
	var (
		cfg *rest.Config
		err error
	)

	switch {
	case conn.Kubeconfig != "" || conn.Context != "":
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		if conn.Kubeconfig != "" {
			rules.ExplicitPath = conn.Kubeconfig
		}
		overrides := &clientcmd.ConfigOverrides{CurrentContext: conn.Context}
		if conn.MasterURL != "" {
			overrides.ClusterInfo.Server = conn.MasterURL
		}
		cfg, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	case conn.MasterURL != "":
		cfg = &rest.Config{Host: conn.MasterURL}
	default:
		cfg, err = ctrl.GetConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Kubernetes config for cluster %s: %w", conn.Name, err)
	}

	if conn.TrustCertificate {
		cfg = rest.CopyConfig(cfg)
		cfg.Insecure = true
		cfg.CAData = nil
		cfg.CAFile = ""
	}
	return cfg, nil
}

// ClusterSet is the union of several cluster inventories. Listings are
// concatenated in registration order; deletions are routed to the cluster
// named in the ResourceRef. It implements api.ResourceInventory.
type ClusterSet struct {
	mu      sync.RWMutex
	order   []string
	members map[string]api.ResourceInventory
}

// NewClusterSet creates an empty set.
func NewClusterSet() *ClusterSet {
	return &ClusterSet{members: make(map[string]api.ResourceInventory)}
}

// Add registers inv under name.
func (s *ClusterSet) Add(name string, inv api.ResourceInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[name]; exists {
		return fmt.Errorf("cluster %s already registered", name)
	}
	s.members[name] = inv
	s.order = append(s.order, name)
	logging.Info("Inventory", "Registered cluster %s", name)
	return nil
}

// Names returns the registered cluster names in registration order.
func (s *ClusterSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// ListResources lists kind on every cluster concurrently and returns the
// union. Any cluster failure fails the listing.
func (s *ClusterSet) ListResources(ctx context.Context, kind api.ResourceKind) ([]api.ResourceRecord, error) {
	s.mu.RLock()
	names := append([]string(nil), s.order...)
	members := make([]api.ResourceInventory, len(names))
	for i, name := range names {
		members[i] = s.members[name]
	}
	s.mu.RUnlock()

	results := make([][]api.ResourceRecord, len(members))
	g, gctx := errgroup.WithContext(ctx)
	for i, inv := range members {
		g.Go(func() error {
			records, err := inv.ListResources(gctx, kind)
			if err != nil {
				return fmt.Errorf("cluster %s: %w", names[i], err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var union []api.ResourceRecord
	for _, records := range results {
		union = append(union, records...)
	}
	return union, nil
}

// Delete routes the deletion to the owning cluster.
func (s *ClusterSet) Delete(ctx context.Context, ref api.ResourceRef) (bool, error) {
	s.mu.RLock()
	inv, ok := s.members[ref.Cluster]
	s.mu.RUnlock()

	if !ok {
		return false, api.NewClusterNotFoundError(ref.Cluster)
	}
	return inv.Delete(ctx, ref)
}
