package config

import (
	"raccoon/internal/api"
)

const (
	// DefaultPort is the default port of the HTTP trigger surface.
	DefaultPort = 8080

	// DefaultRotationDays is the default retention window for both kinds.
	DefaultRotationDays = 30

	// DefaultClusterName names the implicit cluster when none is configured.
	DefaultClusterName = "default"

	// DefaultRunsNamespace is the namespace of the implicit cluster.
	DefaultRunsNamespace = "default"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() RaccoonConfig {
	return RaccoonConfig{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: DefaultPort,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Retention: api.RetentionPolicy{
			PodRotationDays:       DefaultRotationDays,
			ConfigMapRotationDays: DefaultRotationDays,
		},
		Pacing: PacingConfig{
			NotificationDelaySeconds: 1,
			DeletionDelaySeconds:     1,
		},
		RDPC: RDPCConfig{
			ActiveStates:   []api.RunState{api.RunStateRunning},
			PageSize:       20,
			TimeoutSeconds: 30,
		},
		Weblog: WeblogConfig{
			TimeoutSeconds: 30,
		},
		Kubernetes: KubernetesConfig{
			PodPrefixes:       []string{"wes-", "nf-"},
			ConfigMapPrefixes: []string{"nf-config-"},
			LogTailLines:      200,
		},
	}
}

// applyImplicitDefaults fills values that cannot be expressed as static
// defaults because an explicit YAML list replaces them wholesale.
func applyImplicitDefaults(cfg *RaccoonConfig) {
	if len(cfg.Kubernetes.Clusters) == 0 {
		cfg.Kubernetes.Clusters = []ClusterConfig{{
			Name:          DefaultClusterName,
			RunsNamespace: DefaultRunsNamespace,
		}}
	}
	for i := range cfg.Kubernetes.Clusters {
		if cfg.Kubernetes.Clusters[i].RunsNamespace == "" {
			cfg.Kubernetes.Clusters[i].RunsNamespace = DefaultRunsNamespace
		}
	}
}
