package config

import (
	"time"

	"raccoon/internal/api"
)

// RaccoonConfig is the top-level configuration structure for raccoon.
type RaccoonConfig struct {
	Server     ServerConfig        `yaml:"server"`
	Logging    LoggingConfig       `yaml:"logging"`
	Retention  api.RetentionPolicy `yaml:"retention"`
	Pacing     PacingConfig        `yaml:"pacing"`
	Schedule   string              `yaml:"schedule,omitempty"` // Optional cron expression for periodic passes in serve mode
	RDPC       RDPCConfig          `yaml:"rdpc"`
	Weblog     WeblogConfig        `yaml:"weblog"`
	Kubernetes KubernetesConfig    `yaml:"kubernetes"`
}

// ServerConfig defines the HTTP trigger surface.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"` // Host to bind to (default: 0.0.0.0)
	Port int    `yaml:"port,omitempty"` // Port to listen on (default: 8080)
}

// LoggingConfig defines log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn or error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}

// PacingConfig holds the delays between consecutive operations of a phase.
type PacingConfig struct {
	NotificationDelaySeconds float64 `yaml:"notificationDelaySeconds"`
	DeletionDelaySeconds     float64 `yaml:"deletionDelaySeconds"`
}

// NotificationDelay returns the delay between two published updates.
func (p PacingConfig) NotificationDelay() time.Duration {
	return seconds(p.NotificationDelaySeconds)
}

// DeletionDelay returns the delay between two deletions.
func (p PacingConfig) DeletionDelay() time.Duration {
	return seconds(p.DeletionDelaySeconds)
}

// RDPCConfig describes the run registry gateway.
type RDPCConfig struct {
	URL            string         `yaml:"url"`
	TokenURL       string         `yaml:"tokenUrl,omitempty"`
	ClientID       string         `yaml:"clientId,omitempty"`
	ClientSecret   string         `yaml:"clientSecret,omitempty"` // Overridden by RDPC_CLIENT_SECRET when set
	ActiveStates   []api.RunState `yaml:"activeStates,omitempty"`
	PageSize       int            `yaml:"pageSize,omitempty"`
	TimeoutSeconds float64        `yaml:"timeoutSeconds,omitempty"`
}

// Timeout returns the per-request timeout.
func (c RDPCConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// WeblogConfig describes the notification endpoint.
type WeblogConfig struct {
	URL            string  `yaml:"url"`
	TimeoutSeconds float64 `yaml:"timeoutSeconds,omitempty"`
}

// Timeout returns the per-request timeout.
func (c WeblogConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// KubernetesConfig describes the clusters and how run resources are found in them.
type KubernetesConfig struct {
	PodPrefixes       []string        `yaml:"podPrefixes,omitempty"`
	ConfigMapPrefixes []string        `yaml:"configMapPrefixes,omitempty"`
	LogTailLines      int64           `yaml:"logTailLines,omitempty"`
	Clusters          []ClusterConfig `yaml:"clusters,omitempty"`
}

// ClusterConfig describes one cluster holding workflow runs.
type ClusterConfig struct {
	Name             string `yaml:"name"`
	RunsNamespace    string `yaml:"runsNamespace"`
	MasterURL        string `yaml:"masterUrl,omitempty"`
	Kubeconfig       string `yaml:"kubeconfig,omitempty"`
	Context          string `yaml:"context,omitempty"`
	TrustCertificate bool   `yaml:"trustCertificate,omitempty"`
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
