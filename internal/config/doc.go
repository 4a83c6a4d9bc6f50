// Package config provides configuration management for raccoon.
//
// Configuration is read from a single directory containing config.yaml. The
// default directory is ~/.config/raccoon; commands accept --config-path to
// point elsewhere. A missing file is not an error: the defaults returned by
// GetDefaultConfig apply.
//
// # Loading Order
//
//  1. GetDefaultConfig
//  2. config.yaml, merged field by field over the defaults
//  3. RDPC_CLIENT_SECRET, when set, replaces rdpc.clientSecret
//  4. implicit defaults (a single "default" cluster when none is listed)
//  5. Validate, which reports every problem at once in a
//     ConfigurationErrorCollection
//
// # Example
//
//	server:
//	  port: 8080
//	retention:
//	  podRotationDays: 30
//	  configMapRotationDays: 14
//	pacing:
//	  notificationDelaySeconds: 1
//	  deletionDelaySeconds: 0.5
//	schedule: "@hourly"
//	rdpc:
//	  url: https://rdpc.example.org/graphql
//	  tokenUrl: https://ego.example.org/oauth/token
//	  clientId: raccoon
//	weblog:
//	  url: https://weblog.example.org
//	kubernetes:
//	  clusters:
//	    - name: cumulus
//	      runsNamespace: workflows
//	      kubeconfig: /etc/raccoon/cumulus.kubeconfig
//
// # Reloading
//
// Watcher observes the directory with fsnotify and hands every valid new
// configuration to a callback. Serve mode uses it to swap the retention
// policy and pacing between passes; other settings need a restart.
package config
