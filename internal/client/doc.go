// Package client provides raccoon's collaborators: the run registry and the
// cluster resource inventory.
//
// # Overview
//
//   - RDPCClient lists active runs from the RDPC GraphQL gateway
//   - KubernetesInventory lists and deletes run pods and ConfigMaps in one
//     namespace of one cluster
//   - ClusterSet joins several inventories into one
//
// # Architecture
//
//	┌──────────────┐      ┌──────────────────────────┐
//	│  RDPCClient  │      │        ClusterSet        │
//	│ (GraphQL +   │      │ union of listings, routes│
//	│  OAuth2)     │      │ deletes by cluster name  │
//	└──────────────┘      └────────────┬─────────────┘
//	                          ┌────────┴────────┐
//	                   ┌──────▼──────┐   ┌──────▼──────┐
//	                   │ Kubernetes  │   │ Kubernetes  │
//	                   │ Inventory A │   │ Inventory B │
//	                   └─────────────┘   └─────────────┘
//
// # Run Resources
//
// Run pods are recognised by the name prefixes "wes-" and "nf-", run
// ConfigMaps by "nf-config-". Pod phases map onto run states as follows:
//
//	Running   → RUNNING
//	Failed    → EXECUTOR_ERROR
//	Succeeded → COMPLETE
//	other     → SYSTEM_ERROR
//
// A pod's age is its start time, or its creation time if it never started.
// A ConfigMap's age is its creation time. Pod logs are fetched only when
// requested, limited to the last LogTailLines lines.
//
// # Registry Pagination
//
// The registry is paged with from/size offsets, ordered by start time, and
// drained while the gateway reports hasNextFrom. Requests are authorised
// with OAuth2 client credentials and carry the X-Resource-ID header.
//
// # Usage
//
//	restConfig, err := client.RestConfig(client.ClusterConnection{Name: "cumulus", Context: "cumulus-prod"})
//	inv, err := client.NewKubernetesInventoryForConfig(restConfig, client.InventoryOptions{
//	    Cluster:   "cumulus",
//	    Namespace: "workflows",
//	})
//	clusters := client.NewClusterSet()
//	_ = clusters.Add("cumulus", inv)
package client
