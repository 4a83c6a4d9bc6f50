package reconciler

import (
	"time"

	"raccoon/internal/api"
)

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func pod(id string, state api.RunState, age time.Time) api.ResourceRecord {
	return api.ResourceRecord{
		ResourceRef: api.ResourceRef{Kind: api.ResourceKindPod, Cluster: "default", ID: id},
		State:       state,
		Age:         age,
	}
}

func configMap(id string, age time.Time) api.ResourceRecord {
	return api.ResourceRecord{
		ResourceRef: api.ResourceRef{Kind: api.ResourceKindConfigMap, Cluster: "default", ID: id},
		Age:         age,
	}
}

func podRef(id string) api.ResourceRef {
	return api.ResourceRef{Kind: api.ResourceKindPod, Cluster: "default", ID: id}
}

func configMapRef(id string) api.ResourceRef {
	return api.ResourceRef{Kind: api.ResourceKindConfigMap, Cluster: "default", ID: id}
}
