package k8s

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// ResourceType identifies a Kubernetes resource type
type ResourceType string

const (
	ResourceTypePod         ResourceType = "pods"
	ResourceTypeDeployment  ResourceType = "deployments"
	ResourceTypeService     ResourceType = "services"
	ResourceTypeConfigMap   ResourceType = "configmaps"
	ResourceTypeSecret      ResourceType = "secrets"
	ResourceTypeNamespace   ResourceType = "namespaces"
	ResourceTypeNode        ResourceType = "nodes"
	ResourceTypeStatefulSet ResourceType = "statefulsets"
	ResourceTypeDaemonSet   ResourceType = "daemonsets"
	ResourceTypeJob         ResourceType = "jobs"
	ResourceTypeCronJob     ResourceType = "cronjobs"
	ResourceTypeReplicaSet  ResourceType = "replicasets"

	// ResourceTypeContext is a pseudo resource: contexts come from the
	// kubeconfig and the pool, never from the API server.
	ResourceTypeContext ResourceType = "contexts"
)

// TransformFunc converts an unstructured resource to a typed struct
type TransformFunc func(u *unstructured.Unstructured, common ResourceMetadata) (any, error)

// ResourceConfig defines configuration for a resource type
type ResourceConfig struct {
	GVR         schema.GroupVersionResource
	Kind        string // Kind name, e.g. "Deployment", for describe mappings
	Name        string // Display name, e.g. "Deployments"
	Namespaced  bool
	Scalable    bool // Supports spec.replicas patching
	Restartable bool // Supports rollout restart via pod template annotation
	Transform   TransformFunc
}

// getResourceRegistry returns the registry of all watched resources
func getResourceRegistry() map[ResourceType]ResourceConfig {
	return map[ResourceType]ResourceConfig{
		ResourceTypePod: {
			GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "pods"},
			Kind:       "Pod",
			Name:       "Pods",
			Namespaced: true,
			Transform:  transformPod,
		},
		ResourceTypeDeployment: {
			GVR:         schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"},
			Kind:        "Deployment",
			Name:        "Deployments",
			Namespaced:  true,
			Scalable:    true,
			Restartable: true,
			Transform:   transformDeployment,
		},
		ResourceTypeService: {
			GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "services"},
			Kind:       "Service",
			Name:       "Services",
			Namespaced: true,
			Transform:  transformService,
		},
		ResourceTypeConfigMap: {
			GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "configmaps"},
			Kind:       "ConfigMap",
			Name:       "ConfigMaps",
			Namespaced: true,
			Transform:  transformConfigMap,
		},
		ResourceTypeSecret: {
			GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "secrets"},
			Kind:       "Secret",
			Name:       "Secrets",
			Namespaced: true,
			Transform:  transformSecret,
		},
		ResourceTypeNamespace: {
			GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "namespaces"},
			Kind:       "Namespace",
			Name:       "Namespaces",
			Namespaced: false,
			Transform:  transformNamespace,
		},
		ResourceTypeNode: {
			GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "nodes"},
			Kind:       "Node",
			Name:       "Nodes",
			Namespaced: false,
			Transform:  transformNode,
		},
		ResourceTypeStatefulSet: {
			GVR:         schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "statefulsets"},
			Kind:        "StatefulSet",
			Name:        "StatefulSets",
			Namespaced:  true,
			Scalable:    true,
			Restartable: true,
			Transform:   transformStatefulSet,
		},
		ResourceTypeDaemonSet: {
			GVR:         schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "daemonsets"},
			Kind:        "DaemonSet",
			Name:        "DaemonSets",
			Namespaced:  true,
			Restartable: true,
			Transform:   transformDaemonSet,
		},
		ResourceTypeJob: {
			GVR:        schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "jobs"},
			Kind:       "Job",
			Name:       "Jobs",
			Namespaced: true,
			Transform:  transformJob,
		},
		ResourceTypeCronJob: {
			GVR:        schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "cronjobs"},
			Kind:       "CronJob",
			Name:       "CronJobs",
			Namespaced: true,
			Transform:  transformCronJob,
		},
		ResourceTypeReplicaSet: {
			GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"},
			Kind:       "ReplicaSet",
			Name:       "ReplicaSets",
			Namespaced: true,
			Scalable:   true,
			Transform:  transformReplicaSet,
		},
	}
}

// GetGVRForResourceType returns the GroupVersionResource for a resource type.
// The second return is false for pseudo resources such as contexts.
func GetGVRForResourceType(resourceType ResourceType) (schema.GroupVersionResource, bool) {
	config, ok := getResourceRegistry()[resourceType]
	if !ok {
		return schema.GroupVersionResource{}, false
	}
	return config.GVR, true
}

// IsNamespaced reports whether a resource type is namespace-scoped.
// Unknown types report true; callers hit the registry again on the actual
// operation and fail there with a better error.
func IsNamespaced(resourceType ResourceType) bool {
	config, ok := getResourceRegistry()[resourceType]
	if !ok {
		return true
	}
	return config.Namespaced
}

// ResourceTypeForKind maps a Kind name such as "Deployment" to its resource
// type. The second return is false for unknown kinds.
func ResourceTypeForKind(kind string) (ResourceType, bool) {
	for resourceType, config := range getResourceRegistry() {
		if config.Kind == kind {
			return resourceType, true
		}
	}
	return "", false
}
