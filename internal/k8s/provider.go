package k8s

import (
	"context"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// DataProvider is the surface the UI reads cluster state through and sends
// actions through. The real implementation is the Pool delegating to the
// active context's Repository; the dummy provider stands in when no cluster
// is available.
//
// Reads are snapshots and never block on the network. Screens call Acquire
// when they start rendering a kind and Release when they stop; the provider
// keeps the kind synced while at least one subscriber holds it.
type DataProvider interface {
	Acquire(resourceType ResourceType)
	Release(resourceType ResourceType)

	GetResources(resourceType ResourceType) ([]any, error)
	GetSyncInfo() []SyncInfo

	// Relationship queries, pure functions over the current snapshots
	GetPodsForDeployment(namespace, name string) ([]Pod, error)
	GetPodsForService(namespace, name string) ([]Pod, error)
	GetPodsForStatefulSet(namespace, name string) ([]Pod, error)
	GetPodsForDaemonSet(namespace, name string) ([]Pod, error)
	GetPodsForJob(namespace, name string) ([]Pod, error)
	GetPodsForReplicaSet(namespace, name string) ([]Pod, error)
	GetPodsForNamespace(namespace string) ([]Pod, error)
	GetPodsOnNode(nodeName string) ([]Pod, error)
	GetPodsUsingConfigMap(namespace, name string) ([]Pod, error)
	GetPodsUsingSecret(namespace, name string) ([]Pod, error)
	GetReplicaSetsForDeployment(namespace, name string) ([]ReplicaSet, error)
	GetJobsForCronJob(namespace, name string) ([]Job, error)

	// Actions, executed against the API server with retry on transient errors
	DeleteResource(ctx context.Context, resourceType ResourceType, namespace, name string) error
	ScaleResource(ctx context.Context, resourceType ResourceType, namespace, name string, replicas int32) error
	RestartResource(ctx context.Context, resourceType ResourceType, namespace, name string) error
	GetPodLogs(ctx context.Context, namespace, name, container string, tailLines int64) (string, error)

	KubeconfigProvider
	Close()
}

// KubeconfigProvider exposes the kubeconfig coordinates of the active
// context, for commands that hand the user a ready-to-run kubectl line.
type KubeconfigProvider interface {
	GetKubeconfig() string
	GetContext() string
}

// ResourceFormatter renders full-screen detail views for a resource
type ResourceFormatter interface {
	GetResourceYAML(gvr schema.GroupVersionResource, namespace, name string) (string, error)
	DescribeResource(gvr schema.GroupVersionResource, namespace, name string) (string, error)
}

// ContextProvider manages kubeconfig contexts and switching between them
type ContextProvider interface {
	GetContexts() ([]Context, error)
	GetActiveContext() string
	SwitchContext(contextName string, progress chan<- ContextLoadProgress) error
	RetryFailedContext(contextName string, progress chan<- ContextLoadProgress) error
}
