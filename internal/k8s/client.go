package k8s

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/util/retry"

	"github.com/renato0307/vigia/internal/logging"
)

// Client wraps the Kubernetes API for one context. List and watch calls feed
// the sync loops; the mutation methods back the command palette. Lists and
// mutations retry transient failures on a bounded backoff; watch is a single
// attempt, because the sync loop owns continuity across stream cycles.
type Client struct {
	dynamic     dynamic.Interface
	clientset   kubernetes.Interface
	registry    map[ResourceType]ResourceConfig
	kubeconfig  string
	contextName string
}

// NewClient builds a client for a kubeconfig context. No network calls
// happen here; use Ping to verify connectivity.
func NewClient(kubeconfig, contextName string) (*Client, error) {
	path, err := DefaultKubeconfigPath(kubeconfig)
	if err != nil {
		return nil, err
	}

	config, err := buildRESTConfig(path, contextName)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("error creating clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("error creating dynamic client: %w", err)
	}

	return newClient(dynamicClient, clientset, path, contextName), nil
}

// newClient assembles a client from prebuilt interfaces. Tests inject fakes
// through here.
func newClient(dynamicClient dynamic.Interface, clientset kubernetes.Interface, kubeconfig, contextName string) *Client {
	return &Client{
		dynamic:     dynamicClient,
		clientset:   clientset,
		registry:    getResourceRegistry(),
		kubeconfig:  kubeconfig,
		contextName: contextName,
	}
}

// Ping verifies the API server is reachable and credentials work
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.clientset.Discovery().ServerVersion()
	if err != nil {
		return fmt.Errorf("cluster unreachable: %w", err)
	}
	return err
}

// Kubeconfig returns the kubeconfig path
func (c *Client) Kubeconfig() string {
	return c.kubeconfig
}

// ContextName returns the kubeconfig context this client talks to
func (c *Client) ContextName() string {
	return c.contextName
}

// resourceFor resolves the dynamic interface for a resource type, scoped to
// a namespace when the kind is namespaced and one is given.
func (c *Client) resourceFor(resourceType ResourceType, namespace string) (dynamic.ResourceInterface, ResourceConfig, error) {
	config, ok := c.registry[resourceType]
	if !ok {
		return nil, ResourceConfig{}, fmt.Errorf("unknown resource type: %s", resourceType)
	}

	if config.Namespaced && namespace != "" {
		return c.dynamic.Resource(config.GVR).Namespace(namespace), config, nil
	}
	return c.dynamic.Resource(config.GVR), config, nil
}

// List fetches a full snapshot of a kind across all namespaces and returns
// the items together with the list revision the watch should resume from.
// Transient failures retry in-call up to ListAttempts; auth and not-found
// failures surface on the first attempt.
func (c *Client) List(ctx context.Context, resourceType ResourceType) ([]*unstructured.Unstructured, string, error) {
	ri, _, err := c.resourceFor(resourceType, "")
	if err != nil {
		return nil, "", err
	}

	backoff := listBackoff()
	var list *unstructured.UnstructuredList
	for attempt := 1; ; attempt++ {
		list, err = ri.List(ctx, metav1.ListOptions{})
		if err == nil {
			break
		}
		if attempt >= ListAttempts || !IsTransient(err) || ctx.Err() != nil {
			return nil, "", fmt.Errorf("failed to list %s: %w", resourceType, err)
		}
		logging.Debug("List retry",
			"resource", resourceType,
			"attempt", attempt,
			"error", err)
		if !sleepCtx(ctx, backoff.Step()) {
			return nil, "", fmt.Errorf("failed to list %s: %w", resourceType, err)
		}
	}

	items := make([]*unstructured.Unstructured, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, &list.Items[i])
	}

	return items, list.GetResourceVersion(), nil
}

// Watch opens a watch for a kind starting at the given revision. Bookmarks
// are requested so the resume point stays fresh across quiet periods. The
// server closes the stream after WatchTimeoutSeconds; callers reconnect.
func (c *Client) Watch(ctx context.Context, resourceType ResourceType, revision string) (watch.Interface, error) {
	ri, _, err := c.resourceFor(resourceType, "")
	if err != nil {
		return nil, err
	}

	timeout := int64(WatchTimeoutSeconds)
	return ri.Watch(ctx, metav1.ListOptions{
		ResourceVersion:     revision,
		AllowWatchBookmarks: true,
		TimeoutSeconds:      &timeout,
	})
}

// Get fetches a single resource live from the API server
func (c *Client) Get(ctx context.Context, resourceType ResourceType, namespace, name string) (*unstructured.Unstructured, error) {
	ri, _, err := c.resourceFor(resourceType, namespace)
	if err != nil {
		return nil, err
	}
	return ri.Get(ctx, name, metav1.GetOptions{})
}

// Delete removes a resource. Deletion propagates to dependents in the
// background, matching kubectl's default.
func (c *Client) Delete(ctx context.Context, resourceType ResourceType, namespace, name string) error {
	ri, _, err := c.resourceFor(resourceType, namespace)
	if err != nil {
		return err
	}

	policy := metav1.DeletePropagationBackground
	return retry.OnError(retry.DefaultBackoff, IsTransient, func() error {
		return ri.Delete(ctx, name, metav1.DeleteOptions{PropagationPolicy: &policy})
	})
}

// Scale patches spec.replicas on a scalable resource
func (c *Client) Scale(ctx context.Context, resourceType ResourceType, namespace, name string, replicas int32) error {
	ri, config, err := c.resourceFor(resourceType, namespace)
	if err != nil {
		return err
	}
	if !config.Scalable {
		return fmt.Errorf("%s cannot be scaled", resourceType)
	}

	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	return retry.OnError(retry.DefaultBackoff, IsTransient, func() error {
		_, err := ri.Patch(ctx, name, types.MergePatchType, []byte(patch), metav1.PatchOptions{})
		return err
	})
}

// Restart triggers a rolling restart the same way kubectl does: patching a
// restartedAt annotation into the pod template.
func (c *Client) Restart(ctx context.Context, resourceType ResourceType, namespace, name string) error {
	ri, config, err := c.resourceFor(resourceType, namespace)
	if err != nil {
		return err
	}
	if !config.Restartable {
		return fmt.Errorf("%s cannot be restarted", resourceType)
	}

	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{"kubectl.kubernetes.io/restartedAt":%q}}}}}`,
		time.Now().Format(time.RFC3339),
	)
	return retry.OnError(retry.DefaultBackoff, IsTransient, func() error {
		_, err := ri.Patch(ctx, name, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{})
		return err
	})
}

// GetPodLogs fetches the tail of a pod's logs. An empty container name lets
// the API server pick the only container, failing for multi-container pods
// the same way kubectl does.
func (c *Client) GetPodLogs(ctx context.Context, namespace, name, container string, tailLines int64) (string, error) {
	opts := &corev1.PodLogOptions{TailLines: &tailLines}
	if container != "" {
		opts.Container = container
	}

	data, err := c.clientset.CoreV1().Pods(namespace).GetLogs(name, opts).Do(ctx).Raw()
	if err != nil {
		return "", fmt.Errorf("failed to fetch logs for %s/%s: %w", namespace, name, err)
	}
	return string(data), nil
}

// GetEvents fetches events for a resource, newest last, capped so a crash
// looping pod cannot flood the describe view.
func (c *Client) GetEvents(ctx context.Context, namespace, name string) ([]corev1.Event, error) {
	fieldSelector := fmt.Sprintf("involvedObject.name=%s", name)
	if namespace != "" {
		fieldSelector += fmt.Sprintf(",involvedObject.namespace=%s", namespace)
	}

	events, err := c.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{
		FieldSelector: fieldSelector,
		Limit:         EventFetchLimit,
	})
	if err != nil {
		logging.Debug("Failed to fetch events", "namespace", namespace, "name", name, "error", err)
		return nil, err
	}

	return events.Items, nil
}
