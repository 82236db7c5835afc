package k8s

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/renato0307/vigia/internal/logging"
)

// Repository owns the sync engine for a single kubeconfig context: the
// store, one sync loop per subscribed kind, and the subscription refcounts.
// Repositories are cheap to create; the expensive part is the Client, which
// outlives them across context switches.
type Repository struct {
	client *Client
	store  *Store

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	subs   map[ResourceType]*subscription
	closed bool
}

// subscription tracks one kind's sync loop and its subscriber count
type subscription struct {
	refs   int
	cancel context.CancelFunc
	done   chan struct{}

	// stopTimer is the pending grace-period stop, armed when refs reaches
	// zero and disarmed when the kind is re-acquired in time.
	stopTimer *time.Timer
}

// NewRepository creates a repository around a client. No sync loops start
// until the first Acquire.
func NewRepository(client *Client) *Repository {
	ctx, cancel := context.WithCancel(context.Background())
	return &Repository{
		client: client,
		store:  NewStore(),
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[ResourceType]*subscription),
	}
}

// Acquire registers interest in a kind. The first subscriber starts the
// sync loop; re-acquiring within the grace period after the last release
// disarms the pending stop, so flipping between two screens never pays for
// a second list.
func (r *Repository) Acquire(resourceType ResourceType) {
	if resourceType == ResourceTypeContext {
		return // served by the pool, nothing to sync
	}
	if _, ok := getResourceRegistry()[resourceType]; !ok {
		logging.Warn("Acquire for unknown resource type", "resource", resourceType)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if sub, ok := r.subs[resourceType]; ok {
		sub.refs++
		if sub.stopTimer != nil {
			sub.stopTimer.Stop()
			sub.stopTimer = nil
			logging.Debug("Subscription revived within grace period", "resource", resourceType)
		}
		return
	}

	subCtx, cancel := context.WithCancel(r.ctx)
	sub := &subscription{refs: 1, cancel: cancel, done: make(chan struct{})}
	r.subs[resourceType] = sub

	logging.Debug("Starting sync loop", "resource", resourceType)
	go func() {
		defer close(sub.done)
		syncKind(subCtx, r.client, r.store, resourceType)
	}()
}

// Release drops one subscriber from a kind. When the count reaches zero the
// sync loop keeps running for SubscriptionGracePeriod before stopping, in
// case the kind is needed again right away.
func (r *Repository) Release(resourceType ResourceType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[resourceType]
	if !ok {
		return
	}

	if sub.refs > 0 {
		sub.refs--
	}
	if sub.refs > 0 || sub.stopTimer != nil {
		return
	}

	sub.stopTimer = time.AfterFunc(SubscriptionGracePeriod, func() {
		r.stopAfterGrace(resourceType, sub)
	})
}

// stopAfterGrace stops a sync loop whose grace period lapsed. The timer can
// race with a concurrent Acquire, so everything is re-checked under the
// lock before tearing down.
func (r *Repository) stopAfterGrace(resourceType ResourceType, sub *subscription) {
	r.mu.Lock()
	current, ok := r.subs[resourceType]
	if !ok || current != sub || sub.refs > 0 || sub.stopTimer == nil {
		r.mu.Unlock()
		return
	}
	delete(r.subs, resourceType)
	r.mu.Unlock()

	sub.cancel()
	<-sub.done
	r.store.DropKind(resourceType)
	logging.Debug("Sync loop stopped after grace period", "resource", resourceType)
}

// Close stops every sync loop, waits for each to acknowledge, and clears
// the store. The wait matters on context switch: no loop may still be
// writing when the next context starts filling its own store.
func (r *Repository) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	subs := r.subs
	r.subs = make(map[ResourceType]*subscription)
	r.mu.Unlock()

	r.cancel()

	for resourceType, sub := range subs {
		if sub.stopTimer != nil {
			sub.stopTimer.Stop()
		}
		select {
		case <-sub.done:
		case <-time.After(StopAckTimeout):
			logging.Warn("Sync loop did not acknowledge stop in time", "resource", resourceType)
		}
	}

	r.store.Clear()
}

// GetResources returns the current snapshot for a kind, newest first. An
// unsynced kind yields an empty slice, not an error; the sync status tells
// the user why.
func (r *Repository) GetResources(resourceType ResourceType) ([]any, error) {
	if resourceType == ResourceTypeContext {
		return nil, fmt.Errorf("contexts are served by the pool, not a repository")
	}
	if _, ok := getResourceRegistry()[resourceType]; !ok {
		return nil, fmt.Errorf("unknown resource type: %s", resourceType)
	}

	items := r.store.Snapshot(resourceType)
	sortSnapshot(items)
	return items, nil
}

// GetSyncInfo returns per-kind sync health for the status screen
func (r *Repository) GetSyncInfo() []SyncInfo {
	return r.store.SyncInfos()
}

// Store exposes the underlying store for the formatter's cache-first reads
func (r *Repository) Store() *Store {
	return r.store
}

// sourceUID looks up the UID of a cached resource for owner-reference walks
func (r *Repository) sourceUID(resourceType ResourceType, namespace, name string) (string, error) {
	obj, ok := r.store.GetObject(resourceType, namespace, name)
	if !ok {
		return "", fmt.Errorf("%s %s not found in cache", resourceType, objectKey(namespace, name))
	}
	res, ok := obj.Summary.(Resource)
	if !ok {
		return "", fmt.Errorf("unexpected cached type %T for %s", obj.Summary, resourceType)
	}
	return res.GetUID(), nil
}

// filterPods builds a sorted pod list from the current snapshot
func (r *Repository) filterPods(keep func(Pod) bool) []Pod {
	all := snapshotTyped[Pod](r.store, ResourceTypePod)
	pods := make([]Pod, 0, len(all))
	for _, pod := range all {
		if keep(pod) {
			pods = append(pods, pod)
		}
	}
	sortRows(pods)
	return pods
}

// GetPodsForDeployment returns pods matching a deployment's selector
func (r *Repository) GetPodsForDeployment(namespace, name string) ([]Pod, error) {
	obj, ok := r.store.GetObject(ResourceTypeDeployment, namespace, name)
	if !ok {
		return nil, fmt.Errorf("deployment %s/%s not found in cache", namespace, name)
	}
	deployment, ok := obj.Summary.(Deployment)
	if !ok {
		return nil, fmt.Errorf("unexpected cached type %T for deployment", obj.Summary)
	}
	if len(deployment.Selector) == 0 {
		return []Pod{}, nil
	}

	selector := labels.SelectorFromSet(deployment.Selector)
	return r.filterPods(func(p Pod) bool {
		return p.Namespace == namespace && selector.Matches(labels.Set(p.Labels))
	}), nil
}

// GetPodsForService returns pods matching a service's selector. Services
// without a selector (ExternalName, manual endpoints) match nothing.
func (r *Repository) GetPodsForService(namespace, name string) ([]Pod, error) {
	obj, ok := r.store.GetObject(ResourceTypeService, namespace, name)
	if !ok {
		return nil, fmt.Errorf("service %s/%s not found in cache", namespace, name)
	}
	service, ok := obj.Summary.(Service)
	if !ok {
		return nil, fmt.Errorf("unexpected cached type %T for service", obj.Summary)
	}
	if len(service.Selector) == 0 {
		return []Pod{}, nil
	}

	selector := labels.SelectorFromSet(service.Selector)
	return r.filterPods(func(p Pod) bool {
		return p.Namespace == namespace && selector.Matches(labels.Set(p.Labels))
	}), nil
}

// GetPodsForStatefulSet returns pods owned by a statefulset
func (r *Repository) GetPodsForStatefulSet(namespace, name string) ([]Pod, error) {
	uid, err := r.sourceUID(ResourceTypeStatefulSet, namespace, name)
	if err != nil {
		return nil, err
	}
	return r.filterPods(func(p Pod) bool {
		return slices.Contains(p.OwnerUIDs, uid)
	}), nil
}

// GetPodsForDaemonSet returns pods owned by a daemonset
func (r *Repository) GetPodsForDaemonSet(namespace, name string) ([]Pod, error) {
	uid, err := r.sourceUID(ResourceTypeDaemonSet, namespace, name)
	if err != nil {
		return nil, err
	}
	return r.filterPods(func(p Pod) bool {
		return slices.Contains(p.OwnerUIDs, uid)
	}), nil
}

// GetPodsForJob returns pods owned by a job
func (r *Repository) GetPodsForJob(namespace, name string) ([]Pod, error) {
	uid, err := r.sourceUID(ResourceTypeJob, namespace, name)
	if err != nil {
		return nil, err
	}
	return r.filterPods(func(p Pod) bool {
		return slices.Contains(p.OwnerUIDs, uid)
	}), nil
}

// GetPodsForReplicaSet returns pods owned by a replicaset
func (r *Repository) GetPodsForReplicaSet(namespace, name string) ([]Pod, error) {
	uid, err := r.sourceUID(ResourceTypeReplicaSet, namespace, name)
	if err != nil {
		return nil, err
	}
	return r.filterPods(func(p Pod) bool {
		return slices.Contains(p.OwnerUIDs, uid)
	}), nil
}

// GetPodsForNamespace returns all pods in a namespace
func (r *Repository) GetPodsForNamespace(namespace string) ([]Pod, error) {
	return r.filterPods(func(p Pod) bool {
		return p.Namespace == namespace
	}), nil
}

// GetPodsOnNode returns pods scheduled onto a node
func (r *Repository) GetPodsOnNode(nodeName string) ([]Pod, error) {
	return r.filterPods(func(p Pod) bool {
		return p.Node == nodeName
	}), nil
}

// GetPodsUsingConfigMap returns pods that mount or reference a configmap
func (r *Repository) GetPodsUsingConfigMap(namespace, name string) ([]Pod, error) {
	return r.filterPods(func(p Pod) bool {
		return p.Namespace == namespace && slices.Contains(p.ConfigMapRefs, name)
	}), nil
}

// GetPodsUsingSecret returns pods that mount or reference a secret
func (r *Repository) GetPodsUsingSecret(namespace, name string) ([]Pod, error) {
	return r.filterPods(func(p Pod) bool {
		return p.Namespace == namespace && slices.Contains(p.SecretRefs, name)
	}), nil
}

// GetReplicaSetsForDeployment returns replicasets owned by a deployment
func (r *Repository) GetReplicaSetsForDeployment(namespace, name string) ([]ReplicaSet, error) {
	uid, err := r.sourceUID(ResourceTypeDeployment, namespace, name)
	if err != nil {
		return nil, err
	}

	all := snapshotTyped[ReplicaSet](r.store, ResourceTypeReplicaSet)
	replicaSets := make([]ReplicaSet, 0, len(all))
	for _, rs := range all {
		if slices.Contains(rs.OwnerUIDs, uid) {
			replicaSets = append(replicaSets, rs)
		}
	}
	sortRows(replicaSets)
	return replicaSets, nil
}

// GetJobsForCronJob returns jobs owned by a cronjob
func (r *Repository) GetJobsForCronJob(namespace, name string) ([]Job, error) {
	uid, err := r.sourceUID(ResourceTypeCronJob, namespace, name)
	if err != nil {
		return nil, err
	}

	all := snapshotTyped[Job](r.store, ResourceTypeJob)
	jobs := make([]Job, 0, len(all))
	for _, job := range all {
		if slices.Contains(job.OwnerUIDs, uid) {
			jobs = append(jobs, job)
		}
	}
	sortRows(jobs)
	return jobs, nil
}

// DeleteResource deletes a resource through the API client
func (r *Repository) DeleteResource(ctx context.Context, resourceType ResourceType, namespace, name string) error {
	return r.client.Delete(ctx, resourceType, namespace, name)
}

// ScaleResource patches a resource's replica count
func (r *Repository) ScaleResource(ctx context.Context, resourceType ResourceType, namespace, name string, replicas int32) error {
	return r.client.Scale(ctx, resourceType, namespace, name, replicas)
}

// RestartResource triggers a rolling restart
func (r *Repository) RestartResource(ctx context.Context, resourceType ResourceType, namespace, name string) error {
	return r.client.Restart(ctx, resourceType, namespace, name)
}

// GetPodLogs fetches the tail of a pod's logs
func (r *Repository) GetPodLogs(ctx context.Context, namespace, name, container string, tailLines int64) (string, error) {
	return r.client.GetPodLogs(ctx, namespace, name, container, tailLines)
}

// GetKubeconfig returns the kubeconfig path
func (r *Repository) GetKubeconfig() string {
	return r.client.Kubeconfig()
}

// GetContext returns the context name
func (r *Repository) GetContext() string {
	return r.client.ContextName()
}
