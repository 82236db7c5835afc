// Package dummy provides a fake data provider for development and tests.
// Every read serves fixed in-memory fixtures; every action succeeds without
// touching a cluster.
package dummy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/renato0307/vigia/internal/k8s"
)

// Provider implements k8s.DataProvider, k8s.ResourceFormatter and
// k8s.ContextProvider with canned data. The fixture world is internally
// consistent: owner UIDs, selectors and mount refs line up so relationship
// navigation works the same way it does against a real cluster.
type Provider struct {
	mu     sync.RWMutex
	active string

	pods         []k8s.Pod
	deployments  []k8s.Deployment
	services     []k8s.Service
	configMaps   []k8s.ConfigMap
	secrets      []k8s.Secret
	namespaces   []k8s.Namespace
	nodes        []k8s.Node
	statefulSets []k8s.StatefulSet
	daemonSets   []k8s.DaemonSet
	jobs         []k8s.Job
	cronJobs     []k8s.CronJob
	replicaSets  []k8s.ReplicaSet
	contexts     []k8s.Context
}

func meta(namespace, name, uid string, age time.Duration) k8s.ResourceMetadata {
	return k8s.ResourceMetadata{
		Namespace: namespace,
		Name:      name,
		UID:       uid,
		Age:       age,
		CreatedAt: time.Now().Add(-age),
	}
}

// NewProvider creates a provider with a small fixed cluster
func NewProvider() *Provider {
	p := &Provider{active: "dev-cluster"}

	p.deployments = []k8s.Deployment{
		{ResourceMetadata: meta("default", "nginx-deployment", "uid-deploy-nginx", 24*time.Hour), Ready: "2/2", UpToDate: 2, Available: 2, Selector: map[string]string{"app": "nginx"}},
		{ResourceMetadata: meta("kube-system", "coredns", "uid-deploy-coredns", 168*time.Hour), Ready: "1/1", UpToDate: 1, Available: 1, Selector: map[string]string{"k8s-app": "kube-dns"}},
		{ResourceMetadata: meta("production", "api-server", "uid-deploy-api", 48*time.Hour), Ready: "1/3", UpToDate: 1, Available: 1, Selector: map[string]string{"app": "api-server"}},
	}

	p.replicaSets = []k8s.ReplicaSet{
		{ResourceMetadata: meta("default", "nginx-deployment-7d64f8d9c8", "uid-rs-nginx", 24*time.Hour), Desired: 2, Current: 2, Ready: 2, OwnerUIDs: []string{"uid-deploy-nginx"}},
		{ResourceMetadata: meta("kube-system", "coredns-5d78c9869d", "uid-rs-coredns", 168*time.Hour), Desired: 1, Current: 1, Ready: 1, OwnerUIDs: []string{"uid-deploy-coredns"}},
		{ResourceMetadata: meta("production", "api-server-6b9f8c7d5e", "uid-rs-api", 48*time.Hour), Desired: 3, Current: 3, Ready: 1, OwnerUIDs: []string{"uid-deploy-api"}},
	}

	p.pods = []k8s.Pod{
		{ResourceMetadata: meta("default", "nginx-deployment-7d64f8d9c8-abc12", "uid-pod-nginx-1", 24*time.Hour), Ready: "1/1", Status: "Running", Restarts: 0, Node: "node-1", IP: "10.244.1.5", Labels: map[string]string{"app": "nginx"}, OwnerUIDs: []string{"uid-rs-nginx"}, ConfigMapRefs: []string{"app-config"}},
		{ResourceMetadata: meta("default", "nginx-deployment-7d64f8d9c8-def34", "uid-pod-nginx-2", 24*time.Hour), Ready: "1/1", Status: "Running", Restarts: 2, Node: "node-2", IP: "10.244.2.3", Labels: map[string]string{"app": "nginx"}, OwnerUIDs: []string{"uid-rs-nginx"}, ConfigMapRefs: []string{"app-config"}},
		{ResourceMetadata: meta("kube-system", "coredns-5d78c9869d-xyz89", "uid-pod-coredns", 168*time.Hour), Ready: "1/1", Status: "Running", Restarts: 0, Node: "node-1", IP: "10.244.1.2", Labels: map[string]string{"k8s-app": "kube-dns"}, OwnerUIDs: []string{"uid-rs-coredns"}, ConfigMapRefs: []string{"coredns"}},
		{ResourceMetadata: meta("production", "api-server-6b9f8c7d5e-qwert", "uid-pod-api", 2*time.Hour), Ready: "0/1", Status: "CrashLoopBackOff", Restarts: 15, Node: "node-3", IP: "10.244.3.7", Labels: map[string]string{"app": "api-server"}, OwnerUIDs: []string{"uid-rs-api"}, SecretRefs: []string{"api-credentials"}},
		{ResourceMetadata: meta("production", "postgres-0", "uid-pod-pg-0", 72*time.Hour), Ready: "1/1", Status: "Running", Restarts: 0, Node: "node-2", IP: "10.244.2.8", Labels: map[string]string{"app": "postgres"}, OwnerUIDs: []string{"uid-sts-postgres"}, SecretRefs: []string{"api-credentials"}},
		{ResourceMetadata: meta("production", "postgres-1", "uid-pod-pg-1", 72*time.Hour), Ready: "1/1", Status: "Running", Restarts: 1, Node: "node-3", IP: "10.244.3.4", Labels: map[string]string{"app": "postgres"}, OwnerUIDs: []string{"uid-sts-postgres"}},
		{ResourceMetadata: meta("kube-system", "kube-proxy-b4x7n", "uid-pod-kp-1", 168*time.Hour), Ready: "1/1", Status: "Running", Restarts: 0, Node: "node-1", IP: "10.244.1.1", Labels: map[string]string{"k8s-app": "kube-proxy"}, OwnerUIDs: []string{"uid-ds-kube-proxy"}},
		{ResourceMetadata: meta("kube-system", "kube-proxy-m9z2k", "uid-pod-kp-2", 168*time.Hour), Ready: "1/1", Status: "Running", Restarts: 0, Node: "node-2", IP: "10.244.2.1", Labels: map[string]string{"k8s-app": "kube-proxy"}, OwnerUIDs: []string{"uid-ds-kube-proxy"}},
		{ResourceMetadata: meta("kube-system", "kube-proxy-t5w8j", "uid-pod-kp-3", 168*time.Hour), Ready: "1/1", Status: "Running", Restarts: 0, Node: "node-3", IP: "10.244.3.1", Labels: map[string]string{"k8s-app": "kube-proxy"}, OwnerUIDs: []string{"uid-ds-kube-proxy"}},
		{ResourceMetadata: meta("production", "db-migrate-x7k2p", "uid-pod-migrate", 3*time.Hour), Ready: "0/1", Status: "Completed", Restarts: 0, Node: "node-2", IP: "10.244.2.9", Labels: map[string]string{"job-name": "db-migrate"}, OwnerUIDs: []string{"uid-job-migrate"}},
	}

	p.services = []k8s.Service{
		{ResourceMetadata: meta("default", "kubernetes", "uid-svc-k8s", 168*time.Hour), Type: "ClusterIP", ClusterIP: "10.96.0.1", ExternalIP: "<none>", Ports: "443/TCP"},
		{ResourceMetadata: meta("default", "nginx-service", "uid-svc-nginx", 24*time.Hour), Type: "LoadBalancer", ClusterIP: "10.96.10.5", ExternalIP: "203.0.113.45", Ports: "80/TCP,443/TCP", Selector: map[string]string{"app": "nginx"}},
		{ResourceMetadata: meta("production", "api-service", "uid-svc-api", 48*time.Hour), Type: "ClusterIP", ClusterIP: "10.96.20.10", ExternalIP: "<none>", Ports: "8080/TCP", Selector: map[string]string{"app": "api-server"}},
	}

	p.configMaps = []k8s.ConfigMap{
		{ResourceMetadata: meta("default", "app-config", "uid-cm-app", 24*time.Hour), Data: 3},
		{ResourceMetadata: meta("kube-system", "coredns", "uid-cm-coredns", 168*time.Hour), Data: 1},
	}

	p.secrets = []k8s.Secret{
		{ResourceMetadata: meta("production", "api-credentials", "uid-sec-api", 48*time.Hour), Type: "Opaque", Data: 2},
		{ResourceMetadata: meta("default", "tls-cert", "uid-sec-tls", 90*24*time.Hour), Type: "kubernetes.io/tls", Data: 2},
	}

	p.namespaces = []k8s.Namespace{
		{ResourceMetadata: meta("", "default", "uid-ns-default", 168*time.Hour), Status: "Active"},
		{ResourceMetadata: meta("", "kube-system", "uid-ns-system", 168*time.Hour), Status: "Active"},
		{ResourceMetadata: meta("", "production", "uid-ns-prod", 120*time.Hour), Status: "Active"},
	}

	p.nodes = []k8s.Node{
		{ResourceMetadata: meta("", "node-1", "uid-node-1", 168*time.Hour), Status: "Ready", Roles: "control-plane", Version: "v1.31.2", Hostname: "node-1", InstanceType: "e2-standard-4", Zone: "us-central1-a", NodePool: "default-pool", OSImage: "Container-Optimized OS"},
		{ResourceMetadata: meta("", "node-2", "uid-node-2", 168*time.Hour), Status: "Ready", Roles: "<none>", Version: "v1.31.2", Hostname: "node-2", InstanceType: "e2-standard-4", Zone: "us-central1-b", NodePool: "default-pool", OSImage: "Container-Optimized OS"},
		{ResourceMetadata: meta("", "node-3", "uid-node-3", 120*time.Hour), Status: "Ready", Roles: "<none>", Version: "v1.31.2", Hostname: "node-3", InstanceType: "e2-highmem-8", Zone: "us-central1-c", NodePool: "workload-pool", OSImage: "Container-Optimized OS"},
	}

	p.statefulSets = []k8s.StatefulSet{
		{ResourceMetadata: meta("production", "postgres", "uid-sts-postgres", 72*time.Hour), Ready: "2/2", Selector: map[string]string{"app": "postgres"}},
	}

	p.daemonSets = []k8s.DaemonSet{
		{ResourceMetadata: meta("kube-system", "kube-proxy", "uid-ds-kube-proxy", 168*time.Hour), Desired: 3, Current: 3, Ready: 3, UpToDate: 3, Available: 3},
	}

	p.jobs = []k8s.Job{
		{ResourceMetadata: meta("production", "db-migrate", "uid-job-migrate", 3*time.Hour), Completions: "1/1", Duration: 45 * time.Second},
		{ResourceMetadata: meta("production", "nightly-backup-29012345", "uid-job-backup", 8*time.Hour), Completions: "1/1", Duration: 4 * time.Minute, OwnerUIDs: []string{"uid-cj-backup"}},
	}

	p.cronJobs = []k8s.CronJob{
		{ResourceMetadata: meta("production", "nightly-backup", "uid-cj-backup", 120*time.Hour), Schedule: "0 2 * * *", Suspend: false, Active: 0, LastSchedule: 8 * time.Hour},
	}

	p.contexts = []k8s.Context{
		{Name: "dev-cluster", Cluster: "dev-cluster", User: "dev-admin", Namespace: "default", Status: string(k8s.StatusConnected), Current: "✓"},
		{Name: "prod-cluster", Cluster: "prod-cluster", User: "prod-readonly", Status: string(k8s.StatusFailed), Error: "connection refused"},
		{Name: "staging-cluster", Cluster: "staging-cluster", User: "staging-admin", Status: string(k8s.StatusNotConnected)},
	}

	return p
}

// Acquire is a no-op; dummy data is always available
func (p *Provider) Acquire(resourceType k8s.ResourceType) {}

// Release is a no-op
func (p *Provider) Release(resourceType k8s.ResourceType) {}

// GetResources returns the fixture list for a resource type
func (p *Provider) GetResources(resourceType k8s.ResourceType) ([]any, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	switch resourceType {
	case k8s.ResourceTypePod:
		return wrap(p.pods), nil
	case k8s.ResourceTypeDeployment:
		return wrap(p.deployments), nil
	case k8s.ResourceTypeService:
		return wrap(p.services), nil
	case k8s.ResourceTypeConfigMap:
		return wrap(p.configMaps), nil
	case k8s.ResourceTypeSecret:
		return wrap(p.secrets), nil
	case k8s.ResourceTypeNamespace:
		return wrap(p.namespaces), nil
	case k8s.ResourceTypeNode:
		return wrap(p.nodes), nil
	case k8s.ResourceTypeStatefulSet:
		return wrap(p.statefulSets), nil
	case k8s.ResourceTypeDaemonSet:
		return wrap(p.daemonSets), nil
	case k8s.ResourceTypeJob:
		return wrap(p.jobs), nil
	case k8s.ResourceTypeCronJob:
		return wrap(p.cronJobs), nil
	case k8s.ResourceTypeReplicaSet:
		return wrap(p.replicaSets), nil
	case k8s.ResourceTypeContext:
		return wrap(p.contexts), nil
	default:
		return []any{}, nil
	}
}

func wrap[T any](items []T) []any {
	result := make([]any, len(items))
	for i, item := range items {
		result[i] = item
	}
	return result
}

// GetSyncInfo reports every kind as synced
func (p *Provider) GetSyncInfo() []k8s.SyncInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	counts := []struct {
		rt    k8s.ResourceType
		count int
	}{
		{k8s.ResourceTypeConfigMap, len(p.configMaps)},
		{k8s.ResourceTypeCronJob, len(p.cronJobs)},
		{k8s.ResourceTypeDaemonSet, len(p.daemonSets)},
		{k8s.ResourceTypeDeployment, len(p.deployments)},
		{k8s.ResourceTypeJob, len(p.jobs)},
		{k8s.ResourceTypeNamespace, len(p.namespaces)},
		{k8s.ResourceTypeNode, len(p.nodes)},
		{k8s.ResourceTypePod, len(p.pods)},
		{k8s.ResourceTypeReplicaSet, len(p.replicaSets)},
		{k8s.ResourceTypeSecret, len(p.secrets)},
		{k8s.ResourceTypeService, len(p.services)},
		{k8s.ResourceTypeStatefulSet, len(p.statefulSets)},
	}

	infos := make([]k8s.SyncInfo, 0, len(counts))
	for _, c := range counts {
		infos = append(infos, k8s.SyncInfo{
			ResourceType: c.rt,
			State:        k8s.SyncStateSynced,
			Count:        c.count,
			Revision:     1,
			Applied:      uint64(c.count),
			Relists:      1,
			LastSyncedAt: time.Now(),
		})
	}
	return infos
}

func (p *Provider) filterPods(keep func(k8s.Pod) bool) []k8s.Pod {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := []k8s.Pod{}
	for _, pod := range p.pods {
		if keep(pod) {
			result = append(result, pod)
		}
	}
	return result
}

func matchesSelector(selector, labels map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}

func hasOwner(owners []string, uid string) bool {
	for _, o := range owners {
		if o == uid {
			return true
		}
	}
	return false
}

func contains(refs []string, name string) bool {
	for _, r := range refs {
		if r == name {
			return true
		}
	}
	return false
}

// GetPodsForDeployment returns pods matching the deployment's selector
func (p *Provider) GetPodsForDeployment(namespace, name string) ([]k8s.Pod, error) {
	p.mu.RLock()
	var selector map[string]string
	for _, d := range p.deployments {
		if d.Namespace == namespace && d.Name == name {
			selector = d.Selector
			break
		}
	}
	p.mu.RUnlock()

	return p.filterPods(func(pod k8s.Pod) bool {
		return pod.Namespace == namespace && matchesSelector(selector, pod.Labels)
	}), nil
}

// GetPodsForService returns pods matching the service's selector
func (p *Provider) GetPodsForService(namespace, name string) ([]k8s.Pod, error) {
	p.mu.RLock()
	var selector map[string]string
	for _, s := range p.services {
		if s.Namespace == namespace && s.Name == name {
			selector = s.Selector
			break
		}
	}
	p.mu.RUnlock()

	return p.filterPods(func(pod k8s.Pod) bool {
		return pod.Namespace == namespace && matchesSelector(selector, pod.Labels)
	}), nil
}

// GetPodsForStatefulSet returns pods owned by the statefulset
func (p *Provider) GetPodsForStatefulSet(namespace, name string) ([]k8s.Pod, error) {
	uid := p.uidOf(wrap(p.statefulSets), namespace, name)
	return p.filterPods(func(pod k8s.Pod) bool {
		return hasOwner(pod.OwnerUIDs, uid)
	}), nil
}

// GetPodsForDaemonSet returns pods owned by the daemonset
func (p *Provider) GetPodsForDaemonSet(namespace, name string) ([]k8s.Pod, error) {
	uid := p.uidOf(wrap(p.daemonSets), namespace, name)
	return p.filterPods(func(pod k8s.Pod) bool {
		return hasOwner(pod.OwnerUIDs, uid)
	}), nil
}

// GetPodsForJob returns pods owned by the job
func (p *Provider) GetPodsForJob(namespace, name string) ([]k8s.Pod, error) {
	uid := p.uidOf(wrap(p.jobs), namespace, name)
	return p.filterPods(func(pod k8s.Pod) bool {
		return hasOwner(pod.OwnerUIDs, uid)
	}), nil
}

// GetPodsForReplicaSet returns pods owned by the replicaset
func (p *Provider) GetPodsForReplicaSet(namespace, name string) ([]k8s.Pod, error) {
	uid := p.uidOf(wrap(p.replicaSets), namespace, name)
	return p.filterPods(func(pod k8s.Pod) bool {
		return hasOwner(pod.OwnerUIDs, uid)
	}), nil
}

// GetPodsForNamespace returns pods in a namespace
func (p *Provider) GetPodsForNamespace(namespace string) ([]k8s.Pod, error) {
	return p.filterPods(func(pod k8s.Pod) bool {
		return pod.Namespace == namespace
	}), nil
}

// GetPodsOnNode returns pods scheduled on a node
func (p *Provider) GetPodsOnNode(nodeName string) ([]k8s.Pod, error) {
	return p.filterPods(func(pod k8s.Pod) bool {
		return pod.Node == nodeName
	}), nil
}

// GetPodsUsingConfigMap returns pods mounting or referencing a configmap
func (p *Provider) GetPodsUsingConfigMap(namespace, name string) ([]k8s.Pod, error) {
	return p.filterPods(func(pod k8s.Pod) bool {
		return pod.Namespace == namespace && contains(pod.ConfigMapRefs, name)
	}), nil
}

// GetPodsUsingSecret returns pods mounting or referencing a secret
func (p *Provider) GetPodsUsingSecret(namespace, name string) ([]k8s.Pod, error) {
	return p.filterPods(func(pod k8s.Pod) bool {
		return pod.Namespace == namespace && contains(pod.SecretRefs, name)
	}), nil
}

// GetReplicaSetsForDeployment returns replicasets owned by the deployment
func (p *Provider) GetReplicaSetsForDeployment(namespace, name string) ([]k8s.ReplicaSet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var uid string
	for _, d := range p.deployments {
		if d.Namespace == namespace && d.Name == name {
			uid = d.UID
			break
		}
	}

	result := []k8s.ReplicaSet{}
	for _, rs := range p.replicaSets {
		if hasOwner(rs.OwnerUIDs, uid) {
			result = append(result, rs)
		}
	}
	return result, nil
}

// GetJobsForCronJob returns jobs owned by the cronjob
func (p *Provider) GetJobsForCronJob(namespace, name string) ([]k8s.Job, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var uid string
	for _, cj := range p.cronJobs {
		if cj.Namespace == namespace && cj.Name == name {
			uid = cj.UID
			break
		}
	}

	result := []k8s.Job{}
	for _, job := range p.jobs {
		if hasOwner(job.OwnerUIDs, uid) {
			result = append(result, job)
		}
	}
	return result, nil
}

// uidOf finds the UID of a named resource in a wrapped fixture slice
func (p *Provider) uidOf(items []any, namespace, name string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, item := range items {
		if r, ok := item.(k8s.Resource); ok {
			if r.GetNamespace() == namespace && r.GetName() == name {
				return r.GetUID()
			}
		}
	}
	return ""
}

// DeleteResource pretends to delete
func (p *Provider) DeleteResource(ctx context.Context, resourceType k8s.ResourceType, namespace, name string) error {
	return nil
}

// ScaleResource pretends to scale
func (p *Provider) ScaleResource(ctx context.Context, resourceType k8s.ResourceType, namespace, name string, replicas int32) error {
	return nil
}

// RestartResource pretends to restart
func (p *Provider) RestartResource(ctx context.Context, resourceType k8s.ResourceType, namespace, name string) error {
	return nil
}

// GetPodLogs returns canned log lines
func (p *Provider) GetPodLogs(ctx context.Context, namespace, name, container string, tailLines int64) (string, error) {
	return fmt.Sprintf(`2025/01/15 10:23:01 starting %s
2025/01/15 10:23:02 listening on :8080
2025/01/15 10:24:17 GET /healthz 200 1.2ms
(dummy logs - connect to a real cluster for actual output)`, name), nil
}

// GetKubeconfig returns an empty path; there is no real kubeconfig
func (p *Provider) GetKubeconfig() string {
	return ""
}

// GetContext returns the active fixture context
func (p *Provider) GetContext() string {
	return p.GetActiveContext()
}

// Close is a no-op
func (p *Provider) Close() {}

// GetResourceYAML returns dummy YAML for development
func (p *Provider) GetResourceYAML(gvr schema.GroupVersionResource, namespace, name string) (string, error) {
	return `apiVersion: v1
kind: Pod
metadata:
  name: ` + name + `
  namespace: ` + namespace + `
status:
  phase: Running`, nil
}

// DescribeResource returns dummy describe output for development
func (p *Provider) DescribeResource(gvr schema.GroupVersionResource, namespace, name string) (string, error) {
	return `Name:         ` + name + `
Namespace:    ` + namespace + `
Status:       Running
(Dummy data - connect to real cluster for actual describe output)`, nil
}

// GetContexts returns the fixture contexts
func (p *Provider) GetContexts() ([]k8s.Context, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]k8s.Context, len(p.contexts))
	copy(result, p.contexts)
	return result, nil
}

// GetActiveContext returns the active fixture context name
func (p *Provider) GetActiveContext() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// SwitchContext switches between fixture contexts. The failed fixture
// context keeps failing, so the retry path can be exercised in dev mode.
func (p *Provider) SwitchContext(contextName string, progress chan<- k8s.ContextLoadProgress) error {
	if progress != nil {
		progress <- k8s.ContextLoadProgress{Context: contextName, Phase: k8s.PhaseConnecting, Message: "Connecting to API server..."}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.contexts {
		if p.contexts[i].Name != contextName {
			continue
		}
		if p.contexts[i].Status == string(k8s.StatusFailed) {
			return fmt.Errorf("context %s: %s", contextName, p.contexts[i].Error)
		}

		for j := range p.contexts {
			p.contexts[j].Current = ""
			if p.contexts[j].Status == string(k8s.StatusConnected) {
				p.contexts[j].Status = string(k8s.StatusNotConnected)
			}
		}
		p.contexts[i].Status = string(k8s.StatusConnected)
		p.contexts[i].Current = "✓"
		p.active = contextName

		if progress != nil {
			progress <- k8s.ContextLoadProgress{Context: contextName, Phase: k8s.PhaseComplete, Message: "Context ready"}
		}
		return nil
	}

	return fmt.Errorf("context %s not found", contextName)
}

// RetryFailedContext always fails for the fixture's failed context
func (p *Provider) RetryFailedContext(contextName string, progress chan<- k8s.ContextLoadProgress) error {
	return p.SwitchContext(contextName, progress)
}
