package k8s

import (
	"container/list"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/renato0307/vigia/internal/logging"
)

// ContextStatus represents the state of a context in the pool
type ContextStatus string

const (
	StatusNotConnected ContextStatus = "Not Connected"
	StatusConnecting   ContextStatus = "Connecting"
	StatusConnected    ContextStatus = "Connected"
	StatusFailed       ContextStatus = "Failed"
)

// ConnectTimeout bounds the reachability probe when a context is loaded
const ConnectTimeout = 10 * time.Second

// poolEntry wraps one context's warm client and runtime status. Only the
// active context carries a Repository; everything else holds at most a
// client whose TLS and auth handshakes are already done, so switching back
// is fast without keeping a second cluster's data resident.
type poolEntry struct {
	Client     *Client
	Status     ContextStatus
	Error      error
	LoadedAt   time.Time
	ContextObj *ContextInfo
}

// Pool manages multiple kubeconfig contexts. Exactly one is active at a
// time: its Repository syncs data and serves every read. Switching tears
// the old repository down, waits for its sync loops to acknowledge, and
// only then activates the next context.
//
// Pool implements DataProvider, ResourceFormatter and ContextProvider by
// delegating to the active context.
type Pool struct {
	mu         sync.RWMutex
	entries    map[string]*poolEntry
	active     string
	activeRepo *Repository
	formatter  *Formatter
	maxSize    int
	lru        *list.List
	kubeconfig string
	contexts   []*ContextInfo
}

// NewPool creates a pool over all contexts in a kubeconfig
func NewPool(kubeconfig string, maxSize int) (*Pool, error) {
	if maxSize <= 0 {
		maxSize = 10
	}

	contexts, err := LoadContexts(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kubeconfig: %w", err)
	}
	if len(contexts) == 0 {
		return nil, fmt.Errorf("no contexts in %s", kubeconfig)
	}

	return &Pool{
		entries:    make(map[string]*poolEntry),
		lru:        list.New(),
		maxSize:    maxSize,
		kubeconfig: kubeconfig,
		contexts:   contexts,
	}, nil
}

// LoadContext builds and probes the client for a context. Blocking; run it
// from a command, not the update loop.
func (p *Pool) LoadContext(contextName string, progress chan<- ContextLoadProgress) error {
	p.mu.Lock()
	entry, exists := p.entries[contextName]
	if !exists {
		entry = &poolEntry{Status: StatusConnecting, ContextObj: p.contextInfo(contextName)}
		p.entries[contextName] = entry
	} else {
		entry.Status = StatusConnecting
	}
	client := entry.Client
	p.mu.Unlock()

	if progress != nil {
		progress <- ContextLoadProgress{
			Context: contextName,
			Phase:   PhaseConnecting,
			Message: "Connecting to API server...",
		}
	}

	var err error
	if client == nil {
		client, err = NewClient(p.kubeconfig, contextName)
	}
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), ConnectTimeout)
		err = client.Ping(ctx)
		cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		entry.Status = StatusFailed
		entry.Error = err
		logging.Warn("Context load failed", "context", contextName, "error", err)
		return err
	}

	if len(p.entries) > p.maxSize {
		p.evictLRU()
	}

	entry.Client = client
	entry.Status = StatusConnected
	entry.LoadedAt = time.Now()
	entry.Error = nil
	p.lru.PushFront(contextName)

	return nil
}

// SwitchContext makes a context active. The previous context's repository
// is closed first and its teardown acknowledged, so at no point do two
// contexts' caches coexist.
func (p *Pool) SwitchContext(contextName string, progress chan<- ContextLoadProgress) error {
	p.mu.RLock()
	entry, exists := p.entries[contextName]
	alreadyActive := p.active == contextName && p.activeRepo != nil
	p.mu.RUnlock()

	if alreadyActive {
		return nil
	}

	if !exists || entry.Status != StatusConnected {
		if err := p.LoadContext(contextName, progress); err != nil {
			return err
		}
	}

	// Tear down the outgoing context outside the lock; Close blocks until
	// every sync loop has acknowledged.
	p.mu.Lock()
	oldRepo := p.activeRepo
	p.activeRepo = nil
	p.mu.Unlock()

	if oldRepo != nil {
		oldRepo.Close()
	}

	if progress != nil {
		progress <- ContextLoadProgress{
			Context: contextName,
			Phase:   PhaseSeeding,
			Message: "Starting resource sync...",
		}
	}

	p.mu.Lock()
	entry = p.entries[contextName]
	if entry == nil || entry.Client == nil {
		p.mu.Unlock()
		return fmt.Errorf("context %s not loaded", contextName)
	}
	p.active = contextName
	p.activeRepo = NewRepository(entry.Client)
	p.formatter = NewFormatter(entry.Client, p.activeRepo.Store())
	p.markUsed(contextName)
	p.mu.Unlock()

	if progress != nil {
		progress <- ContextLoadProgress{
			Context: contextName,
			Phase:   PhaseComplete,
			Message: "Context ready",
		}
	}

	logging.Info("Switched context", "context", contextName)
	return nil
}

// RetryFailedContext retries loading a failed context
func (p *Pool) RetryFailedContext(contextName string, progress chan<- ContextLoadProgress) error {
	p.mu.Lock()
	if entry, ok := p.entries[contextName]; ok {
		if entry.Status != StatusFailed {
			p.mu.Unlock()
			return fmt.Errorf("context %s is not in failed state", contextName)
		}
		delete(p.entries, contextName)
	}
	p.mu.Unlock()

	return p.LoadContext(contextName, progress)
}

// GetActiveContext returns the name of the currently active context
func (p *Pool) GetActiveContext() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// activeRepository returns the active repository or nil
func (p *Pool) activeRepository() *Repository {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.activeRepo
}

// Close tears down the active repository
func (p *Pool) Close() {
	p.mu.Lock()
	repo := p.activeRepo
	p.activeRepo = nil
	p.mu.Unlock()

	if repo != nil {
		repo.Close()
	}
}

// GetAllContexts returns all contexts from kubeconfig with status
func (p *Pool) GetAllContexts() []ContextWithStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]ContextWithStatus, 0, len(p.contexts))
	for _, ctx := range p.contexts {
		status := StatusNotConnected
		var err error

		if entry, ok := p.entries[ctx.Name]; ok {
			status = entry.Status
			err = entry.Error
		}

		result = append(result, ContextWithStatus{
			ContextInfo: ctx,
			Status:      status,
			Error:       err,
			IsCurrent:   ctx.Name == p.active,
		})
	}

	return result
}

// GetContexts returns all contexts as display rows, sorted by name so
// status changes never shift list positions.
func (p *Pool) GetContexts() ([]Context, error) {
	all := p.GetAllContexts()

	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]Context, 0, len(all))
	for _, ctx := range all {
		current := ""
		if ctx.IsCurrent {
			current = "✓"
		}

		errorMsg := ""
		if ctx.Error != nil {
			errorMsg = ctx.Error.Error()
		}

		var loadedAt time.Time
		if entry, ok := p.entries[ctx.Name]; ok {
			loadedAt = entry.LoadedAt
		}

		result = append(result, Context{
			Name:      ctx.Name,
			Cluster:   ctx.Cluster,
			User:      ctx.User,
			Namespace: ctx.Namespace,
			Status:    string(ctx.Status),
			Current:   current,
			Error:     errorMsg,
			LoadedAt:  loadedAt,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// DataProvider delegation

// Acquire delegates to the active repository
func (p *Pool) Acquire(resourceType ResourceType) {
	if repo := p.activeRepository(); repo != nil {
		repo.Acquire(resourceType)
	}
}

// Release delegates to the active repository
func (p *Pool) Release(resourceType ResourceType) {
	if repo := p.activeRepository(); repo != nil {
		repo.Release(resourceType)
	}
}

// GetResources delegates to the active repository, except for contexts
// which are served by the pool itself.
func (p *Pool) GetResources(resourceType ResourceType) ([]any, error) {
	if resourceType == ResourceTypeContext {
		contexts, err := p.GetContexts()
		if err != nil {
			return nil, err
		}
		result := make([]any, len(contexts))
		for i, ctx := range contexts {
			result[i] = ctx
		}
		return result, nil
	}

	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetResources(resourceType)
}

// GetSyncInfo delegates to the active repository
func (p *Pool) GetSyncInfo() []SyncInfo {
	repo := p.activeRepository()
	if repo == nil {
		return []SyncInfo{}
	}
	return repo.GetSyncInfo()
}

// GetPodsForDeployment delegates to the active repository
func (p *Pool) GetPodsForDeployment(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsForDeployment(namespace, name)
}

// GetPodsForService delegates to the active repository
func (p *Pool) GetPodsForService(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsForService(namespace, name)
}

// GetPodsForStatefulSet delegates to the active repository
func (p *Pool) GetPodsForStatefulSet(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsForStatefulSet(namespace, name)
}

// GetPodsForDaemonSet delegates to the active repository
func (p *Pool) GetPodsForDaemonSet(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsForDaemonSet(namespace, name)
}

// GetPodsForJob delegates to the active repository
func (p *Pool) GetPodsForJob(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsForJob(namespace, name)
}

// GetPodsForReplicaSet delegates to the active repository
func (p *Pool) GetPodsForReplicaSet(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsForReplicaSet(namespace, name)
}

// GetPodsForNamespace delegates to the active repository
func (p *Pool) GetPodsForNamespace(namespace string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsForNamespace(namespace)
}

// GetPodsOnNode delegates to the active repository
func (p *Pool) GetPodsOnNode(nodeName string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsOnNode(nodeName)
}

// GetPodsUsingConfigMap delegates to the active repository
func (p *Pool) GetPodsUsingConfigMap(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsUsingConfigMap(namespace, name)
}

// GetPodsUsingSecret delegates to the active repository
func (p *Pool) GetPodsUsingSecret(namespace, name string) ([]Pod, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetPodsUsingSecret(namespace, name)
}

// GetReplicaSetsForDeployment delegates to the active repository
func (p *Pool) GetReplicaSetsForDeployment(namespace, name string) ([]ReplicaSet, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetReplicaSetsForDeployment(namespace, name)
}

// GetJobsForCronJob delegates to the active repository
func (p *Pool) GetJobsForCronJob(namespace, name string) ([]Job, error) {
	repo := p.activeRepository()
	if repo == nil {
		return nil, fmt.Errorf("no active context")
	}
	return repo.GetJobsForCronJob(namespace, name)
}

// DeleteResource delegates to the active repository
func (p *Pool) DeleteResource(ctx context.Context, resourceType ResourceType, namespace, name string) error {
	repo := p.activeRepository()
	if repo == nil {
		return fmt.Errorf("no active context")
	}
	return repo.DeleteResource(ctx, resourceType, namespace, name)
}

// ScaleResource delegates to the active repository
func (p *Pool) ScaleResource(ctx context.Context, resourceType ResourceType, namespace, name string, replicas int32) error {
	repo := p.activeRepository()
	if repo == nil {
		return fmt.Errorf("no active context")
	}
	return repo.ScaleResource(ctx, resourceType, namespace, name, replicas)
}

// RestartResource delegates to the active repository
func (p *Pool) RestartResource(ctx context.Context, resourceType ResourceType, namespace, name string) error {
	repo := p.activeRepository()
	if repo == nil {
		return fmt.Errorf("no active context")
	}
	return repo.RestartResource(ctx, resourceType, namespace, name)
}

// GetPodLogs delegates to the active repository
func (p *Pool) GetPodLogs(ctx context.Context, namespace, name, container string, tailLines int64) (string, error) {
	repo := p.activeRepository()
	if repo == nil {
		return "", fmt.Errorf("no active context")
	}
	return repo.GetPodLogs(ctx, namespace, name, container, tailLines)
}

// GetKubeconfig returns the kubeconfig path
func (p *Pool) GetKubeconfig() string {
	return p.kubeconfig
}

// GetContext returns the current context name (alias for GetActiveContext)
func (p *Pool) GetContext() string {
	return p.GetActiveContext()
}

// ResourceFormatter delegation

// GetResourceYAML delegates to the active context's formatter
func (p *Pool) GetResourceYAML(gvr schema.GroupVersionResource, namespace, name string) (string, error) {
	p.mu.RLock()
	formatter := p.formatter
	p.mu.RUnlock()

	if formatter == nil {
		return "", fmt.Errorf("no active context")
	}
	return formatter.GetResourceYAML(gvr, namespace, name)
}

// DescribeResource delegates to the active context's formatter
func (p *Pool) DescribeResource(gvr schema.GroupVersionResource, namespace, name string) (string, error) {
	p.mu.RLock()
	formatter := p.formatter
	p.mu.RUnlock()

	if formatter == nil {
		return "", fmt.Errorf("no active context")
	}
	return formatter.DescribeResource(gvr, namespace, name)
}

// SetTestClient injects a prebuilt client for a context, bypassing
// LoadContext. For tests only: lets fake clientsets stand in for a real
// API server.
func (p *Pool) SetTestClient(contextName string, client *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries[contextName] = &poolEntry{
		Client:   client,
		Status:   StatusConnected,
		LoadedAt: time.Now(),
	}
	p.lru.PushFront(contextName)
}

// Private helper methods

// contextInfo finds the parsed kubeconfig entry for a context name
// Must be called with p.mu held
func (p *Pool) contextInfo(contextName string) *ContextInfo {
	for _, ctx := range p.contexts {
		if ctx.Name == contextName {
			return ctx
		}
	}
	return nil
}

// markUsed moves a context to the front of the LRU list
// Must be called with p.mu held
func (p *Pool) markUsed(contextName string) {
	for e := p.lru.Front(); e != nil; e = e.Next() {
		if e.Value.(string) == contextName {
			p.lru.MoveToFront(e)
			return
		}
	}
}

// evictLRU evicts the least recently used non-active context's client
// Must be called with p.mu held
func (p *Pool) evictLRU() {
	for e := p.lru.Back(); e != nil; e = e.Prev() {
		contextName := e.Value.(string)
		if contextName == p.active {
			continue
		}
		delete(p.entries, contextName)
		p.lru.Remove(e)
		logging.Debug("Evicted idle context client", "context", contextName)
		return
	}
}
