package k8s

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/renato0307/vigia/internal/logging"
)

// SyncState describes the health of one kind's cache
type SyncState string

const (
	// SyncStateSyncing means a list is in flight and the cache may be empty
	SyncStateSyncing SyncState = "Syncing"
	// SyncStateSynced means the watch is established and the cache is live
	SyncStateSynced SyncState = "Synced"
	// SyncStateDegraded means the watch is down; cached data is served while
	// the sync loop reconnects
	SyncStateDegraded SyncState = "Degraded"
	// SyncStateFailed means the server rejected us (usually RBAC); the sync
	// loop retries slowly
	SyncStateFailed SyncState = "Failed"
)

// ApplyResult reports what the store did with a watch event
type ApplyResult string

const (
	ApplyApplied          ApplyResult = "applied"
	ApplyDeleted          ApplyResult = "deleted"
	ApplyDroppedStale     ApplyResult = "dropped-stale"
	ApplyDroppedTombstone ApplyResult = "dropped-tombstone"
	ApplyDroppedMalformed ApplyResult = "dropped-malformed"
)

// Object is one cached resource: the typed row for tables plus the raw
// object so YAML and describe views never need a refetch.
type Object struct {
	Key       string
	Revision  uint64
	Summary   any
	Raw       *unstructured.Unstructured
	UpdatedAt time.Time
}

// SyncInfo is a point-in-time report of one kind's cache, rendered by the
// sync status screen.
type SyncInfo struct {
	ResourceType     ResourceType
	State            SyncState
	Count            int
	Revision         uint64
	Applied          uint64
	DroppedStale     uint64
	DroppedTombstone uint64
	DroppedMalformed uint64
	Relists          uint64
	LastSyncedAt     time.Time
	LastError        string
}

// kindCache holds everything the store knows about one resource type.
// A single sync loop goroutine is the only writer for a given kind; the
// mutex in Store protects readers and cross-kind operations.
type kindCache struct {
	objects map[string]Object

	// tombstones remembers deleted keys. A tombstoned key rejects every
	// later add or modify, even with a newer revision and even when the
	// delete arrived before the add it raced with. Only a fresh list
	// clears tombstones, because only a list is ground truth.
	tombstones map[string]uint64

	revision   uint64
	state      SyncState
	lastError  string
	lastSynced time.Time

	applied          uint64
	droppedStale     uint64
	droppedTombstone uint64
	droppedMalformed uint64
	relists          uint64
}

// Store is the revision-ordered cache for all watched kinds of one context.
// Sync loops write into it; the render layer reads snapshots out of it.
// Reads never block on the network.
type Store struct {
	mu       sync.RWMutex
	kinds    map[ResourceType]*kindCache
	registry map[ResourceType]ResourceConfig
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		kinds:    make(map[ResourceType]*kindCache),
		registry: getResourceRegistry(),
	}
}

// objectKey builds the cache key for a resource. Cluster-scoped resources
// key by bare name.
func objectKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}

// parseRevision parses a resourceVersion for ordering. The API contract
// treats resourceVersions as opaque, but within a single kind they are
// numerically comparable in every real apiserver. A token that does not
// parse reports ordered false; updates carrying one apply in arrival
// order, the only order left.
func parseRevision(rv string) (revision uint64, ordered bool) {
	if rv == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(rv, 10, 64)
	if err != nil {
		logging.Debug("Unparsable resourceVersion", "resourceVersion", rv)
		return 0, false
	}
	return n, true
}

// ensureKind returns the cache for a kind, creating it on first use.
// Must be called with s.mu held.
func (s *Store) ensureKind(resourceType ResourceType) *kindCache {
	kc, ok := s.kinds[resourceType]
	if !ok {
		kc = &kindCache{
			objects:    make(map[string]Object),
			tombstones: make(map[string]uint64),
			state:      SyncStateSyncing,
		}
		s.kinds[resourceType] = kc
	}
	return kc
}

// Reseed replaces a kind's cache with a fresh list snapshot. Tombstones are
// cleared: the list is ground truth, so a key present in it exists no matter
// what order earlier watch events arrived in. Counters survive reseeds so
// the status screen shows cumulative history.
func (s *Store) Reseed(resourceType ResourceType, items []*unstructured.Unstructured, listRevision string) int {
	config, ok := s.registry[resourceType]
	if !ok {
		return 0
	}

	objects := make(map[string]Object, len(items))
	malformed := uint64(0)
	now := time.Now()

	for _, u := range items {
		if u == nil || u.GetName() == "" {
			malformed++
			continue
		}
		common := extractMetadata(u)
		summary, err := config.Transform(u, common)
		if err != nil {
			malformed++
			continue
		}
		key := objectKey(u.GetNamespace(), u.GetName())
		revision, _ := parseRevision(u.GetResourceVersion())
		objects[key] = Object{
			Key:       key,
			Revision:  revision,
			Summary:   summary,
			Raw:       u,
			UpdatedAt: now,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kc := s.ensureKind(resourceType)
	kc.objects = objects
	kc.tombstones = make(map[string]uint64)
	kc.revision, _ = parseRevision(listRevision)
	kc.state = SyncStateSynced
	kc.lastError = ""
	kc.lastSynced = now
	kc.relists++
	kc.droppedMalformed += malformed

	return len(objects)
}

// Apply folds one watch event into the cache and reports what happened.
//
// Ordering rules, in precedence order:
//   - malformed events are dropped and counted
//   - a delete always wins and leaves a tombstone, even for a key the cache
//     has never seen (the add it raced with may still be in flight)
//   - adds and modifies against a tombstoned key are dropped
//   - adds and modifies apply only when strictly newer than the cached
//     copy; an unorderable revision applies in arrival order
func (s *Store) Apply(resourceType ResourceType, eventType watch.EventType, u *unstructured.Unstructured) ApplyResult {
	config, ok := s.registry[resourceType]
	if !ok {
		return ApplyDroppedMalformed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kc := s.ensureKind(resourceType)

	if u == nil || u.GetName() == "" {
		kc.droppedMalformed++
		return ApplyDroppedMalformed
	}

	key := objectKey(u.GetNamespace(), u.GetName())
	revision, ordered := parseRevision(u.GetResourceVersion())

	switch eventType {
	case watch.Deleted:
		delete(kc.objects, key)
		kc.tombstones[key] = revision
		kc.applied++
		if revision > kc.revision {
			kc.revision = revision
		}
		return ApplyDeleted

	case watch.Added, watch.Modified:
		if _, dead := kc.tombstones[key]; dead {
			kc.droppedTombstone++
			return ApplyDroppedTombstone
		}
		if existing, ok := kc.objects[key]; ok && ordered && revision <= existing.Revision {
			kc.droppedStale++
			return ApplyDroppedStale
		}

		common := extractMetadata(u)
		summary, err := config.Transform(u, common)
		if err != nil {
			kc.droppedMalformed++
			return ApplyDroppedMalformed
		}

		kc.objects[key] = Object{
			Key:       key,
			Revision:  revision,
			Summary:   summary,
			Raw:       u,
			UpdatedAt: time.Now(),
		}
		kc.applied++
		if revision > kc.revision {
			kc.revision = revision
		}
		return ApplyApplied

	default:
		kc.droppedMalformed++
		return ApplyDroppedMalformed
	}
}

// AdvanceRevision records a bookmark revision. Bookmarks carry no object
// data; they only keep the resume point fresh so reconnects are less likely
// to hit a compacted revision.
func (s *Store) AdvanceRevision(resourceType ResourceType, rv string) {
	revision, ok := parseRevision(rv)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kc := s.ensureKind(resourceType)
	if revision > kc.revision {
		kc.revision = revision
	}
}

// Revision returns the resume revision for a kind
func (s *Store) Revision(resourceType ResourceType) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if kc, ok := s.kinds[resourceType]; ok {
		return kc.revision
	}
	return 0
}

// MarkSyncing flags a kind as (re)listing
func (s *Store) MarkSyncing(resourceType ResourceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureKind(resourceType).state = SyncStateSyncing
}

// MarkDegraded flags a kind as serving cached data while its watch reconnects
func (s *Store) MarkDegraded(resourceType ResourceType, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kc := s.ensureKind(resourceType)
	kc.state = SyncStateDegraded
	if err != nil {
		kc.lastError = err.Error()
	}
}

// MarkFailed flags a kind as rejected by the server
func (s *Store) MarkFailed(resourceType ResourceType, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kc := s.ensureKind(resourceType)
	kc.state = SyncStateFailed
	if err != nil {
		kc.lastError = err.Error()
	}
}

// Snapshot returns the typed rows for a kind. The slice is freshly built so
// callers can sort and filter without holding any lock.
func (s *Store) Snapshot(resourceType ResourceType) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kc, ok := s.kinds[resourceType]
	if !ok {
		return nil
	}

	items := make([]any, 0, len(kc.objects))
	for _, obj := range kc.objects {
		items = append(items, obj.Summary)
	}
	return items
}

// GetObject returns the cached object for a single resource
func (s *Store) GetObject(resourceType ResourceType, namespace, name string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kc, ok := s.kinds[resourceType]
	if !ok {
		return Object{}, false
	}
	obj, ok := kc.objects[objectKey(namespace, name)]
	return obj, ok
}

// SyncInfoFor returns the status report for one kind
func (s *Store) SyncInfoFor(resourceType ResourceType) (SyncInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kc, ok := s.kinds[resourceType]
	if !ok {
		return SyncInfo{}, false
	}
	return syncInfo(resourceType, kc), true
}

// SyncInfos returns status reports for all kinds currently in the store,
// sorted by resource type for stable display.
func (s *Store) SyncInfos() []SyncInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]SyncInfo, 0, len(s.kinds))
	for resourceType, kc := range s.kinds {
		infos = append(infos, syncInfo(resourceType, kc))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ResourceType < infos[j].ResourceType
	})

	return infos
}

func syncInfo(resourceType ResourceType, kc *kindCache) SyncInfo {
	return SyncInfo{
		ResourceType:     resourceType,
		State:            kc.state,
		Count:            len(kc.objects),
		Revision:         kc.revision,
		Applied:          kc.applied,
		DroppedStale:     kc.droppedStale,
		DroppedTombstone: kc.droppedTombstone,
		DroppedMalformed: kc.droppedMalformed,
		Relists:          kc.relists,
		LastSyncedAt:     kc.lastSynced,
		LastError:        kc.lastError,
	}
}

// DropKind releases a kind's cache entirely. Called when the last
// subscriber is gone and the grace period has lapsed.
func (s *Store) DropKind(resourceType ResourceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kinds, resourceType)
}

// Clear releases every kind. Called on context switch, after all sync
// loops have acknowledged their stop.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = make(map[ResourceType]*kindCache)
}
