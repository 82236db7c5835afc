package k8s

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8sfake "k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

// newFakeClient builds a Client backed by fake clientsets, seeded with the
// given objects.
func newFakeClient(objects ...runtime.Object) (*Client, *dynamicfake.FakeDynamicClient) {
	scheme := runtime.NewScheme()
	listKinds := map[schema.GroupVersionResource]string{
		{Group: "", Version: "v1", Resource: "pods"}:             "PodList",
		{Group: "", Version: "v1", Resource: "services"}:         "ServiceList",
		{Group: "", Version: "v1", Resource: "configmaps"}:       "ConfigMapList",
		{Group: "", Version: "v1", Resource: "secrets"}:          "SecretList",
		{Group: "", Version: "v1", Resource: "namespaces"}:       "NamespaceList",
		{Group: "", Version: "v1", Resource: "nodes"}:            "NodeList",
		{Group: "apps", Version: "v1", Resource: "deployments"}:  "DeploymentList",
		{Group: "apps", Version: "v1", Resource: "statefulsets"}: "StatefulSetList",
		{Group: "apps", Version: "v1", Resource: "daemonsets"}:   "DaemonSetList",
		{Group: "apps", Version: "v1", Resource: "replicasets"}:  "ReplicaSetList",
		{Group: "batch", Version: "v1", Resource: "jobs"}:        "JobList",
		{Group: "batch", Version: "v1", Resource: "cronjobs"}:    "CronJobList",
	}

	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, listKinds, objects...)
	return newClient(dyn, k8sfake.NewSimpleClientset(), "", "test-context"), dyn
}

// startSyncKind runs a sync loop for pods and returns its store, a cancel
// func and a channel closed when the loop exits.
func startSyncKind(client *Client) (*Store, context.CancelFunc, chan struct{}) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		syncKind(ctx, client, store, ResourceTypePod)
	}()
	return store, cancel, done
}

func waitStopped(t *testing.T, cancel context.CancelFunc, done chan struct{}) {
	t.Helper()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync loop did not stop after cancel")
	}
}

func TestSyncKindSeedsFromList(t *testing.T) {
	client, _ := newFakeClient(
		podU("default", "web-1", "10"),
		podU("default", "web-2", "11"),
	)

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	require.Eventually(t, func() bool {
		info, ok := store.SyncInfoFor(ResourceTypePod)
		return ok && info.State == SyncStateSynced && info.Count == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncKindAppliesWatchEvents(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	watchers := make(chan *watch.FakeWatcher, 4)
	dyn.PrependWatchReactor("pods", func(action k8stesting.Action) (bool, watch.Interface, error) {
		fw := watch.NewFake()
		watchers <- fw
		return true, fw, nil
	})

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	fw := <-watchers

	fw.Add(podU("default", "web-2", "20"))
	require.Eventually(t, func() bool {
		return len(store.Snapshot(ResourceTypePod)) == 2
	}, 2*time.Second, 10*time.Millisecond)

	fw.Delete(podU("default", "web-1", "21"))
	require.Eventually(t, func() bool {
		return len(store.Snapshot(ResourceTypePod)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A stale modify is counted but not applied
	fw.Modify(podU("default", "web-2", "15"))
	require.Eventually(t, func() bool {
		info, _ := store.SyncInfoFor(ResourceTypePod)
		return info.DroppedStale == 1
	}, 2*time.Second, 10*time.Millisecond)

	obj, ok := store.GetObject(ResourceTypePod, "default", "web-2")
	require.True(t, ok)
	assert.Equal(t, uint64(20), obj.Revision)
}

func TestSyncKindResumesAfterCleanClose(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	var listCalls atomic.Int32
	dyn.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		listCalls.Add(1)
		return false, nil, nil
	})

	watchers := make(chan *watch.FakeWatcher, 4)
	dyn.PrependWatchReactor("pods", func(action k8stesting.Action) (bool, watch.Interface, error) {
		fw := watch.NewFake()
		watchers <- fw
		return true, fw, nil
	})

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	first := <-watchers
	first.Add(podU("default", "web-2", "20"))
	require.Eventually(t, func() bool {
		return len(store.Snapshot(ResourceTypePod)) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Server-side timeout: the stream closes cleanly. The loop must open a
	// new watch without relisting, and the cache keeps its state.
	first.Stop()

	var second *watch.FakeWatcher
	select {
	case second = <-watchers:
	case <-time.After(2 * time.Second):
		t.Fatal("no re-watch after clean close")
	}

	second.Add(podU("default", "web-3", "30"))
	require.Eventually(t, func() bool {
		return len(store.Snapshot(ResourceTypePod)) == 3
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(1), listCalls.Load(), "clean close must not trigger a relist")
	info, _ := store.SyncInfoFor(ResourceTypePod)
	assert.Equal(t, uint64(1), info.Relists)
}

func TestSyncKindRelistsOnWatchError(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	var listCalls atomic.Int32
	dyn.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		listCalls.Add(1)
		return false, nil, nil
	})

	watchers := make(chan *watch.FakeWatcher, 4)
	dyn.PrependWatchReactor("pods", func(action k8stesting.Action) (bool, watch.Interface, error) {
		fw := watch.NewFake()
		watchers <- fw
		return true, fw, nil
	})

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	fw := <-watchers
	require.Eventually(t, func() bool {
		info, _ := store.SyncInfoFor(ResourceTypePod)
		return info.State == SyncStateSynced
	}, 2*time.Second, 10*time.Millisecond)

	// An error event means the stream cannot be resumed; only a fresh list
	// recovers.
	expired := apierrors.NewResourceExpired("revision compacted")
	fw.Error(&expired.ErrStatus)

	require.Eventually(t, func() bool {
		info, _ := store.SyncInfoFor(ResourceTypePod)
		return info.Relists == 2 && info.State == SyncStateSynced
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, listCalls.Load(), int32(2))

	// Stream for the second round is live
	<-watchers
}

func TestSyncKindMarksFailedOnForbidden(t *testing.T) {
	client, dyn := newFakeClient()

	dyn.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(
			schema.GroupResource{Resource: "pods"}, "", nil)
	})

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	require.Eventually(t, func() bool {
		info, ok := store.SyncInfoFor(ResourceTypePod)
		return ok && info.State == SyncStateFailed && info.LastError != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncKindRecoversFromTransientListFailure(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	var listCalls atomic.Int32
	dyn.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		if listCalls.Add(1) == 1 {
			return true, nil, apierrors.NewInternalError(assert.AnError)
		}
		return false, nil, nil
	})

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	// The client absorbs the failure on its in-call retry: the kind reaches
	// synced without ever reporting degraded.
	require.Eventually(t, func() bool {
		info, ok := store.SyncInfoFor(ResourceTypePod)
		return ok && info.State == SyncStateSynced && info.Count == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, listCalls.Load(), int32(2))
}

func TestSyncKindMarksDegradedOnUnretryableListFailure(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	var listCalls atomic.Int32
	dyn.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		if listCalls.Add(1) == 1 {
			return true, nil, apierrors.NewNotFound(schema.GroupResource{Resource: "pods"}, "")
		}
		return false, nil, nil
	})

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	// Not-found is not retried in-call, so the failure escapes to the sync
	// loop, which reports it and relists on its own schedule.
	require.Eventually(t, func() bool {
		info, ok := store.SyncInfoFor(ResourceTypePod)
		return ok && info.State == SyncStateDegraded && info.LastError != ""
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		info, _ := store.SyncInfoFor(ResourceTypePod)
		return info.State == SyncStateSynced && info.Count == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, listCalls.Load(), int32(2))
}

func TestSyncKindBookmarkAdvancesResume(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	watchers := make(chan *watch.FakeWatcher, 4)
	var watchRevisions []string
	dyn.PrependWatchReactor("pods", func(action k8stesting.Action) (bool, watch.Interface, error) {
		if wa, ok := action.(k8stesting.WatchActionImpl); ok {
			watchRevisions = append(watchRevisions, wa.WatchRestrictions.ResourceVersion)
		}
		fw := watch.NewFake()
		watchers <- fw
		return true, fw, nil
	})

	store, cancel, done := startSyncKind(client)
	defer waitStopped(t, cancel, done)

	first := <-watchers

	bookmark := podU("default", "web-1", "500")
	first.Action(watch.Bookmark, bookmark)
	require.Eventually(t, func() bool {
		return store.Revision(ResourceTypePod) == 500
	}, 2*time.Second, 10*time.Millisecond)

	// The next watch resumes from the bookmarked revision
	first.Stop()
	<-watchers
	require.Len(t, watchRevisions, 2)
	assert.Equal(t, "500", watchRevisions[1])
}
