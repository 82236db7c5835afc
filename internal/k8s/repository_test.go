package k8s

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	k8stesting "k8s.io/client-go/testing"
)

func labeledPodU(namespace, name, rv string, podLabels map[string]string, ownerUIDs ...string) *unstructured.Unstructured {
	u := podU(namespace, name, rv)
	if len(podLabels) > 0 {
		u.SetLabels(podLabels)
	}
	if len(ownerUIDs) > 0 {
		refs := make([]metav1.OwnerReference, 0, len(ownerUIDs))
		for _, uid := range ownerUIDs {
			refs = append(refs, metav1.OwnerReference{
				APIVersion: "apps/v1",
				Kind:       "ReplicaSet",
				Name:       "owner",
				UID:        types.UID(uid),
			})
		}
		u.SetOwnerReferences(refs)
	}
	return u
}

func mountedPodU(namespace, name, rv, configMap, secret string) *unstructured.Unstructured {
	u := podU(namespace, name, rv)
	volumes := []any{}
	if configMap != "" {
		volumes = append(volumes, map[string]any{
			"name":      "cfg",
			"configMap": map[string]any{"name": configMap},
		})
	}
	if secret != "" {
		volumes = append(volumes, map[string]any{
			"name":   "creds",
			"secret": map[string]any{"secretName": secret},
		})
	}
	_ = unstructured.SetNestedSlice(u.Object, volumes, "spec", "volumes")
	return u
}

func deploymentU(namespace, name, rv, uid string, selector map[string]string) *unstructured.Unstructured {
	matchLabels := map[string]any{}
	for k, v := range selector {
		matchLabels[k] = v
	}
	u := &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "apps/v1",
			"kind":       "Deployment",
			"spec": map[string]any{
				"replicas": int64(2),
				"selector": map[string]any{"matchLabels": matchLabels},
			},
			"status": map[string]any{
				"readyReplicas":     int64(2),
				"updatedReplicas":   int64(2),
				"availableReplicas": int64(2),
			},
		},
	}
	u.SetNamespace(namespace)
	u.SetName(name)
	u.SetResourceVersion(rv)
	u.SetUID(types.UID(uid))
	return u
}

func serviceU(namespace, name, rv string, selector map[string]string) *unstructured.Unstructured {
	spec := map[string]any{
		"type":      "ClusterIP",
		"clusterIP": "10.96.0.10",
	}
	if len(selector) > 0 {
		sel := map[string]any{}
		for k, v := range selector {
			sel[k] = v
		}
		spec["selector"] = sel
	}
	u := &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "v1",
			"kind":       "Service",
			"spec":       spec,
			"status":     map[string]any{},
		},
	}
	u.SetNamespace(namespace)
	u.SetName(name)
	u.SetResourceVersion(rv)
	return u
}

// ownedU builds a minimal workload object with a UID and optional owner
func ownedU(apiVersion, kind, namespace, name, rv, uid, ownerUID string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": apiVersion,
			"kind":       kind,
			"spec":       map[string]any{},
			"status":     map[string]any{},
		},
	}
	u.SetNamespace(namespace)
	u.SetName(name)
	u.SetResourceVersion(rv)
	u.SetUID(types.UID(uid))
	if ownerUID != "" {
		u.SetOwnerReferences([]metav1.OwnerReference{{
			APIVersion: apiVersion,
			Kind:       "Owner",
			Name:       "owner",
			UID:        types.UID(ownerUID),
		}})
	}
	return u
}

func eventuallySynced(t *testing.T, repo *Repository, kinds ...ResourceType) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, kind := range kinds {
			info, ok := repo.Store().SyncInfoFor(kind)
			if !ok || info.State != SyncStateSynced {
				return false
			}
		}
		return true
	}, 3*time.Second, 10*time.Millisecond)
}

func TestRepositoryAcquireStartsSync(t *testing.T) {
	older := podU("default", "web-1", "10")
	older.SetCreationTimestamp(metav1.NewTime(time.Now().Add(-2 * time.Hour)))
	newer := podU("default", "web-2", "11")
	newer.SetCreationTimestamp(metav1.NewTime(time.Now().Add(-1 * time.Hour)))

	client, _ := newFakeClient(older, newer)
	repo := NewRepository(client)
	defer repo.Close()

	repo.Acquire(ResourceTypePod)
	eventuallySynced(t, repo, ResourceTypePod)

	resources, err := repo.GetResources(ResourceTypePod)
	require.NoError(t, err)
	require.Len(t, resources, 2)

	// Newest first
	first, ok := resources[0].(Pod)
	require.True(t, ok)
	assert.Equal(t, "web-2", first.Name)
}

func TestRepositoryGetResourcesBeforeAcquire(t *testing.T) {
	client, _ := newFakeClient()
	repo := NewRepository(client)
	defer repo.Close()

	// Not synced is not an error; the sync status screen explains why a
	// list is empty
	resources, err := repo.GetResources(ResourceTypePod)
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestRepositoryUnknownResourceType(t *testing.T) {
	client, _ := newFakeClient()
	repo := NewRepository(client)
	defer repo.Close()

	repo.Acquire(ResourceType("widgets")) // no-op, no panic

	_, err := repo.GetResources(ResourceType("widgets"))
	assert.Error(t, err)

	_, err = repo.GetResources(ResourceTypeContext)
	assert.Error(t, err, "contexts belong to the pool")
}

func TestRepositoryReacquireWithinGrace(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	var listCalls atomic.Int32
	dyn.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		listCalls.Add(1)
		return false, nil, nil
	})

	repo := NewRepository(client)
	defer repo.Close()

	repo.Acquire(ResourceTypePod)
	eventuallySynced(t, repo, ResourceTypePod)
	require.Equal(t, int32(1), listCalls.Load())

	// Release and immediately re-acquire: the loop must keep running on its
	// warm cache instead of paying for a second list
	repo.Release(ResourceTypePod)
	repo.Acquire(ResourceTypePod)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), listCalls.Load())

	resources, err := repo.GetResources(ResourceTypePod)
	require.NoError(t, err)
	assert.Len(t, resources, 1)
}

func TestRepositoryAcquireIsRefcounted(t *testing.T) {
	client, dyn := newFakeClient(podU("default", "web-1", "10"))

	var listCalls atomic.Int32
	dyn.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		listCalls.Add(1)
		return false, nil, nil
	})

	repo := NewRepository(client)
	defer repo.Close()

	repo.Acquire(ResourceTypePod)
	repo.Acquire(ResourceTypePod)
	eventuallySynced(t, repo, ResourceTypePod)

	// One of two subscribers leaving changes nothing
	repo.Release(ResourceTypePod)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), listCalls.Load())
	resources, _ := repo.GetResources(ResourceTypePod)
	assert.Len(t, resources, 1)
}

func TestRepositoryCloseStopsAndClears(t *testing.T) {
	client, _ := newFakeClient(
		podU("default", "web-1", "10"),
		deploymentU("default", "web", "20", "uid-deploy", map[string]string{"app": "web"}),
	)

	repo := NewRepository(client)
	repo.Acquire(ResourceTypePod)
	repo.Acquire(ResourceTypeDeployment)
	eventuallySynced(t, repo, ResourceTypePod, ResourceTypeDeployment)

	repo.Close()

	resources, err := repo.GetResources(ResourceTypePod)
	require.NoError(t, err)
	assert.Empty(t, resources)
	assert.Empty(t, repo.GetSyncInfo())

	// Acquire after close must not start anything
	repo.Acquire(ResourceTypePod)
	time.Sleep(100 * time.Millisecond)
	resources, _ = repo.GetResources(ResourceTypePod)
	assert.Empty(t, resources)

	// Idempotent
	repo.Close()
}

func TestRepositorySelectorQueries(t *testing.T) {
	client, _ := newFakeClient(
		deploymentU("default", "web", "1", "uid-deploy-web", map[string]string{"app": "web"}),
		serviceU("default", "web-svc", "2", map[string]string{"app": "web"}),
		serviceU("default", "headless", "3", nil),
		labeledPodU("default", "web-1", "10", map[string]string{"app": "web"}),
		labeledPodU("default", "web-2", "11", map[string]string{"app": "web", "track": "canary"}),
		labeledPodU("default", "other-1", "12", map[string]string{"app": "other"}),
		labeledPodU("staging", "web-9", "13", map[string]string{"app": "web"}),
	)

	repo := NewRepository(client)
	defer repo.Close()
	repo.Acquire(ResourceTypePod)
	repo.Acquire(ResourceTypeDeployment)
	repo.Acquire(ResourceTypeService)
	eventuallySynced(t, repo, ResourceTypePod, ResourceTypeDeployment, ResourceTypeService)

	pods, err := repo.GetPodsForDeployment("default", "web")
	require.NoError(t, err)
	require.Len(t, pods, 2, "selector matches are namespace-scoped")
	names := []string{pods[0].Name, pods[1].Name}
	assert.ElementsMatch(t, []string{"web-1", "web-2"}, names)

	pods, err = repo.GetPodsForService("default", "web-svc")
	require.NoError(t, err)
	assert.Len(t, pods, 2)

	// A service without a selector matches nothing rather than everything
	pods, err = repo.GetPodsForService("default", "headless")
	require.NoError(t, err)
	assert.Empty(t, pods)

	_, err = repo.GetPodsForDeployment("default", "missing")
	assert.Error(t, err)
}

func TestRepositoryOwnerQueries(t *testing.T) {
	client, _ := newFakeClient(
		ownedU("apps/v1", "StatefulSet", "prod", "postgres", "1", "uid-sts", ""),
		ownedU("apps/v1", "DaemonSet", "kube-system", "proxy", "2", "uid-ds", ""),
		ownedU("batch/v1", "Job", "prod", "migrate", "3", "uid-job", ""),
		ownedU("batch/v1", "Job", "prod", "backup-29012345", "4", "uid-job-backup", "uid-cronjob"),
		ownedU("batch/v1", "CronJob", "prod", "backup", "5", "uid-cronjob", ""),
		ownedU("apps/v1", "ReplicaSet", "default", "web-abc", "6", "uid-rs", "uid-deploy-web"),
		deploymentU("default", "web", "7", "uid-deploy-web", map[string]string{"app": "web"}),
		labeledPodU("prod", "postgres-0", "10", nil, "uid-sts"),
		labeledPodU("kube-system", "proxy-x1", "11", nil, "uid-ds"),
		labeledPodU("prod", "migrate-k2", "12", nil, "uid-job"),
		labeledPodU("default", "web-abc-p1", "13", map[string]string{"app": "web"}, "uid-rs"),
	)

	repo := NewRepository(client)
	defer repo.Close()
	for _, kind := range []ResourceType{
		ResourceTypePod, ResourceTypeStatefulSet, ResourceTypeDaemonSet,
		ResourceTypeJob, ResourceTypeCronJob, ResourceTypeReplicaSet,
		ResourceTypeDeployment,
	} {
		repo.Acquire(kind)
	}
	eventuallySynced(t, repo,
		ResourceTypePod, ResourceTypeStatefulSet, ResourceTypeDaemonSet,
		ResourceTypeJob, ResourceTypeCronJob, ResourceTypeReplicaSet,
		ResourceTypeDeployment)

	pods, err := repo.GetPodsForStatefulSet("prod", "postgres")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "postgres-0", pods[0].Name)

	pods, err = repo.GetPodsForDaemonSet("kube-system", "proxy")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "proxy-x1", pods[0].Name)

	pods, err = repo.GetPodsForJob("prod", "migrate")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "migrate-k2", pods[0].Name)

	pods, err = repo.GetPodsForReplicaSet("default", "web-abc")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "web-abc-p1", pods[0].Name)

	replicaSets, err := repo.GetReplicaSetsForDeployment("default", "web")
	require.NoError(t, err)
	require.Len(t, replicaSets, 1)
	assert.Equal(t, "web-abc", replicaSets[0].Name)

	jobs, err := repo.GetJobsForCronJob("prod", "backup")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "backup-29012345", jobs[0].Name)

	// Owner walks need the source cached; a missing source is an error
	_, err = repo.GetPodsForStatefulSet("prod", "missing")
	assert.Error(t, err)
}

func TestRepositoryPlacementQueries(t *testing.T) {
	client, _ := newFakeClient(
		labeledPodU("default", "web-1", "10", nil),
		labeledPodU("staging", "web-2", "11", nil),
		mountedPodU("default", "cfg-user", "12", "app-config", ""),
		mountedPodU("default", "secret-user", "13", "", "db-creds"),
	)

	repo := NewRepository(client)
	defer repo.Close()
	repo.Acquire(ResourceTypePod)
	eventuallySynced(t, repo, ResourceTypePod)

	pods, err := repo.GetPodsForNamespace("default")
	require.NoError(t, err)
	assert.Len(t, pods, 3)

	pods, err = repo.GetPodsOnNode("node-1")
	require.NoError(t, err)
	assert.Len(t, pods, 4, "podU schedules everything onto node-1")

	pods, err = repo.GetPodsUsingConfigMap("default", "app-config")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "cfg-user", pods[0].Name)

	pods, err = repo.GetPodsUsingSecret("default", "db-creds")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "secret-user", pods[0].Name)

	pods, err = repo.GetPodsUsingConfigMap("staging", "app-config")
	require.NoError(t, err)
	assert.Empty(t, pods)
}
