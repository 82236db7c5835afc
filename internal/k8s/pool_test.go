package k8s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// poolKubeconfig writes a kubeconfig with the given contexts, all pointing
// at an unreachable server. Tests that need a working cluster inject fake
// clients with SetTestClient instead of dialing.
func poolKubeconfig(t *testing.T, contexts ...string) string {
	t.Helper()

	if len(contexts) == 0 {
		contexts = []string{"test-context-1", "test-context-2", "test-context-3"}
	}

	config := clientcmdapi.NewConfig()
	config.Clusters["test-cluster"] = &clientcmdapi.Cluster{
		Server:                "https://127.0.0.1:1",
		InsecureSkipTLSVerify: true,
	}
	config.AuthInfos["test-user"] = &clientcmdapi.AuthInfo{
		Token: "test-token",
	}
	for _, ctxName := range contexts {
		config.Contexts[ctxName] = &clientcmdapi.Context{
			Cluster:   "test-cluster",
			AuthInfo:  "test-user",
			Namespace: "default",
		}
	}
	config.CurrentContext = contexts[0]

	return writeKubeconfig(t, config)
}

func TestNewPool(t *testing.T) {
	tests := []struct {
		name        string
		maxSize     int
		expectError bool
	}{
		{
			name:        "default size",
			maxSize:     0, // Should default to 10
			expectError: false,
		},
		{
			name:        "custom size",
			maxSize:     5,
			expectError: false,
		},
		{
			name:        "negative maxSize defaults to 10",
			maxSize:     -1,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kubeconfigPath := poolKubeconfig(t)

			pool, err := NewPool(kubeconfigPath, tt.maxSize)
			require.NoError(t, err)
			require.NotNil(t, pool)
			defer pool.Close()

			contexts := pool.GetAllContexts()
			require.Len(t, contexts, 3)
			for _, ctx := range contexts {
				assert.Equal(t, StatusNotConnected, ctx.Status)
				assert.False(t, ctx.IsCurrent)
			}
		})
	}

	t.Run("invalid kubeconfig path", func(t *testing.T) {
		pool, err := NewPool("/nonexistent/path/kubeconfig", 10)
		assert.Error(t, err)
		assert.Nil(t, pool)
	})

	t.Run("kubeconfig without contexts", func(t *testing.T) {
		pool, err := NewPool(writeKubeconfig(t, clientcmdapi.NewConfig()), 10)
		assert.Error(t, err)
		assert.Nil(t, pool)
	})
}

func TestPoolGetContextsRows(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "zulu", "alpha", "mike")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	contexts, err := pool.GetContexts()
	require.NoError(t, err)
	require.Len(t, contexts, 3)

	// Sorted by name, nothing active yet
	assert.Equal(t, "alpha", contexts[0].Name)
	assert.Equal(t, "mike", contexts[1].Name)
	assert.Equal(t, "zulu", contexts[2].Name)
	for _, ctx := range contexts {
		assert.Equal(t, "Not Connected", ctx.Status)
		assert.Equal(t, "", ctx.Current)
		assert.Equal(t, "test-cluster", ctx.Cluster)
		assert.Equal(t, "test-user", ctx.User)
		assert.Equal(t, "default", ctx.Namespace)
	}
}

func TestPoolSwitchContextWithTestClient(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1", "ctx2")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	client, _ := newFakeClient(podU("default", "web-1", "10"))
	pool.SetTestClient("ctx1", client)

	require.NoError(t, pool.SwitchContext("ctx1", nil))
	assert.Equal(t, "ctx1", pool.GetActiveContext())

	pool.Acquire(ResourceTypePod)
	defer pool.Release(ResourceTypePod)

	require.Eventually(t, func() bool {
		resources, err := pool.GetResources(ResourceTypePod)
		return err == nil && len(resources) == 1
	}, 3*time.Second, 10*time.Millisecond)

	// The active context now shows as connected and current
	contexts, err := pool.GetContexts()
	require.NoError(t, err)
	for _, ctx := range contexts {
		if ctx.Name == "ctx1" {
			assert.Equal(t, "Connected", ctx.Status)
			assert.Equal(t, "✓", ctx.Current)
		} else {
			assert.Equal(t, "", ctx.Current)
		}
	}
}

func TestPoolSwitchContextAlreadyActive(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	pool.SetTestClient("ctx1", newFakeClient())
	require.NoError(t, pool.SwitchContext("ctx1", nil))

	first := pool.activeRepository()
	require.NotNil(t, first)

	// Switching to the already-active context is a no-op
	require.NoError(t, pool.SwitchContext("ctx1", nil))
	assert.Same(t, first, pool.activeRepository())
}

func TestPoolSwitchContextProgress(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	pool.SetTestClient("ctx1", newFakeClient())

	progress := make(chan ContextLoadProgress, 8)
	require.NoError(t, pool.SwitchContext("ctx1", progress))
	close(progress)

	var phases []LoadPhase
	for p := range progress {
		assert.Equal(t, "ctx1", p.Context)
		phases = append(phases, p.Phase)
	}

	// Client was injected, so the connect phase is skipped
	assert.Equal(t, []LoadPhase{PhaseSeeding, PhaseComplete}, phases)
}

func TestPoolSwitchTearsDownPrevious(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1", "ctx2")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	pool.SetTestClient("ctx1", newFakeClient(podU("default", "old-pod", "10")))
	pool.SetTestClient("ctx2", newFakeClient(podU("default", "new-pod", "20")))

	require.NoError(t, pool.SwitchContext("ctx1", nil))
	pool.Acquire(ResourceTypePod)
	require.Eventually(t, func() bool {
		resources, err := pool.GetResources(ResourceTypePod)
		return err == nil && len(resources) == 1
	}, 3*time.Second, 10*time.Millisecond)

	// Switch blocks until ctx1's sync loops acknowledge the teardown
	require.NoError(t, pool.SwitchContext("ctx2", nil))
	assert.Equal(t, "ctx2", pool.GetActiveContext())

	// The new repository starts empty: no subscriptions, no stale rows
	assert.Empty(t, pool.GetSyncInfo())
	resources, err := pool.GetResources(ResourceTypePod)
	require.NoError(t, err)
	assert.Empty(t, resources)

	// Acquiring through the pool reaches the new context's data
	pool.Acquire(ResourceTypePod)
	defer pool.Release(ResourceTypePod)
	require.Eventually(t, func() bool {
		resources, err := pool.GetResources(ResourceTypePod)
		if err != nil || len(resources) != 1 {
			return false
		}
		pod, ok := resources[0].(Pod)
		return ok && pod.Name == "new-pod"
	}, 3*time.Second, 10*time.Millisecond)
}

func TestPoolGetResourcesContexts(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1", "ctx2")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	// Contexts are served by the pool itself, no active repository needed
	resources, err := pool.GetResources(ResourceTypeContext)
	require.NoError(t, err)
	require.Len(t, resources, 2)

	ctx, ok := resources[0].(Context)
	require.True(t, ok)
	assert.Equal(t, "ctx1", ctx.Name)
}

func TestPoolNoActiveContext(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.GetResources(ResourceTypePod)
	assert.ErrorContains(t, err, "no active context")

	_, err = pool.GetPodsForDeployment("default", "web")
	assert.ErrorContains(t, err, "no active context")

	_, err = pool.GetPodLogs(context.Background(), "default", "web-1", "", 100)
	assert.ErrorContains(t, err, "no active context")

	err = pool.DeleteResource(context.Background(), ResourceTypePod, "default", "web-1")
	assert.ErrorContains(t, err, "no active context")

	gvr := schema.GroupVersionResource{Version: "v1", Resource: "pods"}
	_, err = pool.GetResourceYAML(gvr, "default", "web-1")
	assert.ErrorContains(t, err, "no active context")

	_, err = pool.DescribeResource(gvr, "default", "web-1")
	assert.ErrorContains(t, err, "no active context")

	// Reads that can't fail degrade to empty instead
	assert.Empty(t, pool.GetSyncInfo())
	assert.Equal(t, "", pool.GetActiveContext())

	// Acquire/Release without an active context must not panic
	pool.Acquire(ResourceTypePod)
	pool.Release(ResourceTypePod)
}

func TestPoolDelegatesPodLogs(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	pool.SetTestClient("ctx1", newFakeClient())
	require.NoError(t, pool.SwitchContext("ctx1", nil))

	logs, err := pool.GetPodLogs(context.Background(), "default", "web-1", "", 100)
	require.NoError(t, err)
	assert.Equal(t, "fake logs", logs)
}

func TestPoolLoadContextFailure(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	// The kubeconfig points at an unreachable server, so the probe fails
	progress := make(chan ContextLoadProgress, 8)
	err = pool.LoadContext("ctx1", progress)
	require.Error(t, err)
	close(progress)

	first := <-progress
	assert.Equal(t, PhaseConnecting, first.Phase)

	contexts := pool.GetAllContexts()
	require.Len(t, contexts, 1)
	assert.Equal(t, StatusFailed, contexts[0].Status)
	assert.Error(t, contexts[0].Error)

	rows, err := pool.GetContexts()
	require.NoError(t, err)
	assert.Equal(t, "Failed", rows[0].Status)
	assert.NotEmpty(t, rows[0].Error)

	// SwitchContext to a failed context surfaces the load error
	err = pool.SwitchContext("ctx1", nil)
	assert.Error(t, err)
	assert.Equal(t, "", pool.GetActiveContext())
}

func TestPoolRetryFailedContext(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1", "ctx2")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)
	defer pool.Close()

	// Retry on a healthy context is rejected
	pool.SetTestClient("ctx1", newFakeClient())
	err = pool.RetryFailedContext("ctx1", nil)
	assert.ErrorContains(t, err, "not in failed state")

	// A genuinely failed context can be retried; the server is still
	// unreachable so the retry fails the same way
	require.Error(t, pool.LoadContext("ctx2", nil))
	err = pool.RetryFailedContext("ctx2", nil)
	assert.Error(t, err)

	contexts := pool.GetAllContexts()
	for _, ctx := range contexts {
		if ctx.Name == "ctx2" {
			assert.Equal(t, StatusFailed, ctx.Status)
		}
	}
}

func TestPoolEvictsIdleClients(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1", "ctx2", "ctx3")
	pool, err := NewPool(kubeconfigPath, 2)
	require.NoError(t, err)
	defer pool.Close()

	pool.SetTestClient("ctx1", newFakeClient())
	pool.SetTestClient("ctx2", newFakeClient())
	pool.SetTestClient("ctx3", newFakeClient())

	// ctx2 is active; eviction walks from the LRU tail and must skip it
	pool.mu.Lock()
	pool.active = "ctx2"
	pool.evictLRU()
	pool.mu.Unlock()

	pool.mu.RLock()
	_, hasCtx1 := pool.entries["ctx1"]
	_, hasCtx2 := pool.entries["ctx2"]
	_, hasCtx3 := pool.entries["ctx3"]
	pool.mu.RUnlock()

	assert.False(t, hasCtx1, "oldest idle client should be evicted")
	assert.True(t, hasCtx2, "active context must never be evicted")
	assert.True(t, hasCtx3)
}

func TestPoolCloseIdempotent(t *testing.T) {
	kubeconfigPath := poolKubeconfig(t, "ctx1")
	pool, err := NewPool(kubeconfigPath, 10)
	require.NoError(t, err)

	pool.SetTestClient("ctx1", newFakeClient())
	require.NoError(t, pool.SwitchContext("ctx1", nil))

	pool.Close()
	pool.Close()

	_, err = pool.GetResources(ResourceTypePod)
	assert.ErrorContains(t, err, "no active context")
}
