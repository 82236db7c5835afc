//go:build e2e

package app

import (
	"testing"
	"time"

	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/testutil"
	"github.com/renato0307/vigia/internal/types"
	"github.com/renato0307/vigia/internal/ui"
)

// e2eContext is the kind cluster the end-to-end suite runs against. The
// cluster carries the nginx-deployment, test-app and standalone-pod
// fixtures the assertions look for.
const e2eContext = "kind-vigia-test"

// startApp connects to the test cluster, waits for the pod cache to sync,
// and returns a running program on the Pods screen.
func startApp(t *testing.T) (*k8s.Pool, *testutil.TestProgram) {
	t.Helper()

	kubeconfig, err := k8s.DefaultKubeconfigPath("")
	if err != nil {
		t.Fatalf("Failed to resolve kubeconfig: %v", err)
	}

	pool, err := k8s.NewPool(kubeconfig, 10)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	progress := make(chan k8s.ContextLoadProgress, 100)
	go func() {
		for range progress {
		}
	}()

	if err := pool.SwitchContext(e2eContext, progress); err != nil {
		t.Fatalf("Failed to load context %s: %v", e2eContext, err)
	}

	// The initial screen needs pods; hold the subscription while waiting so
	// the sync loop runs.
	pool.Acquire(k8s.ResourceTypePod)
	defer pool.Release(k8s.ResourceTypePod)
	waitForSync(t, pool, k8s.ResourceTypePod, 30*time.Second)

	appCtx := types.NewAppContext(ui.GetTheme("charm"), pool, pool, pool)
	model := NewModel(appCtx, Config{})

	tp := testutil.NewTestProgram(t, model, 120, 40)

	if !tp.WaitForScreen("Pods", 10*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Fatal("Timeout waiting for Pods screen")
	}

	return pool, tp
}

// waitForSync polls until the kind's cache reports a complete sync.
func waitForSync(t *testing.T, pool *k8s.Pool, rt k8s.ResourceType, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, info := range pool.GetSyncInfo() {
			if info.ResourceType == rt && info.State == k8s.SyncStateSynced {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s cache to sync", rt)
}
