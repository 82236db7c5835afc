//go:build e2e

// End-to-end tests for system-level behaviour: action result history, the
// sync status and contexts screens, empty filter results, and manual
// refresh. They run against the kind-vigia-test cluster.
package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TestCommandOutputHistory runs a tracked command and finds it on the
// output screen.
func TestCommandOutputHistory(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.Type(":deployments")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForScreen("Deployments", 5*time.Second) {
		t.Fatal("Failed to navigate to Deployments")
	}

	if !tp.WaitForOutput("nginx-deployment", 5*time.Second) {
		t.Fatal("nginx-deployment not found")
	}

	// Scale is tracked in the action history
	tp.Type("/scale 2")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForConfirmation(3 * time.Second) {
		t.Fatal("Expected confirmation prompt for scale")
	}
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForOutput("Scaled", 5*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Fatal("Scale did not complete")
	}

	tp.Type(":output")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForScreen("Command Output", 3*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Fatal("Failed to navigate to the output screen")
	}

	tp.AssertContains("scale")
	tp.AssertContains("nginx-deployment")
}

// TestSyncStatusScreen shows per-kind cache health on the status screen.
func TestSyncStatusScreen(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.Type(":status")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForScreen("Sync Status", 3*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Fatal("Failed to navigate to the sync status screen")
	}

	// The pods cache was synced during setup
	tp.AssertContains("pods")
	if !tp.WaitForOutput("Synced", 3*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Expected at least one synced kind on the status screen")
	}
}

// TestContextsScreen lists kubeconfig contexts with the active one marked.
func TestContextsScreen(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.Type(":contexts")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForScreen("Contexts", 3*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Fatal("Failed to navigate to the contexts screen")
	}

	if !tp.WaitForOutput(e2eContext, 3*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Expected the test context in the contexts list")
	}
}

// TestEmptyFilterResults verifies a filter with no matches empties the list
// without breaking the session.
func TestEmptyFilterResults(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.Type("zzqqxxnomatch")
	time.Sleep(500 * time.Millisecond)

	if !tp.WaitForOutput("0 items", 2*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Expected a zero item count when the filter matches nothing")
	}

	tp.SendKey(tea.KeyEsc)
	time.Sleep(300 * time.Millisecond)

	if !tp.WaitForOutput("kube-system", 2*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Pod list did not restore after clearing the filter")
	}
}

// TestGlobalRefresh re-pulls the active screen with ctrl+r.
func TestGlobalRefresh(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.SendCtrl('r')
	time.Sleep(500 * time.Millisecond)

	// The screen stays up and keeps showing data
	tp.AssertContains("Pods")
	if !tp.WaitForOutput("items", 2*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Item count missing after refresh")
	}
}
