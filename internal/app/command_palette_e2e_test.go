//go:build e2e

// End-to-end tests for the command bar: suggestion palette fuzzy search,
// confirmation cancel, argument input, and shortcut dispatch. They run
// against the kind-vigia-test cluster.
package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TestCommandPalette_FuzzySearch opens / suggestions, narrows them, and
// executes the selection.
func TestCommandPalette_FuzzySearch(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.Type(":deployments")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForScreen("Deployments", 5*time.Second) {
		t.Fatal("Failed to navigate to Deployments screen")
	}

	if !tp.WaitForOutput("nginx-deployment", 5*time.Second) {
		t.Fatal("nginx-deployment not found")
	}

	tp.Type("/desc")

	if !tp.WaitForOutput("describe", 2*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Expected describe in the suggestion palette")
	}

	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForOutput("Name:", 3*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Describe view did not appear after executing the command")
	}
}

// TestCommandWithConfirmation_Cancel starts a delete and cancels it.
func TestCommandWithConfirmation_Cancel(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.Type(":deployments")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForScreen("Deployments", 5*time.Second) {
		t.Fatal("Failed to navigate to Deployments screen")
	}

	if !tp.WaitForOutput("nginx-deployment", 5*time.Second) {
		t.Fatal("nginx-deployment not found")
	}

	tp.Type("/delete")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForConfirmation(3 * time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Fatal("Expected confirmation prompt for delete")
	}

	tp.SendKey(tea.KeyEsc)
	time.Sleep(300 * time.Millisecond)

	// Cancel leaves the deployment untouched
	if !tp.WaitForOutput("nginx-deployment", 2*time.Second) {
		t.Error("Deployment should still exist after canceling delete")
	}
}

// TestCommandWithArguments_Scale types a command line with arguments.
func TestCommandWithArguments_Scale(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	tp.Type(":deployments")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForScreen("Deployments", 5*time.Second) {
		t.Fatal("Failed to navigate to Deployments screen")
	}

	if !tp.WaitForOutput("nginx-deployment", 5*time.Second) {
		t.Fatal("nginx-deployment not found")
	}

	tp.Type("/scale 3")
	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForConfirmation(3 * time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Fatal("Expected confirmation prompt for scale")
	}

	tp.SendKey(tea.KeyEnter)

	if !tp.WaitForOutput("Scaled", 5*time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Scale result message did not appear")
	}
}

// TestDeleteShortcut_CtrlX verifies ctrl+x opens the same confirmation as
// the typed command, then cancels.
func TestDeleteShortcut_CtrlX(t *testing.T) {
	_, tp := startApp(t)
	defer tp.Quit()

	if !tp.WaitForOutput("test-app", 5*time.Second) {
		t.Fatal("test-app pods not found")
	}

	tp.SendCtrl('x')

	if !tp.WaitForConfirmation(3 * time.Second) {
		t.Logf("Output:\n%s", tp.Output())
		t.Error("Expected confirmation prompt after ctrl+x")
	}

	tp.SendKey(tea.KeyEsc)
	time.Sleep(300 * time.Millisecond)

	tp.AssertContains("Pods")
}
