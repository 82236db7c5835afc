// Package testutil drives a real Bubble Tea program in tests: keystrokes go
// in through a fake stdin, rendered frames accumulate in a buffer that
// assertions poll.
package testutil

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TestProgram wraps a running Bubble Tea program with controlled I/O.
type TestProgram struct {
	program *tea.Program
	output  *bytes.Buffer
	input   *fakeInput
	t       *testing.T
}

// fakeInput feeds the program's stdin. Reads time out quickly so the
// program's input loop keeps cycling instead of blocking on a dead pipe.
type fakeInput struct {
	data chan byte
}

func newFakeInput() *fakeInput {
	return &fakeInput{data: make(chan byte, 1024)}
}

func (f *fakeInput) Read(p []byte) (n int, err error) {
	select {
	case b := <-f.data:
		p[0] = b
		return 1, nil
	case <-time.After(50 * time.Millisecond):
		return 0, io.EOF
	}
}

// NewTestProgram starts the model in a background goroutine and sends the
// initial window size, mirroring what a terminal does on startup.
func NewTestProgram(t *testing.T, model tea.Model, width, height int) *TestProgram {
	t.Helper()

	output := &bytes.Buffer{}
	input := newFakeInput()

	p := tea.NewProgram(
		model,
		tea.WithInput(input),
		tea.WithOutput(output),
	)

	tp := &TestProgram{
		program: p,
		output:  output,
		input:   input,
		t:       t,
	}

	go func() {
		if _, err := p.Run(); err != nil {
			t.Logf("Program error: %v", err)
		}
	}()

	// Let the event loop come up before the first message
	time.Sleep(50 * time.Millisecond)

	tp.Send(tea.WindowSizeMsg{Width: width, Height: height})

	return tp
}

// Send delivers a message and gives the program a beat to process it.
func (tp *TestProgram) Send(msg tea.Msg) {
	tp.program.Send(msg)
	time.Sleep(50 * time.Millisecond)
}

// Type sends a string one rune at a time, like a user typing.
func (tp *TestProgram) Type(s string) {
	for _, r := range s {
		tp.Send(tea.KeyMsg{
			Type:  tea.KeyRunes,
			Runes: []rune{r},
		})
	}
}

// SendKey sends a special key press (enter, esc, arrows).
func (tp *TestProgram) SendKey(key tea.KeyType) {
	tp.Send(tea.KeyMsg{Type: key})
}

// SendCtrl sends ctrl plus a letter. Control combinations are distinct key
// types carrying the ASCII control code, not modified runes.
func (tp *TestProgram) SendCtrl(letter rune) {
	tp.t.Helper()
	if letter < 'a' || letter > 'z' {
		tp.t.Fatalf("SendCtrl expects a lowercase letter, got %q", letter)
	}
	tp.Send(tea.KeyMsg{Type: tea.KeyType(letter - 'a' + 1)})
}

// Output returns everything the program has rendered so far.
func (tp *TestProgram) Output() string {
	return tp.output.String()
}

// WaitForOutput polls until the text shows up in a rendered frame.
func (tp *TestProgram) WaitForOutput(needle string, timeout time.Duration) bool {
	tp.t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(tp.Output(), needle) {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

// WaitForScreen waits for a screen's title to appear in the header.
func (tp *TestProgram) WaitForScreen(title string, timeout time.Duration) bool {
	tp.t.Helper()
	return tp.WaitForOutput(title, timeout)
}

// WaitForConfirmation waits for the destructive-command prompt.
func (tp *TestProgram) WaitForConfirmation(timeout time.Duration) bool {
	tp.t.Helper()
	return tp.WaitForOutput("Confirm Action", timeout)
}

// AssertContains fails the test if the output lacks the expected text.
func (tp *TestProgram) AssertContains(expected string) {
	tp.t.Helper()

	output := tp.Output()
	if !strings.Contains(output, expected) {
		tp.t.Errorf("Output does not contain %q\nGot:\n%s", expected, output)
	}
}

// AssertNotContains fails the test if the output has the text.
func (tp *TestProgram) AssertNotContains(notExpected string) {
	tp.t.Helper()

	output := tp.Output()
	if strings.Contains(output, notExpected) {
		tp.t.Errorf("Output should not contain %q\nGot:\n%s", notExpected, output)
	}
}

// Quit stops the program.
func (tp *TestProgram) Quit() {
	tp.program.Quit()
}
