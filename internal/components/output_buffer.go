package components

import (
	"sync"
	"time"

	"github.com/renato0307/vigia/internal/types"
)

// MaxOutputHistory bounds the action result buffer.
const MaxOutputHistory = 100

// CommandOutput is one executed action in the result history shown by the
// output screen.
type CommandOutput struct {
	Command      string
	Output       string
	Status       types.MessageType
	Context      string
	ResourceType string
	ResourceName string
	Namespace    string
	Timestamp    time.Time
	Duration     time.Duration
}

// OutputBuffer keeps a bounded history of executed action results. It is
// written from command completion messages and read by the output screen,
// so access is guarded.
type OutputBuffer struct {
	mu      sync.RWMutex
	entries []CommandOutput
}

// NewOutputBuffer creates a new output buffer
func NewOutputBuffer() *OutputBuffer {
	return &OutputBuffer{
		entries: make([]CommandOutput, 0, MaxOutputHistory),
	}
}

// Add appends an entry, dropping the oldest past MaxOutputHistory
func (b *OutputBuffer) Add(entry CommandOutput) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)

	if len(b.entries) > MaxOutputHistory {
		b.entries = b.entries[len(b.entries)-MaxOutputHistory:]
	}
}

// GetAll returns all entries, newest first
func (b *OutputBuffer) GetAll() []CommandOutput {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]CommandOutput, len(b.entries))
	for i, entry := range b.entries {
		result[len(b.entries)-1-i] = entry
	}
	return result
}

// Clear removes all entries
func (b *OutputBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make([]CommandOutput, 0, MaxOutputHistory)
}

// Count returns the number of entries
func (b *OutputBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
