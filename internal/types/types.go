package types

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/ui"
)

// Screen represents a view in the application
type Screen interface {
	tea.Model
	ID() string
	Title() string
	HelpText() string
}

// ScreenWithSelection interface for screens that track selected resources
type ScreenWithSelection interface {
	Screen
	GetSelectedResource() map[string]interface{}
}

// ScreenRegistry manages available screens
type ScreenRegistry struct {
	screens map[string]Screen
	order   []string
}

func NewScreenRegistry() *ScreenRegistry {
	return &ScreenRegistry{
		screens: make(map[string]Screen),
		order:   []string{},
	}
}

func (r *ScreenRegistry) Register(screen Screen) {
	id := screen.ID()
	if _, exists := r.screens[id]; !exists {
		r.order = append(r.order, id)
	}
	r.screens[id] = screen
}

func (r *ScreenRegistry) Get(id string) (Screen, bool) {
	screen, ok := r.screens[id]
	return screen, ok
}

func (r *ScreenRegistry) All() []Screen {
	result := make([]Screen, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.screens[id])
	}
	return result
}

// AppState holds shared application state. The active context lives here
// rather than in ambient globals so teardown and switching stay explicit.
type AppState struct {
	CurrentScreen string
	ActiveContext string
	LastRefresh   time.Time
	RefreshTime   time.Duration
	Width         int
	Height        int
}

// FilterContext defines read-side filtering to apply on screen switch.
// It never affects which kinds are subscribed; it only narrows the snapshot.
type FilterContext struct {
	Field    string            // "owner", "node", "selector", "namespace"
	Value    string            // Resource name (deployment, node, service)
	Metadata map[string]string // namespace, kind, selector, etc.
}

// Description returns a human-readable description of the filter
func (f *FilterContext) Description() string {
	if f == nil {
		return ""
	}

	kind := strings.ToLower(f.Metadata["kind"])
	if kind == "" {
		return "filtered by " + f.Value
	}
	return "filtered by " + kind + ": " + f.Value
}

// Messages

type ScreenSwitchMsg struct {
	ScreenID         string
	FilterContext    *FilterContext // Optional filter for contextual navigation
	CommandBarFilter string         // Optional command bar fuzzy filter to restore
	IsBackNav        bool           // True if navigating back via ESC
	PushHistory      bool           // True if should push current screen to history
}

type RefreshCompleteMsg struct {
	Duration time.Duration
}

// MessageType defines the type of status message. The definition lives in
// internal/ui (which must not import this package); it is aliased here so
// callers keep using types.MessageType and the types.MessageType* constants.
type MessageType = ui.MessageType

const (
	MessageTypeInfo    = ui.MessageTypeInfo
	MessageTypeSuccess = ui.MessageTypeSuccess
	MessageTypeError   = ui.MessageTypeError
	MessageTypeLoading = ui.MessageTypeLoading // Loading state with spinner
)

// CommandMetadata describes an executed command for the action result history
type CommandMetadata struct {
	Command      string
	Context      string
	ResourceType string
	ResourceName string
	Namespace    string
	Timestamp    time.Time
	Duration     time.Duration
}

type StatusMsg struct {
	Message string
	Type    MessageType

	// TrackInHistory marks the message for the bounded action result buffer
	TrackInHistory  bool
	HistoryMetadata *CommandMetadata
}

type ClearStatusMsg struct {
	MessageID int // Only clear if this matches the current message ID
}

// Helper functions for creating status messages

// InfoMsg creates an info status message
func InfoMsg(message string) StatusMsg {
	return StatusMsg{Message: message, Type: MessageTypeInfo}
}

// SuccessMsg creates a success status message
func SuccessMsg(message string) StatusMsg {
	return StatusMsg{Message: message, Type: MessageTypeSuccess}
}

// ErrorStatusMsg creates an error status message
func ErrorStatusMsg(message string) StatusMsg {
	return StatusMsg{Message: message, Type: MessageTypeError}
}

// LoadingMsg creates a loading status message (with spinner)
func LoadingMsg(message string) StatusMsg {
	return StatusMsg{Message: message, Type: MessageTypeLoading}
}

type FilterUpdateMsg struct {
	Filter string
}

type ClearFilterMsg struct{}

// FullScreenViewType identifies the kind of content in the fullscreen viewer
type FullScreenViewType int

const (
	FullScreenYAML FullScreenViewType = iota
	FullScreenDescribe
	FullScreenLogs
)

// ShowFullScreenMsg triggers display of full-screen content
type ShowFullScreenMsg struct {
	ViewType     FullScreenViewType
	ResourceName string
	Content      string
}

// ExitFullScreenMsg returns from full-screen view to list
type ExitFullScreenMsg struct{}

// Context management messages

// ContextSwitchMsg initiates a context switch
type ContextSwitchMsg struct {
	ContextName string
}

// ContextLoadProgressMsg reports loading progress
type ContextLoadProgressMsg struct {
	Context string
	Message string
	Phase   int
}

// ContextLoadCompleteMsg signals successful context load
type ContextLoadCompleteMsg struct {
	Context string
}

// ContextLoadFailedMsg signals failed context load
type ContextLoadFailedMsg struct {
	Context string
	Error   error
}

// ContextSwitchCompleteMsg signals successful context switch
type ContextSwitchCompleteMsg struct {
	OldContext string
	NewContext string
}

// ContextRetryMsg requests retry of failed context
type ContextRetryMsg struct {
	ContextName string
}
