package commandbar

// CommandType represents the kind of input the bar is collecting.
type CommandType int

const (
	CommandTypeFilter   CommandType = iota // no prefix, fuzzy filter for the list
	CommandTypeResource                    // : prefix, screen switching
	CommandTypeAction                      // / prefix, actions on the selection
)

// CommandBarState represents the current state of the command bar.
//
// Results of executed commands are not a state here: commands report
// through StatusMsg and the status bar renders them, so the bar returns
// straight to hidden after dispatch.
type CommandBarState int

const (
	StateHidden            CommandBarState = iota
	StateFilter                            // typing a list filter
	StateSuggestionPalette                 // : or / pressed, suggestions visible
	StateInput                             // typing a command with arguments
	StateConfirmation                      // destructive command awaiting confirm
)
