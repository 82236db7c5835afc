package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// CopyToClipboard writes text to the system clipboard and returns the message
// to show in the status bar. The message names what was copied rather than
// echoing it, since copied payloads can be whole YAML documents.
func CopyToClipboard(text, message string) (string, error) {
	if err := clipboard.WriteAll(text); err != nil {
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return message, nil
}
