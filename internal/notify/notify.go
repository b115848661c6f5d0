// Package notify sends desktop notifications for painter events.
package notify

import (
	"fmt"
	"log"
	"path/filepath"
)

// AppName is shown as the notification source.
const AppName = "Tulika"

// Notifier sends notifications when enabled. The zero value is disabled.
type Notifier struct {
	Enabled bool
	send    func(title, body string) error
}

// New creates a Notifier using the platform backend.
func New(enabled bool) *Notifier {
	return &Notifier{Enabled: enabled, send: send}
}

// Saved reports a saved drawing.
func (n *Notifier) Saved(path string) {
	n.notify("Drawing saved", SavedMessage(path))
}

// Copied reports a clipboard copy.
func (n *Notifier) Copied() {
	n.notify("Canvas copied", "The canvas is on the clipboard")
}

func (n *Notifier) notify(title, body string) {
	if n == nil || !n.Enabled || n.send == nil {
		return
	}
	if err := n.send(title, body); err != nil {
		log.Printf("Notification failed: %v", err)
	}
}

// SavedMessage formats the body of a save notification.
func SavedMessage(path string) string {
	return fmt.Sprintf("Saved %s to %s", filepath.Base(path), filepath.Dir(path))
}
