// Package tray provides a system tray menu for the Tulika painter.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/tulika/internal/mode"
	"github.com/ayusman/tulika/internal/painter"
)

// Tray is the system tray menu. Callbacks run on the tray goroutine.
type Tray struct {
	onToggle  func(enabled bool)
	onCommand func(name string)
	onOpen    func()
	onQuit    func()
	enabled   bool
	mode      mode.Mode
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuMode   *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for pausing and resuming gesture processing.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnCommand sets the callback for the canvas command items.
func (t *Tray) OnCommand(fn func(name string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCommand = fn
}

// OnOpen sets the callback for the open in browser item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// commandItem pairs a menu item with the command it runs.
type commandItem struct {
	name string
	item *systray.MenuItem
}

func (t *Tray) onReady() {
	systray.SetTitle("Tulika")
	systray.SetTooltip("Tulika gesture painter")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume gesture painting")
	t.menuMode = systray.AddMenuItem(modeTitle(t.mode), "Current drawing mode")
	t.menuMode.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	commands := []commandItem{
		{painter.CmdSave, systray.AddMenuItem("Save Drawing", "Save the canvas to the drawings folder")},
		{painter.CmdUndo, systray.AddMenuItem("Undo", "Undo the last stroke")},
		{painter.CmdRedo, systray.AddMenuItem("Redo", "Redo the last undone stroke")},
		{painter.CmdClear, systray.AddMenuItem("Clear Canvas", "Erase everything")},
	}
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open in Browser...", "Open the live view in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Tulika")

	for _, c := range commands {
		go func(c commandItem) {
			for range c.item.ClickedCh {
				t.handleCommand(c.name)
			}
		}(c)
	}

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				systray.Quit()
				return
			}
		}
	}()
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Paused"
}

func modeTitle(m mode.Mode) string {
	return "Mode: " + m.String()
}

// handleToggle flips the enabled state and reports it.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleCommand(name string) {
	t.mu.RLock()
	callback := t.onCommand
	t.mu.RUnlock()

	if callback != nil {
		callback(name)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetMode updates the mode line of the menu.
func (t *Tray) SetMode(m mode.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = m
	if t.menuMode != nil {
		t.menuMode.SetTitle(modeTitle(m))
	}
}

// Mode returns the mode last passed to SetMode.
func (t *Tray) Mode() mode.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// SetEnabled updates the enabled state without running the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
