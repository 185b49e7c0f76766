// Package tray provides a system tray interface for the Mudra pose capture
// pipeline.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(active bool)
	onRecord    func()
	onClear     func()
	onQuit      func()
	active      bool
	sessionName string
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuSession *systray.MenuItem
}

// New creates a new Tray instance with pose estimation shown as off.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback called when pose estimation is toggled.
func (t *Tray) OnToggle(fn func(active bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRecord sets the callback called when a new recording is requested.
func (t *Tray) OnRecord(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecord = fn
}

// OnClear sets the callback called when the history clear item is clicked.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnQuit sets the callback called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Pose Capture")

	t.menuToggle = systray.AddMenuItem("○ Pose estimation off", "Toggle pose estimation")
	systray.AddSeparator()

	t.menuSession = systray.AddMenuItem("Session: none", "Current recording session")
	t.menuSession.Disable()
	menuRecord := systray.AddMenuItem("Start Recording", "Clear history and start a new session")
	menuClear := systray.AddMenuItem("Clear History", "Discard recorded landmark frames")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuRecord.ClickedCh:
				t.handleRecord()
			case <-menuClear.ClickedCh:
				t.handleClear()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.active = !t.active
	active := t.active

	if active {
		t.menuToggle.SetTitle("● Pose estimation on")
	} else {
		t.menuToggle.SetTitle("○ Pose estimation off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(active)
	}
}

func (t *Tray) handleRecord() {
	t.mu.Lock()
	t.active = true
	if t.menuToggle != nil {
		t.menuToggle.SetTitle("● Pose estimation on")
	}
	callback := t.onRecord
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleClear() {
	t.mu.RLock()
	callback := t.onClear
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSession updates the session display in the menu.
func (t *Tray) SetSession(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sessionName = id
	if t.menuSession != nil {
		if id == "" {
			t.menuSession.SetTitle("Session: none")
		} else {
			t.menuSession.SetTitle("Session: " + id)
		}
	}
}

// IsActive returns whether the tray shows pose estimation as on.
func (t *Tray) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}
