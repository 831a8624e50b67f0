// Package primary manages the settings window, the application's main
// window.
package primary

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/popsearch/popsearch/internal/desktop"
)

// Sink pushes notifications to the settings content.
type Sink interface {
	SendReload() error
}

// Config configures a Window.
type Config struct {
	Windows desktop.WindowSystem
	Size    desktop.Size
	Command []string
}

// Window is the lazily created settings window.
type Window struct {
	cfg Config

	mu     sync.Mutex
	window desktop.Window
	sink   Sink
}

// New creates a Window. Nothing is opened until Show.
func New(cfg Config) *Window {
	return &Window{cfg: cfg}
}

// Show opens the window if needed, then restores, raises and focuses it.
func (w *Window) Show(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil {
		return w.openLocked(ctx)
	}
	if err := w.window.Show(); err != nil {
		return fmt.Errorf("failed to show settings window: %w", err)
	}
	return w.window.Focus()
}

func (w *Window) openLocked(ctx context.Context) error {
	monitors, err := w.cfg.Windows.Monitors(ctx)
	if err != nil {
		return fmt.Errorf("failed to open settings window: %w", err)
	}
	cursor, err := w.cfg.Windows.CursorPosition(ctx)
	if err != nil {
		cursor = monitors[0].WorkArea.Center()
	}
	monitor, _ := desktop.NearestMonitor(monitors, cursor)
	area := monitor.WorkArea
	origin := desktop.Clamp(desktop.Point{
		X: area.X + (area.W-w.cfg.Size.W)/2,
		Y: area.Y + (area.H-w.cfg.Size.H)/2,
	}, w.cfg.Size, area)

	window, err := w.cfg.Windows.Open(ctx, desktop.WindowSpec{
		Name:     "popsearch-settings",
		Title:    "PopSearch Settings",
		Position: origin,
		Size:     w.cfg.Size,
		Command:  w.cfg.Command,
	})
	if err != nil {
		return fmt.Errorf("failed to open settings window: %w", err)
	}
	w.window = window
	log.Printf("[settings] Opened window %s", window.ID())

	if err := window.Focus(); err != nil {
		log.Printf("[settings] focus: %v", err)
	}
	go w.watch(window)
	return nil
}

// watch forgets the window once its content exits.
func (w *Window) watch(window desktop.Window) {
	for ev := range window.Events() {
		if ev.Type == desktop.EventExited {
			break
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.window == window {
		w.window = nil
		w.sink = nil
		log.Printf("[settings] Window %s closed", window.ID())
	}
}

// Hide unmaps the window.
func (w *Window) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.window == nil {
		return nil
	}
	return w.window.Hide()
}

// Minimize iconifies the window.
func (w *Window) Minimize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.window == nil {
		return nil
	}
	return w.window.Minimize()
}

// VisibleAndFocused reports whether the window is shown and has input
// focus.
func (w *Window) VisibleAndFocused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.window != nil && w.window.Visible() && w.window.Focused()
}

// IsOpen reports whether the window exists.
func (w *Window) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.window != nil
}

// Attach binds the settings content's channel.
func (w *Window) Attach(sink Sink) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sink = sink
}

// Detach unbinds sink if it is still attached.
func (w *Window) Detach(sink Sink) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sink == sink {
		w.sink = nil
	}
}

// Reload asks the settings content to reload.
func (w *Window) Reload() error {
	w.mu.Lock()
	sink := w.sink
	w.mu.Unlock()
	if sink == nil {
		return nil
	}
	return sink.SendReload()
}

// Close destroys the window.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	w.sink = nil
	return err
}
