// Package desktop abstracts the windowing system: monitor geometry, the
// pointer, and the top-level windows the daemon creates.
package desktop

import (
	"context"
	"errors"
)

// ErrNoMonitors is returned when the screen reports no monitors.
var ErrNoMonitors = errors.New("no monitors found")

// Screen reports pointer and monitor geometry.
type Screen interface {
	CursorPosition(ctx context.Context) (Point, error)
	Monitors(ctx context.Context) ([]Monitor, error)
}

// WindowSpec describes a window to open.
type WindowSpec struct {
	Name        string // window class/instance name
	Title       string
	Position    Point
	Size        Size
	Command     []string // content program argv
	AlwaysOnTop bool
	SkipTaskbar bool
	Hidden      bool // start unmapped
}

// WindowSystem opens top-level windows.
type WindowSystem interface {
	Screen
	Open(ctx context.Context, spec WindowSpec) (Window, error)
}

// EventType identifies a window event.
type EventType int

const (
	// EventBlur is sent when the window loses input focus.
	EventBlur EventType = iota
	// EventExited is sent when the window's content process exits.
	EventExited
)

func (t EventType) String() string {
	switch t {
	case EventBlur:
		return "blur"
	case EventExited:
		return "exited"
	}
	return "unknown"
}

// Event is a window state change.
type Event struct {
	Type EventType
	Err  error // exit error for EventExited
}

// Window is a handle to an open top-level window.
type Window interface {
	ID() string
	Position() (Point, error)
	Move(p Point) error
	Resize(s Size) error
	Focus() error
	Show() error
	Hide() error
	Minimize() error
	Visible() bool
	Focused() bool
	// Close destroys the window. It is safe to call more than once.
	Close() error
	// Events is closed once the window is gone.
	Events() <-chan Event
}
