package desktop

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory WindowSystem for tests. Windows record every call
// made on them and events can be injected with Blur and Exit.
//
// Fake is safe for concurrent use by multiple goroutines.
type Fake struct {
	mu       sync.Mutex
	cursor   Point
	monitors []Monitor
	windows  []*FakeWindow
	nextID   int

	// OpenErr, when set, is returned by the next Open call.
	OpenErr error
}

// NewFake returns a Fake with the given monitors.
func NewFake(monitors ...Monitor) *Fake {
	return &Fake{monitors: monitors}
}

// SetCursor moves the fake pointer.
func (f *Fake) SetCursor(p Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = p
}

// CursorPosition returns the fake pointer position.
func (f *Fake) CursorPosition(context.Context) (Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor, nil
}

// Monitors returns the configured monitors.
func (f *Fake) Monitors(context.Context) ([]Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.monitors) == 0 {
		return nil, ErrNoMonitors
	}
	return append([]Monitor(nil), f.monitors...), nil
}

// Open records a new window built from spec.
func (f *Fake) Open(_ context.Context, spec WindowSpec) (Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.OpenErr; err != nil {
		f.OpenErr = nil
		return nil, err
	}
	f.nextID++
	w := &FakeWindow{
		id:      fmt.Sprintf("fake-%d", f.nextID),
		Spec:    spec,
		pos:     spec.Position,
		size:    spec.Size,
		visible: !spec.Hidden,
		events:  make(chan Event, 16),
	}
	f.windows = append(f.windows, w)
	return w, nil
}

// Windows returns every window ever opened, in order.
func (f *Fake) Windows() []*FakeWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeWindow(nil), f.windows...)
}

// Live returns the windows that have not been closed.
func (f *Fake) Live() []*FakeWindow {
	var live []*FakeWindow
	for _, w := range f.Windows() {
		if !w.Closed() {
			live = append(live, w)
		}
	}
	return live
}

// FakeWindow is a Window created by Fake.
type FakeWindow struct {
	mu        sync.Mutex
	id        string
	pos       Point
	size      Size
	visible   bool
	focused   bool
	minimized bool
	closed    bool
	moves     int
	resizes   int
	focuses   int
	events    chan Event

	// Spec is the spec the window was opened with.
	Spec WindowSpec
}

func (w *FakeWindow) ID() string { return w.id }

func (w *FakeWindow) Position() (Point, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos, nil
}

func (w *FakeWindow) Move(p Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pos = p
	w.moves++
	return nil
}

func (w *FakeWindow) Resize(s Size) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = s
	w.resizes++
	return nil
}

func (w *FakeWindow) Focus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focused = true
	w.focuses++
	return nil
}

func (w *FakeWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	w.minimized = false
	return nil
}

func (w *FakeWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	w.focused = false
	return nil
}

func (w *FakeWindow) Minimize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = true
	w.focused = false
	return nil
}

func (w *FakeWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible && !w.minimized && !w.closed
}

func (w *FakeWindow) Focused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused && !w.closed
}

func (w *FakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.focused = false
	close(w.events)
	return nil
}

func (w *FakeWindow) Events() <-chan Event { return w.events }

// Blur simulates the window losing focus.
func (w *FakeWindow) Blur() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.focused = false
	w.events <- Event{Type: EventBlur}
}

// Exit simulates the content process exiting on its own.
func (w *FakeWindow) Exit(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.focused = false
	w.events <- Event{Type: EventExited, Err: err}
	close(w.events)
}

// Closed reports whether the window has been closed.
func (w *FakeWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Size returns the current window size.
func (w *FakeWindow) Size() Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Moves returns how many times Move was called.
func (w *FakeWindow) Moves() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moves
}

// Resizes returns how many times Resize was called.
func (w *FakeWindow) Resizes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resizes
}

// Focuses returns how many times Focus was called.
func (w *FakeWindow) Focuses() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focuses
}

// SetFocused sets the focus flag without recording a Focus call.
func (w *FakeWindow) SetFocused(focused bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focused = focused
}
