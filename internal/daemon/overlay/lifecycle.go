// Package overlay owns the single quick-search overlay window: where it
// opens, when its content gets the selected text, and when it goes away.
package overlay

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/popsearch/popsearch/internal/desktop"
)

// Sink delivers the selected text to overlay content.
type Sink interface {
	SendSelectedText(text string) error
}

// Config configures a Lifecycle.
type Config struct {
	Windows desktop.WindowSystem
	Size    desktop.Size // initial footprint
	OffsetY int          // added to the requested Y before clamping
	// Command returns the content argv for an overlay session.
	Command func(id string) []string
}

// Snapshot describes the live overlay.
type Snapshot struct {
	ID        string
	WindowID  string
	State     State
	Text      string
	Delivered bool
	Size      desktop.Size
}

type session struct {
	id        string
	window    desktop.Window
	text      string
	delivered bool
	size      desktop.Size
	sink      Sink
}

// Lifecycle manages at most one overlay at a time. All transitions run
// under one mutex.
type Lifecycle struct {
	cfg Config

	mu    sync.Mutex
	state State
	cur   *session
}

// New creates a lifecycle in the Closed state.
func New(cfg Config) *Lifecycle {
	return &Lifecycle{cfg: cfg}
}

// SetGeometry changes the footprint and offset used by later Create
// calls.
func (l *Lifecycle) SetGeometry(size desktop.Size, offsetY int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.Size = size
	l.cfg.OffsetY = offsetY
}

// Create opens a new overlay near point that will show text. Any live
// overlay is dismissed first. It returns the session ID.
func (l *Lifecycle) Create(ctx context.Context, text string, point desktop.Point) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cur != nil {
		log.Printf("[overlay] Replacing overlay %s", l.cur.id)
		l.dismissLocked()
	}
	l.state = Creating

	monitors, err := l.cfg.Windows.Monitors(ctx)
	if err != nil {
		l.state = Closed
		return "", &WindowCreationError{Err: err}
	}
	requested := point.Add(desktop.Point{Y: l.cfg.OffsetY})
	monitor, _ := desktop.NearestMonitor(monitors, requested)
	origin := desktop.Clamp(requested, l.cfg.Size, monitor.WorkArea)

	id := uuid.NewString()
	var command []string
	if l.cfg.Command != nil {
		command = l.cfg.Command(id)
	}
	window, err := l.cfg.Windows.Open(ctx, desktop.WindowSpec{
		Name:        "popsearch-overlay",
		Title:       "PopSearch",
		Position:    origin,
		Size:        l.cfg.Size,
		Command:     command,
		AlwaysOnTop: true,
		SkipTaskbar: true,
	})
	if err != nil {
		l.state = Closed
		return "", &WindowCreationError{Err: err}
	}

	s := &session{id: id, window: window, text: text, size: l.cfg.Size}
	l.cur = s
	l.state = Positioned
	log.Printf("[overlay] Opened %s at %d,%d on %s", id, origin.X, origin.Y, monitor.Name)

	go l.watch(s)
	return id, nil
}

// ContentReady records that the content of overlay id finished loading.
// The selected text is delivered once, then the window is focused. Stale
// and repeated calls return false.
func (l *Lifecycle) ContentReady(id string, sink Sink) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.live(id)
	if s == nil || s.delivered {
		return false
	}
	s.sink = sink
	s.delivered = true
	if err := sink.SendSelectedText(s.text); err != nil {
		log.Printf("[overlay] Failed to deliver text to %s: %v", id, err)
	}
	if err := s.window.Focus(); err != nil {
		log.Printf("[overlay] Failed to focus %s: %v", id, err)
	}
	l.state = Visible
	return true
}

// Resize fits overlay id to the content's requested size and keeps it
// inside the work area of its monitor. Repeated identical calls do
// nothing.
func (l *Lifecycle) Resize(ctx context.Context, id string, width, height float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.live(id)
	if s == nil {
		return nil
	}
	prev := l.state
	l.state = Resizing
	defer func() { l.state = prev }()

	size := desktop.CeilSize(width, height)
	if size != s.size {
		if err := s.window.Resize(size); err != nil {
			return err
		}
		s.size = size
	}

	pos, err := s.window.Position()
	if err != nil {
		return err
	}
	monitors, err := l.cfg.Windows.Monitors(ctx)
	if err != nil {
		return err
	}
	monitor, _ := desktop.NearestMonitor(monitors, pos)
	clamped := desktop.Clamp(pos, size, monitor.WorkArea)
	if clamped != pos {
		return s.window.Move(clamped)
	}
	return nil
}

// Dismiss closes the live overlay, if any.
func (l *Lifecycle) Dismiss() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dismissLocked()
}

// DismissWindow closes overlay id if it is still the live one.
func (l *Lifecycle) DismissWindow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.live(id) == nil {
		return false
	}
	l.dismissLocked()
	return true
}

// IsLive reports whether id names the live overlay.
func (l *Lifecycle) IsLive(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.live(id) != nil
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Current returns the live overlay, if any.
func (l *Lifecycle) Current() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.cur
	if s == nil {
		return Snapshot{State: l.state}, false
	}
	return Snapshot{
		ID:        s.id,
		WindowID:  s.window.ID(),
		State:     l.state,
		Text:      s.text,
		Delivered: s.delivered,
		Size:      s.size,
	}, true
}

func (l *Lifecycle) live(id string) *session {
	if l.cur == nil || l.cur.id != id {
		return nil
	}
	return l.cur
}

func (l *Lifecycle) dismissLocked() {
	s := l.cur
	if s == nil {
		return
	}
	l.state = Dismissed
	l.cur = nil
	s.sink = nil
	if err := s.window.Close(); err != nil {
		log.Printf("[overlay] Failed to close %s: %v", s.id, err)
	}
	l.state = Closed
}

// watch consumes window events for s until its window is gone.
func (l *Lifecycle) watch(s *session) {
	for ev := range s.window.Events() {
		l.handleEvent(s, ev)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cur == s {
		l.cur = nil
		l.state = Closed
	}
}

func (l *Lifecycle) handleEvent(s *session, ev desktop.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cur != s {
		return
	}

	switch ev.Type {
	case desktop.EventBlur:
		log.Printf("[overlay] %s lost focus", s.id)
		l.dismissLocked()
	case desktop.EventExited:
		if l.state == Creating || l.state == Positioned {
			log.Printf("[overlay] %v", &ContentLoadError{Window: s.id, Err: ev.Err})
		}
		l.dismissLocked()
	}
}
