// Package trigger turns external requests into overlay and settings
// actions: loopback HTTP calls from hotkey tools and launch arguments
// forwarded by secondary instances.
package trigger

import (
	"context"
	"log"
	"sync"

	"github.com/popsearch/popsearch/internal/desktop"
)

// Kind identifies what a trigger asks for.
type Kind int

const (
	KindSearch Kind = iota
	KindSettings
)

// Event is a trigger with the pointer position captured when it arrived.
type Event struct {
	Kind  Kind
	Query string
	Point desktop.Point
}

// Request is a launch forwarded from a secondary instance.
type Request struct {
	Search   *string
	Settings bool
}

// Ack is the outcome of a trigger.
type Ack struct {
	OK      bool
	Ignored bool
}

// Overlays creates quick-search overlays.
type Overlays interface {
	Create(ctx context.Context, text string, point desktop.Point) (string, error)
}

// Primary is the settings window.
type Primary interface {
	Show(ctx context.Context) error
	VisibleAndFocused() bool
}

// Router applies triggers to the overlay and the settings window.
type Router struct {
	Screen    desktop.Screen
	Overlays  Overlays
	Primary   Primary
	CursorGap int

	mu sync.Mutex
}

// SetCursorGap changes the vertical gap between the pointer and the
// overlay for later triggers.
func (r *Router) SetCursorGap(gap int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CursorGap = gap
}

func (r *Router) cursorGap() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.CursorGap
}

// Search opens an overlay for query at the pointer, unless the settings
// window is visible and focused.
func (r *Router) Search(ctx context.Context, query string) Ack {
	if r.Primary.VisibleAndFocused() {
		log.Printf("[trigger] Search ignored: settings focused")
		return Ack{Ignored: true}
	}
	ev, err := r.capture(ctx, KindSearch, query)
	if err != nil {
		log.Printf("[trigger] Failed to read cursor: %v", err)
	}
	r.open(ctx, ev)
	return Ack{OK: true}
}

// Settings shows the settings window.
func (r *Router) Settings(ctx context.Context) Ack {
	if err := r.Primary.Show(ctx); err != nil {
		log.Printf("[trigger] %v", err)
	}
	return Ack{OK: true}
}

// Forwarded applies a secondary instance's launch arguments. The pointer
// is read on receipt. Settings is shown when requested or when no search
// was given; a search always opens an overlay.
func (r *Router) Forwarded(ctx context.Context, req Request) Ack {
	var ev Event
	if req.Search != nil {
		var err error
		if ev, err = r.capture(ctx, KindSearch, *req.Search); err != nil {
			log.Printf("[trigger] Failed to read cursor: %v", err)
		}
	}
	if req.Settings || req.Search == nil {
		r.Settings(ctx)
	}
	if req.Search != nil {
		r.open(ctx, ev)
	}
	return Ack{OK: true}
}

func (r *Router) capture(ctx context.Context, kind Kind, query string) (Event, error) {
	ev := Event{Kind: kind, Query: query}
	p, err := r.Screen.CursorPosition(ctx)
	if err != nil {
		return ev, err
	}
	ev.Point = p.Add(desktop.Point{Y: r.cursorGap()})
	return ev, nil
}

func (r *Router) open(ctx context.Context, ev Event) {
	if _, err := r.Overlays.Create(ctx, ev.Query, ev.Point); err != nil {
		log.Printf("[trigger] %v", err)
	}
}
