// Package channel implements the message channel between the daemon and
// the content process running inside each window. Each content process
// holds one gRPC stream; frames are CBOR envelopes whose body is decoded
// according to the op.
package channel

import (
	"fmt"

	"github.com/popsearch/popsearch/internal/codec"
	"github.com/popsearch/popsearch/internal/models"
)

// Op names a channel operation.
type Op string

// Content to daemon.
const (
	OpHello       Op = "hello"
	OpResize      Op = "resize"
	OpDispatch    Op = "dispatch"
	OpClose       Op = "close"
	OpContextMenu Op = "context_menu"
	OpMenuAction  Op = "menu_action"
	OpReload      Op = "reload"
	OpMinimize    Op = "minimize"
	OpSettings    Op = "settings"
	OpLog         Op = "log"
)

// Daemon to content. OpReload is also sent in this direction.
const (
	OpSelectedText Op = "selected_text"
	OpMenu         Op = "menu"
)

// Role identifies which kind of window a content process renders.
type Role string

const (
	RoleOverlay  Role = "overlay"
	RoleSettings Role = "settings"
)

// Envelope is one frame on the channel.
type Envelope struct {
	Op     Op               `cbor:"op"`
	Window string           `cbor:"window,omitempty"`
	Body   codec.RawMessage `cbor:"body,omitempty"`
}

// NewEnvelope encodes body into a frame. A nil body leaves Body empty.
func NewEnvelope(op Op, window string, body any) (*Envelope, error) {
	env := &Envelope{Op: op, Window: window}
	if body != nil {
		raw, err := codec.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", op, err)
		}
		env.Body = raw
	}
	return env, nil
}

// Decode decodes the frame body into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Body) == 0 {
		return fmt.Errorf("%s frame has no body", e.Op)
	}
	if err := codec.Unmarshal(e.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s body: %w", e.Op, err)
	}
	return nil
}

// Hello announces that content finished loading.
type Hello struct {
	Role Role `cbor:"role"`
}

// Resize asks for a new window size in pixels.
type Resize struct {
	Width  float64 `cbor:"w"`
	Height float64 `cbor:"h"`
}

// Dispatch asks the daemon to run a destination. A nil Destination
// closes the overlay without running anything.
type Dispatch struct {
	Destination *models.Destination `cbor:"destination,omitempty"`
	Query       string              `cbor:"query"`
	Copy        bool                `cbor:"copy,omitempty"`
}

// SelectedText carries the text captured by the trigger.
type SelectedText struct {
	Text string `cbor:"text"`
}

// MenuItem is one context menu entry.
type MenuItem struct {
	ID    string `cbor:"id"`
	Label string `cbor:"label"`
}

// Menu asks content to show a context menu.
type Menu struct {
	Items []MenuItem `cbor:"items"`
}

// MenuAction reports the chosen context menu entry.
type MenuAction struct {
	ID string `cbor:"id"`
}

// Log is a diagnostic line from content.
type Log struct {
	Text string `cbor:"text"`
}

// Context menu entry IDs.
const (
	MenuReload   = "reload"
	MenuSettings = "settings"
	MenuQuit     = "quit"
)

// DefaultMenu is the context menu offered to every window.
var DefaultMenu = Menu{Items: []MenuItem{
	{ID: MenuReload, Label: "Reload"},
	{ID: MenuSettings, Label: "Settings"},
	{ID: MenuQuit, Label: "Quit"},
}}
