package overlay

import "fmt"

// WindowCreationError reports an overlay window the desktop refused to
// open.
type WindowCreationError struct {
	Err error
}

func (e *WindowCreationError) Error() string {
	return fmt.Sprintf("create overlay window: %v", e.Err)
}

func (e *WindowCreationError) Unwrap() error { return e.Err }

// ContentLoadError reports overlay content that went away before it
// became visible.
type ContentLoadError struct {
	Window string
	Err    error
}

func (e *ContentLoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("overlay %s content exited before load", e.Window)
	}
	return fmt.Sprintf("overlay %s content exited before load: %v", e.Window, e.Err)
}

func (e *ContentLoadError) Unwrap() error { return e.Err }
