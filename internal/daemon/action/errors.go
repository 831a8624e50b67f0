package action

import "fmt"

// DispatchTargetError reports a destination the OS could not open.
type DispatchTargetError struct {
	Target string
	Err    error
}

func (e *DispatchTargetError) Error() string {
	return fmt.Sprintf("open %q: %v", e.Target, e.Err)
}

func (e *DispatchTargetError) Unwrap() error { return e.Err }

// SpawnError reports a command that failed to start or exited non-zero.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ClipboardError reports a failed clipboard write.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard write: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }
