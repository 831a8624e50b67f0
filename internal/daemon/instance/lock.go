// Package instance decides which process is the primary and carries
// launch arguments from secondary processes to it.
package instance

import (
	"errors"
	"fmt"
	"os"
)

// ErrHeld is returned by Acquire when another process holds the lock.
var ErrHeld = errors.New("instance lock held by another process")

// Lock is the exclusive lock held by the primary for its lifetime.
type Lock struct {
	path string
	f    *os.File
}

// Acquire takes the lock at path without blocking.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Truncate(0); err == nil {
		_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	}
	return &Lock{path: path, f: f}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks and closes the lock file. It is safe to call twice.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unlockFile(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
