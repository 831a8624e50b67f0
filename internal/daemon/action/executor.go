// Package action runs a committed selection against its destination.
package action

import (
	"io"
	"log"
	"os/exec"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/popsearch/popsearch/internal/models"
)

func init() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// Opener hands URLs and files to the OS default handler.
type Opener interface {
	OpenURL(url string) error
	OpenFile(path string) error
}

// Spawner starts a command without waiting for it. done is called once
// the process exits.
type Spawner interface {
	Spawn(inv Invocation, done func(error)) error
}

// Request is a dispatch for one destination.
type Request struct {
	Window          string // overlay the dispatch came from
	Destination     models.Destination
	Query           string
	CopyToClipboard bool
}

// Executor routes dispatch requests by destination kind.
type Executor struct {
	Clipboard Clipboard
	Opener    Opener
	Spawner   Spawner
	Dismiss   func(window string)
}

// New creates an executor backed by the system clipboard, the default
// browser and os/exec. dismiss is called with the request's window after
// every request.
func New(dismiss func(window string)) *Executor {
	return &Executor{
		Clipboard: SystemClipboard{},
		Opener:    BrowserOpener{},
		Spawner:   ExecSpawner{},
		Dismiss:   dismiss,
	}
}

// Execute runs req. Failures are logged and returned; the overlay is
// dismissed either way.
func (e *Executor) Execute(req Request) error {
	defer func() {
		if e.Dismiss != nil {
			e.Dismiss(req.Window)
		}
	}()

	if req.CopyToClipboard {
		if err := e.Clipboard.WriteAll(req.Query); err != nil {
			log.Printf("[action] %v", &ClipboardError{Err: err})
		}
	}

	d := req.Destination
	var err error
	switch d.Kind {
	case models.KindURL:
		target := ExpandURL(d.Target, req.Query)
		log.Printf("[action] %s: open url %s", d.Name, target)
		if openErr := e.Opener.OpenURL(target); openErr != nil {
			err = &DispatchTargetError{Target: target, Err: openErr}
		}
	case models.KindFile:
		log.Printf("[action] %s: open file %s", d.Name, d.Target)
		if openErr := e.Opener.OpenFile(d.Target); openErr != nil {
			err = &DispatchTargetError{Target: d.Target, Err: openErr}
		}
	case models.KindCommand:
		err = e.spawn(d, BuildInvocation(d.Target, req.Query))
	default:
		err = &DispatchTargetError{Target: d.Target, Err: errUnknownKind(d.Kind)}
	}
	if err != nil {
		log.Printf("[action] %s: %v", d.Name, err)
	}
	return err
}

func (e *Executor) spawn(d models.Destination, inv Invocation) error {
	log.Printf("[action] %s: run %s", d.Name, inv)
	err := e.Spawner.Spawn(inv, func(waitErr error) {
		if waitErr != nil {
			log.Printf("[action] %s: %v", d.Name, &SpawnError{Command: inv.Line, Err: waitErr})
			return
		}
		log.Printf("[action] %s: exited", d.Name)
	})
	if err != nil {
		return &SpawnError{Command: inv.Line, Err: err}
	}
	return nil
}

type errUnknownKind models.Kind

func (k errUnknownKind) Error() string {
	return "unknown destination kind " + models.Kind(k).String()
}

// SystemClipboard writes through atotto/clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// BrowserOpener opens through the OS default handler.
type BrowserOpener struct{}

func (BrowserOpener) OpenURL(url string) error   { return browser.OpenURL(url) }
func (BrowserOpener) OpenFile(path string) error { return browser.OpenFile(path) }

// ExecSpawner starts processes with os/exec.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(inv Invocation, done func(error)) error {
	cmd := exec.Command(inv.Program, inv.Args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		err := cmd.Wait()
		if done != nil {
			done(err)
		}
	}()
	return nil
}
