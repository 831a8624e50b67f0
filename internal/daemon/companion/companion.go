// Package companion runs the helper process that feeds the trigger
// listener, such as a global hotkey script, for the daemon's lifetime.
package companion

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/popsearch/popsearch/internal/daemon/action"
)

// AddrEnv carries the trigger listener address to the companion.
const AddrEnv = "POPSEARCH_TRIGGER_ADDR"

const stopWait = 2 * time.Second

// Process supervises at most one companion. It is not restarted when it
// exits on its own.
type Process struct {
	mu   sync.Mutex
	argv []string
	cmd  *exec.Cmd
	done chan struct{}
}

// Start runs argv with env added to the daemon's environment. A script
// whose extension has a known interpreter runs under it. An empty argv
// is a no-op, as is a second Start while one is running.
func (p *Process) Start(argv, env []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startLocked(argv, env)
}

func (p *Process) startLocked(argv, env []string) error {
	if len(argv) == 0 {
		return nil
	}
	if p.cmd != nil {
		log.Printf("[companion] Already running (pid %d)", p.cmd.Process.Pid)
		return nil
	}

	full := argv
	if prefix, ok := action.Interpreter(filepath.Ext(argv[0])); ok {
		full = append(prefix, argv...)
	}
	cmd := exec.Command(full[0], full[1:]...)
	cmd.Env = append(os.Environ(), env...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start companion %s: %w", argv[0], err)
	}

	done := make(chan struct{})
	p.argv = slices.Clone(argv)
	p.cmd = cmd
	p.done = done
	log.Printf("[companion] Started %s (pid %d)", argv[0], cmd.Process.Pid)

	go p.wait(cmd, done)
	return nil
}

func (p *Process) wait(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()
	if err != nil {
		log.Printf("[companion] Exited: %v", err)
	} else {
		log.Printf("[companion] Exited")
	}

	// Stop holds the lock while it waits on done.
	close(done)

	p.mu.Lock()
	if p.cmd == cmd {
		p.cmd = nil
		p.done = nil
	}
	p.mu.Unlock()
}

// Stop kills the companion and waits briefly for it to exit.
func (p *Process) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *Process) stopLocked() error {
	cmd, done := p.cmd, p.done
	if cmd == nil {
		return nil
	}
	p.cmd = nil
	p.done = nil

	err := cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop companion: %w", err)
	}
	select {
	case <-done:
	case <-time.After(stopWait):
		log.Printf("[companion] pid %d still running after kill", cmd.Process.Pid)
	}
	return nil
}

// Update restarts the companion when argv differs from the running one.
func (p *Process) Update(argv, env []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && slices.Equal(p.argv, argv) {
		return nil
	}
	if err := p.stopLocked(); err != nil {
		return err
	}
	return p.startLocked(argv, env)
}

// Running reports whether a companion is alive.
func (p *Process) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// PID returns the running companion's process ID, or 0.
func (p *Process) PID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return 0
	}
	return p.cmd.Process.Pid
}
