package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/daemon/server"
	"github.com/popsearch/popsearch/internal/daemon/trigger"
	"github.com/popsearch/popsearch/internal/daemon/tray"
	"github.com/popsearch/popsearch/internal/daemon/watcher"
	"github.com/popsearch/popsearch/internal/desktop"
	"github.com/popsearch/popsearch/internal/models"
)

type daemonOptions struct {
	foreground bool
	port       int
	lockPath   string
}

// runDaemon runs the primary instance. The caller holds the instance lock.
func runDaemon(req trigger.Request, opts daemonOptions) error {
	log.SetPrefix("[popsearch] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Printf("Primary instance (pid %d) holding %s", os.Getpid(), opts.lockPath)

	if opts.foreground {
		log.Println("Running in foreground mode (no system tray)")
		return runForeground(req, opts)
	}
	log.Println("Running in background mode (with system tray)")
	return runWithTray(req, opts)
}

// startServer creates the server, binds the trigger listener and publishes
// instance.yaml.
func startServer(opts daemonOptions) (*server.Server, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	// Assign IDs to a hand-edited catalog before anything reads it.
	if _, err := config.LoadCatalog(); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	socket, err := config.GlobalSocketFile()
	if err != nil {
		return nil, err
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	srv, err := server.New(server.Options{
		Socket:     socket,
		Settings:   settings,
		Windows:    desktop.NewX11(settings.Terminal.Command),
		Executable: exe,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.StartTrigger(opts.port); err != nil {
		log.Printf("[trigger] %v", err)
	}
	addr, bound := srv.TriggerAddr()
	if !bound {
		addr = ""
	}

	info := models.NewInstanceInfo(socket, addr, os.Getpid())
	if err := config.SaveInstanceInfo(info); err != nil {
		srv.Stop()
		return nil, fmt.Errorf("failed to write instance info: %w", err)
	}

	if err := srv.StartCompanion(); err != nil {
		log.Printf("[companion] %v", err)
	}

	log.Printf("Daemon started on %s (PID %d)", socket, os.Getpid())
	return srv, nil
}

// watchConfig reloads the server when settings.yaml or catalog.yaml change.
func watchConfig(srv *server.Server) *watcher.Watcher {
	dir, err := config.GlobalDir()
	if err != nil {
		log.Printf("[watcher] %v", err)
		return nil
	}
	w, err := watcher.New(dir)
	if err != nil {
		log.Printf("[watcher] Failed to create watcher: %v", err)
		return nil
	}
	if err := w.Start(); err != nil {
		log.Printf("[watcher] Failed to start watcher: %v", err)
		return nil
	}

	go func() {
		for range w.Events() {
			srv.Reload()
			tray.Refresh()
		}
	}()
	return w
}

func stopServer(srv *server.Server, w *watcher.Watcher) {
	if w != nil {
		w.Stop()
	}
	srv.Stop()
	if err := config.RemoveInstanceInfo(); err != nil {
		log.Printf("Failed to remove instance info: %v", err)
	}
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(req trigger.Request, opts daemonOptions) error {
	srv, err := startServer(opts)
	if err != nil {
		return err
	}
	w := watchConfig(srv)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	srv.Router().Forwarded(context.Background(), req)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case <-srv.ShutdownRequested():
		log.Printf("Quit requested, shutting down...")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	stopServer(srv, w)
	fmt.Println("Daemon stopped")
	return nil
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(req trigger.Request, opts daemonOptions) error {
	// We need a DaemonState before the server is created, so we use a
	// lazy wrapper that defers to the real TrayState once the server exists.
	state := &lazyDaemonState{}

	var (
		mu       sync.Mutex
		w        *watcher.Watcher
		startErr error
	)

	onStart := func() {
		srv, err := startServer(opts)
		if err != nil {
			mu.Lock()
			startErr = err
			mu.Unlock()
			tray.Quit()
			return
		}
		mu.Lock()
		w = watchConfig(srv)
		mu.Unlock()
		state.set(srv)

		// Serve gRPC in background
		go func() {
			if err := srv.Serve(); err != nil {
				log.Printf("Server error: %v", err)
				tray.Quit()
			}
		}()

		go srv.Router().Forwarded(context.Background(), req)

		// Handle OS signals and menu Quit
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-sigCh:
				log.Printf("Received signal %v, shutting down...", sig)
			case <-srv.ShutdownRequested():
				log.Printf("Quit requested, shutting down...")
			}
			tray.Quit()
		}()
	}

	onExit := func() {
		if srv := state.get(); srv != nil {
			mu.Lock()
			stopServer(srv, w)
			mu.Unlock()
		}
		fmt.Println("Daemon stopped")
	}

	// This blocks the main goroutine until tray exits.
	tray.Run(state, onStart, onExit)

	mu.Lock()
	defer mu.Unlock()
	return startErr
}

// lazyDaemonState wraps server.TrayState with lazy initialization.
// The server is nil at tray startup and set from onStart, which runs on
// another goroutine than the tray callbacks.
type lazyDaemonState struct {
	srv atomic.Pointer[server.Server]
}

func (l *lazyDaemonState) set(srv *server.Server) { l.srv.Store(srv) }

func (l *lazyDaemonState) get() *server.Server { return l.srv.Load() }

func (l *lazyDaemonState) TriggerAddr() (string, bool) {
	if srv := l.get(); srv != nil {
		return server.NewTrayState(srv).TriggerAddr()
	}
	return "", false
}

func (l *lazyDaemonState) DestinationCount() int {
	if srv := l.get(); srv != nil {
		return server.NewTrayState(srv).DestinationCount()
	}
	return 0
}

func (l *lazyDaemonState) OverlayState() string {
	if srv := l.get(); srv != nil {
		return server.NewTrayState(srv).OverlayState()
	}
	return ""
}

func (l *lazyDaemonState) ShowSettings() {
	if srv := l.get(); srv != nil {
		server.NewTrayState(srv).ShowSettings()
	}
}

func (l *lazyDaemonState) Reload() {
	if srv := l.get(); srv != nil {
		server.NewTrayState(srv).Reload()
	}
}

func (l *lazyDaemonState) RequestShutdown() {
	if srv := l.get(); srv != nil {
		server.NewTrayState(srv).RequestShutdown()
	}
}
