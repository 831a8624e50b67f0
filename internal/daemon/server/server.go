// Package server implements the daemon's gRPC server and ties the
// overlay, settings window and trigger listener together.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/popsearch/popsearch/internal/buildinfo"
	"github.com/popsearch/popsearch/internal/channel"
	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/daemon/action"
	"github.com/popsearch/popsearch/internal/daemon/companion"
	"github.com/popsearch/popsearch/internal/daemon/instance"
	"github.com/popsearch/popsearch/internal/daemon/overlay"
	"github.com/popsearch/popsearch/internal/daemon/primary"
	"github.com/popsearch/popsearch/internal/daemon/trigger"
	"github.com/popsearch/popsearch/internal/desktop"
	"github.com/popsearch/popsearch/internal/models"
)

// Options configures a Server.
type Options struct {
	// Socket is the unix socket path for the gRPC server.
	Socket string
	// Settings are the initial settings.
	Settings *models.Settings
	// Windows is the window system overlays and settings open on.
	Windows desktop.WindowSystem
	// Executable is the program content windows run, usually os.Executable.
	Executable string
	// Executor runs dispatches. Nil means action.New.
	Executor *action.Executor
}

// Server is the daemon's gRPC server.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	socket     string
	startedAt  time.Time

	overlays  *overlay.Lifecycle
	primary   *primary.Window
	router    *trigger.Router
	executor  *action.Executor
	companion companion.Process

	mu       sync.Mutex
	settings *models.Settings
	trigger  *trigger.Listener
	conns    map[*contentConn]struct{}

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// New creates a new server listening on the options' unix socket. A
// stale socket file left by a crashed primary is removed first; the
// caller must hold the instance lock.
func New(opts Options) (*Server, error) {
	if opts.Settings == nil {
		opts.Settings = models.NewSettings()
	}
	if err := os.Remove(opts.Socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "unix", opts.Socket)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	srv := newServer(opts)
	srv.listener = listener
	return srv, nil
}

// newServer builds a server without a listener.
func newServer(opts Options) *Server {
	settings := opts.Settings
	srv := &Server{
		grpcServer: grpc.NewServer(),
		socket:     opts.Socket,
		startedAt:  time.Now().UTC(),
		settings:   settings,
		conns:      make(map[*contentConn]struct{}),
		shutdownCh: make(chan struct{}),
	}

	srv.overlays = overlay.New(overlay.Config{
		Windows: opts.Windows,
		Size:    desktop.Size{W: settings.Overlay.Width, H: settings.Overlay.Height},
		OffsetY: settings.Overlay.OffsetY,
		Command: func(id string) []string {
			return []string{opts.Executable, "overlay", "--window=" + id, "--socket=" + opts.Socket}
		},
	})
	srv.primary = primary.New(primary.Config{
		Windows: opts.Windows,
		Size:    desktop.Size{W: settings.SettingsWindow.Width, H: settings.SettingsWindow.Height},
		Command: []string{opts.Executable, "settings-view", "--socket=" + opts.Socket},
	})
	srv.router = &trigger.Router{
		Screen:    opts.Windows,
		Overlays:  srv.overlays,
		Primary:   srv.primary,
		CursorGap: settings.Trigger.CursorGap,
	}
	srv.executor = opts.Executor
	if srv.executor == nil {
		srv.executor = action.New(nil)
	}
	srv.executor.Dismiss = func(window string) { srv.overlays.DismissWindow(window) }

	// Register services
	instance.RegisterInstanceServer(srv.grpcServer, &instance.Service{Forwarder: srv.router, Status: srv.Status})
	channel.RegisterContentServer(srv.grpcServer, &contentService{server: srv})

	return srv
}

// Socket returns the unix socket path.
func (s *Server) Socket() string {
	return s.socket
}

// Router returns the trigger router.
func (s *Server) Router() *trigger.Router {
	return s.router
}

// Overlays returns the overlay lifecycle.
func (s *Server) Overlays() *overlay.Lifecycle {
	return s.overlays
}

// Primary returns the settings window.
func (s *Server) Primary() *primary.Window {
	return s.primary
}

// StartTrigger binds the loopback trigger listener. port overrides the
// configured port when non-zero. A bind failure is returned for logging;
// the daemon keeps running without the listener.
func (s *Server) StartTrigger(port int) error {
	s.mu.Lock()
	if port == 0 {
		port = s.settings.Trigger.Port
	}
	l := trigger.NewListener(port, s.router)
	s.trigger = l
	s.mu.Unlock()
	return l.Start()
}

// StartCompanion starts the configured companion process. It is given
// the trigger address when the listener is bound.
func (s *Server) StartCompanion() error {
	return s.companion.Start(s.companionArgs())
}

func (s *Server) companionArgs() ([]string, []string) {
	s.mu.Lock()
	argv := s.settings.Trigger.Companion
	s.mu.Unlock()

	var env []string
	if addr, bound := s.TriggerAddr(); bound {
		env = append(env, companion.AddrEnv+"="+addr)
	}
	return argv, env
}

// TriggerAddr returns the trigger listener address and whether it is
// bound.
func (s *Server) TriggerAddr() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trigger == nil {
		return "", false
	}
	return s.trigger.Addr(), s.trigger.Bound()
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop closes every window, stops the companion and gracefully stops the
// server.
func (s *Server) Stop() {
	if err := s.companion.Stop(); err != nil {
		log.Printf("Failed to stop companion: %v", err)
	}
	s.overlays.Dismiss()
	if err := s.primary.Close(); err != nil {
		log.Printf("Failed to close settings window: %v", err)
	}

	s.mu.Lock()
	l := s.trigger
	s.mu.Unlock()
	if l != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.Shutdown(ctx)
	}

	s.grpcServer.Stop()
	_ = os.Remove(s.socket)
}

// Status describes the running daemon.
func (s *Server) Status() instance.Status {
	addr, bound := s.TriggerAddr()
	return instance.Status{
		PID:          os.Getpid(),
		Version:      buildinfo.Version,
		TriggerAddr:  addr,
		TriggerBound: bound,
		StartedAt:    s.startedAt,
		Overlay:      s.overlays.State().String(),
	}
}

// Reload rereads settings and the catalog from disk and tells every
// attached overlay and the bound settings view to reload.
func (s *Server) Reload() {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("Failed to reload settings: %v", err)
	} else {
		s.mu.Lock()
		s.settings = settings
		s.mu.Unlock()
		s.overlays.SetGeometry(desktop.Size{W: settings.Overlay.Width, H: settings.Overlay.Height}, settings.Overlay.OffsetY)
		s.router.SetCursorGap(settings.Trigger.CursorGap)
		if err := s.companion.Update(s.companionArgs()); err != nil {
			log.Printf("Failed to restart companion: %v", err)
		}
	}
	if _, err := config.LoadCatalog(); err != nil {
		log.Printf("Failed to reload catalog: %v", err)
	}

	for _, c := range s.connections() {
		if c.role != channel.RoleOverlay {
			continue
		}
		if err := c.SendReload(); err != nil {
			log.Printf("[channel] reload %s: %v", c.window, err)
		}
	}
	if err := s.primary.Reload(); err != nil {
		log.Printf("[channel] reload settings: %v", err)
	}
	log.Printf("Reloaded configuration")
}

func (s *Server) connections() []*contentConn {
	s.mu.Lock()
	defer s.mu.Unlock()
	conns := make([]*contentConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	return conns
}

// ShutdownRequested is closed when Quit is chosen from a menu.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdownCh
}

// RequestShutdown asks the daemon to exit.
func (s *Server) RequestShutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
}

// TrayState adapts a Server to the tray.DaemonState interface.
type TrayState struct {
	srv *Server
}

// NewTrayState creates a TrayState for the given server.
func NewTrayState(srv *Server) *TrayState {
	return &TrayState{srv: srv}
}

// TriggerAddr returns the trigger listener address and whether it is
// bound.
func (t *TrayState) TriggerAddr() (string, bool) {
	return t.srv.TriggerAddr()
}

// DestinationCount returns the number of enabled destinations.
func (t *TrayState) DestinationCount() int {
	catalog, err := config.LoadCatalog()
	if err != nil {
		return 0
	}
	n := 0
	for _, d := range catalog.Destinations {
		if d.Enabled {
			n++
		}
	}
	return n
}

// OverlayState returns the overlay lifecycle state.
func (t *TrayState) OverlayState() string {
	return t.srv.overlays.State().String()
}

// ShowSettings opens the settings window.
func (t *TrayState) ShowSettings() {
	if err := t.srv.primary.Show(context.Background()); err != nil {
		log.Printf("Failed to show settings: %v", err)
	}
}

// Reload rereads configuration.
func (t *TrayState) Reload() {
	t.srv.Reload()
}

// RequestShutdown sends SIGINT to the current process to trigger a graceful shutdown.
func (t *TrayState) RequestShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}
