// Package tui implements the content shown inside PopSearch windows: the
// quick-search overlay and the settings viewer.
package tui

import (
	"context"
	"fmt"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/popsearch/popsearch/internal/channel"
	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/models"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Channel is the content side of the daemon channel.
type Channel interface {
	RequestResize(w, h float64) error
	RequestDispatch(dest *models.Destination, query string, copyToClipboard bool) error
	RequestClose() error
	RequestContextMenu() error
	RequestMenuAction(id string) error
	RequestReload() error
	RequestMinimize() error
	RequestSettings() error
}

// RunOverlay runs the quick-search overlay content for window.
func RunOverlay(socket, window string) error {
	return run(socket, window, channel.RoleOverlay, func(client *channel.Client, settings *models.Settings, catalog *models.Catalog) tea.Model {
		return NewOverlayModel(client, settings, catalog)
	})
}

// RunSettings runs the settings window content.
func RunSettings(socket string) error {
	return run(socket, "settings", channel.RoleSettings, func(client *channel.Client, settings *models.Settings, catalog *models.Catalog) tea.Model {
		return NewSettingsModel(client, settings, catalog)
	})
}

func run(socket, window string, role channel.Role, newModel func(*channel.Client, *models.Settings, *models.Catalog) tea.Model) error {
	settings, catalog, err := loadConfig()
	if err != nil {
		return err
	}

	conn, err := channel.Dial(socket)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client, err := channel.Attach(ctx, conn, window)
	if err != nil {
		return err
	}
	defer client.Close()
	log.SetOutput(client.LogWriter())

	ref := &programRef{}
	p := tea.NewProgram(
		newModel(client, settings, catalog),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	// Store program reference for goroutine sends
	ref.Set(p)
	defer ref.Clear()

	go receive(client, ref)
	if err := client.Hello(role); err != nil {
		return fmt.Errorf("failed to greet daemon: %w", err)
	}

	_, err = p.Run()
	return err
}

func loadConfig() (*models.Settings, *models.Catalog, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	catalog, err := config.LoadCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return settings, catalog, nil
}
