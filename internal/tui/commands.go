package tui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/popsearch/popsearch/internal/channel"
	"github.com/popsearch/popsearch/internal/models"
	"github.com/popsearch/popsearch/internal/selection"
)

// receive forwards daemon frames to the program until the stream ends.
func receive(client *channel.Client, ref *programRef) {
	for {
		env, err := client.Recv()
		if err != nil {
			ref.Send(StreamEndedMsg{Err: err})
			return
		}
		msg, ok := frameMsg(env)
		if !ok {
			continue
		}
		ref.Send(msg)
	}
}

// frameMsg converts a daemon frame to a program message.
func frameMsg(env *channel.Envelope) (tea.Msg, bool) {
	switch env.Op {
	case channel.OpSelectedText:
		var body channel.SelectedText
		if err := env.Decode(&body); err != nil {
			log.Printf("[content] %v", err)
			return nil, false
		}
		return SelectedTextMsg{Text: body.Text}, true
	case channel.OpReload:
		return ReloadMsg{}, true
	case channel.OpMenu:
		var body channel.Menu
		if err := env.Decode(&body); err != nil {
			log.Printf("[content] %v", err)
			return nil, false
		}
		return MenuMsg{Menu: body}, true
	}
	log.Printf("[content] unexpected op %q", env.Op)
	return nil, false
}

func loadConfigCmd() tea.Cmd {
	return func() tea.Msg {
		settings, catalog, err := loadConfig()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Settings: settings, Catalog: catalog}
	}
}

// send wraps a channel request as a command that reports failures.
func send(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

func dispatchCmd(ch Channel, d selection.Dispatch) tea.Cmd {
	return send(func() error {
		return ch.RequestDispatch(d.Destination, d.Query, d.Copy)
	})
}

func resizeCmd(ch Channel, width, height float64) tea.Cmd {
	return send(func() error { return ch.RequestResize(width, height) })
}

func menuActionCmd(ch Channel, id string) tea.Cmd {
	return send(func() error { return ch.RequestMenuAction(id) })
}

func wheelSettleCmd(seq int) tea.Cmd {
	return tea.Tick(selection.WheelDebounce, func(time.Time) tea.Msg {
		return wheelSettleMsg{seq: seq}
	})
}

func visibleDestinations(catalog *models.Catalog) []models.Destination {
	if catalog == nil {
		return nil
	}
	return catalog.Destinations
}
