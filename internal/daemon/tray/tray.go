package tray

import (
	_ "embed"
	"fmt"

	"github.com/getlantern/systray"
)

//go:embed icon.png
var iconData []byte

var (
	state        DaemonState
	onStart      func()
	onExit       func()
	triggerItem  *systray.MenuItem
	settingsItem *systray.MenuItem
	reloadItem   *systray.MenuItem
	quitItem     *systray.MenuItem
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (launch the daemon here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip("PopSearch")

	header := systray.AddMenuItem("PopSearch", "")
	header.Disable()

	triggerItem = systray.AddMenuItem("Starting...", "")
	triggerItem.Disable()

	systray.AddSeparator()

	settingsItem = systray.AddMenuItem("Settings", "Open PopSearch settings")
	reloadItem = systray.AddMenuItem("Reload", "Reload settings and destinations")
	quitItem = systray.AddMenuItem("Quit", "Shut down PopSearch")

	if onStart != nil {
		onStart()
	}

	Refresh()

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-settingsItem.ClickedCh:
			if state != nil {
				go state.ShowSettings()
			}
		case <-reloadItem.ClickedCh:
			if state != nil {
				state.Reload()
				Refresh()
			}
		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

// Refresh updates the status line and tooltip from the daemon state.
func Refresh() {
	if state == nil || triggerItem == nil {
		return
	}
	addr, bound := state.TriggerAddr()
	triggerItem.SetTitle(formatTrigger(addr, bound))
	systray.SetTooltip(formatTooltip(state.DestinationCount(), bound))
}

func formatTrigger(addr string, bound bool) string {
	if !bound {
		return "Trigger port unavailable"
	}
	return fmt.Sprintf("Listening on %s", addr)
}

func formatTooltip(destinations int, bound bool) string {
	if !bound {
		return fmt.Sprintf("PopSearch: %d destinations, trigger offline", destinations)
	}
	return fmt.Sprintf("PopSearch: %d destinations", destinations)
}
