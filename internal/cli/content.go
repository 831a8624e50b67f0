package cli

import (
	"github.com/spf13/cobra"

	"github.com/popsearch/popsearch/internal/tui"
)

var (
	flagWindow string
	flagSocket string
)

// overlayCmd and settingsViewCmd run inside the terminal windows the
// daemon opens. They are not meant to be started by hand.
var overlayCmd = &cobra.Command{
	Use:    "overlay",
	Short:  "Run the quick-search overlay content",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunOverlay(flagSocket, flagWindow)
	},
}

var settingsViewCmd = &cobra.Command{
	Use:    "settings-view",
	Short:  "Run the settings window content",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunSettings(flagSocket)
	},
}

func init() {
	overlayCmd.Flags().StringVar(&flagWindow, "window", "", "Overlay window ID")
	overlayCmd.Flags().StringVar(&flagSocket, "socket", "", "Daemon socket path")
	_ = overlayCmd.MarkFlagRequired("window")
	_ = overlayCmd.MarkFlagRequired("socket")

	settingsViewCmd.Flags().StringVar(&flagSocket, "socket", "", "Daemon socket path")
	_ = settingsViewCmd.MarkFlagRequired("socket")
}
