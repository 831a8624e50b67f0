// Package cli implements the popsearch CLI commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/daemon/instance"
	"github.com/popsearch/popsearch/internal/daemon/trigger"
)

var (
	flagSearch     string
	flagSettings   bool
	flagForeground bool
	flagPort       int
)

var rootCmd = &cobra.Command{
	Use:   "popsearch",
	Short: "Send selected text to a search destination",
	Long: `PopSearch shows a small quick-search overlay at the cursor and routes
the selected text to a configured destination: a web search, a file or a
script.

Run without arguments to start the daemon. If a daemon is already running,
the --search and --settings flags are forwarded to it instead.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(styleError.Render("Error:") + " " + err.Error())
	}
	return err
}

func init() {
	rootCmd.Flags().StringVar(&flagSearch, "search", "", "Open the overlay for this text")
	rootCmd.Flags().BoolVar(&flagSettings, "settings", false, "Show the settings window")
	rootCmd.Flags().BoolVar(&flagForeground, "foreground", false, "Run in foreground (no system tray)")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "Trigger port for this run (0 uses settings)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(destCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(settingsViewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// launchRequest turns the launch flags into a trigger request. An unset
// --search differs from an empty one.
func launchRequest(cmd *cobra.Command) trigger.Request {
	req := trigger.Request{Settings: flagSettings}
	if cmd.Flags().Changed("search") {
		text := flagSearch
		req.Search = &text
	}
	return req
}

func runRoot(cmd *cobra.Command, args []string) error {
	req := launchRequest(cmd)

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	lockPath, err := config.GlobalLockFile()
	if err != nil {
		return err
	}

	lock, err := instance.Acquire(lockPath)
	if errors.Is(err, instance.ErrHeld) {
		// Secondary: hand the flags to the primary and exit.
		return instance.ForwardToPrimary(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	defer func() { _ = lock.Release() }()

	return runDaemon(req, daemonOptions{foreground: flagForeground, port: flagPort, lockPath: lock.Path()})
}
