package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/daemon/instance"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	info, err := config.LoadInstanceInfo()
	if err != nil {
		return fmt.Errorf("failed to load instance info: %w", err)
	}
	if info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	st, err := instance.StatusOfPrimary(cmd.Context())
	if errors.Is(err, instance.ErrNoPrimary) {
		fmt.Println("Daemon is not running.")
		fmt.Println(styleHint.Render("  Stale instance file: " + info.Socket))
		return nil
	}
	if err != nil {
		return err
	}

	trigger := styleError.Render("unavailable")
	if st.TriggerBound {
		trigger = styleSuccess.Render(st.TriggerAddr)
	}
	uptime := time.Since(st.StartedAt).Truncate(time.Second)

	fmt.Println(styleSuccess.Render("Daemon is running."))
	fmt.Printf("  %s %s\n", styleLabel.Render("PID:    "), styleValue.Render(fmt.Sprint(st.PID)))
	fmt.Printf("  %s %s\n", styleLabel.Render("Version:"), styleValue.Render(st.Version))
	fmt.Printf("  %s %s\n", styleLabel.Render("Socket: "), styleValue.Render(info.Socket))
	fmt.Printf("  %s %s\n", styleLabel.Render("Trigger:"), trigger)
	fmt.Printf("  %s %s\n", styleLabel.Render("Uptime: "), styleValue.Render(uptime.String()))
	fmt.Printf("  %s %s\n", styleLabel.Render("Overlay:"), styleValue.Render(st.Overlay))
	return nil
}
