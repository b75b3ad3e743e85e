package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/config"
	"github.com/mj1618/wmpolicy/internal/dispatch"
	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/output"
	"github.com/mj1618/wmpolicy/internal/platform/sim"
	"github.com/mj1618/wmpolicy/internal/simulate"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Hot-reload the policy file until interrupted",
	Long: `Load the policy, then watch the configuration file. Each edit is fully
validated before it replaces the live policy; the new policy is printed.
Invalid edits are logged and the previous policy stays in effect.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Int("screens", 1, "Number of screens on the simulated host")
}

func runWatch(cmd *cobra.Command, args []string) error {
	screens, _ := cmd.Flags().GetInt("screens")
	if screens < 1 || screens > simulate.MaxScreens {
		return fmt.Errorf("--screens must be between 1 and %d, got %d", simulate.MaxScreens, screens)
	}
	path, p, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	host := sim.NewHost(screens)
	d, err := dispatch.New(p, host.Provider(), appLog)
	if err != nil {
		return err
	}
	if err := output.Print(output.NewPolicyResult(path, p)); err != nil {
		return err
	}

	w, err := config.NewWatcher(path, appLog, func(next *model.FocusPolicy) error {
		if err := d.Swap(next); err != nil {
			return err
		}
		return output.Print(output.NewPolicyResult(path, next))
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}
