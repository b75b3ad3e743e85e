package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/output"
	"github.com/mj1618/wmpolicy/internal/simulate"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay window and pointer events against the policy",
	Long: `Read a YAML list of steps on stdin and run them through the focus dispatcher
on an in-memory host. Each step reports the focus and grab calls it caused.

Supported step types: manage, unmanage, enter, leave, press, release, expect-focus

Example:
  wmpolicy simulate <<'EOF'
  - manage: { client: 10, children: [11] }
  - enter: { window: 11 }
  - expect-focus: { client: 10 }
  - press: { window: 11, binding: "A-1" }
  - leave: { window: 11 }
  - release: { window: 11, button: 1 }
  EOF`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("screens", 1, "Number of screens on the simulated host")
	simulateCmd.Flags().Bool("stop-on-error", false, "Stop at the first failed step")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	screens, _ := cmd.Flags().GetInt("screens")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("no steps provided on stdin, pipe a YAML list of steps")
	}
	steps, err := simulate.ParseSteps(data)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return fmt.Errorf("no steps provided, expected a YAML list of steps")
	}

	_, p, err := loadPolicy(cmd)
	if err != nil {
		return err
	}
	res, err := simulate.Run(p, steps, simulate.Options{Screens: screens, StopOnError: stopOnError}, appLog)
	if err != nil {
		return err
	}
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("simulation failed: %s", res.Error)
	}
	return nil
}
