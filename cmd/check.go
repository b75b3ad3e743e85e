package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/config"
	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check [FILE]",
	Short: "Validate a policy file",
	Long: `Load a policy file and validate every client button binding. All invalid
bindings are reported together with the expected grammar, and the command
exits non-zero.

FILE defaults to --config, then the default configuration path. Unlike the
other commands, check never creates a missing configuration file.

Examples:
  wmpolicy check
  wmpolicy check ~/.config/wmpolicy/config.yaml --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(defaultPath); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no configuration file at %s (run 'wmpolicy show' to create one with the defaults)", defaultPath)
		}
		path = defaultPath
	}

	var p *model.FocusPolicy
	f, err := config.Load(path)
	if err == nil {
		p, err = f.Policy()
	}
	res := output.NewValidationResult(path, p, err)
	if printErr := output.Print(res); printErr != nil {
		return printErr
	}
	if !res.Valid {
		return fmt.Errorf("%s: policy is invalid (%d error(s))", path, len(res.Errors))
	}
	return nil
}
