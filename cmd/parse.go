package cmd

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/output"
)

var parseCmd = &cobra.Command{
	Use:   "parse BINDING...",
	Short: "Parse client button bindings",
	Long: `Parse each binding and print its canonical form, modifiers and button.

A binding is zero or more modifiers followed by a button, joined by '-'.
Modifiers: C (Control), S (Shift), A/M/Mod1 (Alt), M2, M3, W/Mod4 (Super), M5.
Buttons: 1-5 or Left, Middle, Right, Up, Down.

Examples:
  wmpolicy parse A-1 C-A-Right
  wmpolicy parse W-Middle --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	var result *multierror.Error
	infos := make([]output.BindingInfo, 0, len(args))
	for _, arg := range args {
		b, err := model.ParseBinding(arg)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		infos = append(infos, output.NewBindingInfo(arg, b))
	}
	if len(infos) > 0 {
		if err := output.Print(infos); err != nil {
			return err
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to parse %d of %d binding(s): %w", len(result.Errors), len(args), err)
	}
	return nil
}
