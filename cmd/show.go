package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective focus policy",
	Long: `Print the focus policy loaded from the configuration file: the click, enter
and leave focus flags and each client button binding in canonical form.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	path, p, err := loadPolicy(cmd)
	if err != nil {
		return err
	}
	return output.Print(output.NewPolicyResult(path, p))
}
