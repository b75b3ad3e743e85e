package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/output"
	"github.com/mj1618/wmpolicy/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "wmpolicy",
	Short: "Validate, inspect and exercise a window manager focus policy",
	Long: `wmpolicy manages the focus policy of a window manager: whether clicking,
entering or leaving a client changes focus, and which modifier+button
combinations are grabbed on client windows for interactive move/resize.`,
	SilenceUsage: true,
}

// appLog is configured by the root command before any subcommand runs.
var appLog = logger.Nop()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("config", "", "Path to the policy file (default: $XDG_CONFIG_HOME/wmpolicy/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		output.Out = cmd.OutOrStdout()

		level := zerolog.InfoLevel
		if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
			level = zerolog.DebugLevel
		}
		opts := []logger.Option{logger.WithConsole(), logger.WithLevel(level)}
		if logFile, _ := rootCmd.PersistentFlags().GetString("log-file"); logFile != "" {
			opts = append(opts, logger.WithFile(logFile))
		}
		log, err := logger.New(opts...)
		if err != nil {
			return err
		}
		appLog = log
		return nil
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appLog.Close()
	}
}
