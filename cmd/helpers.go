package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/config"
	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
)

// configPath returns the --config flag value.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

// loadConfig resolves and reads the policy file, applying its log_level
// unless --debug was given.
func loadConfig(cmd *cobra.Command) (string, config.File, error) {
	path, f, err := config.Find(configPath(cmd), appLog)
	if err != nil {
		return "", config.File{}, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); !debug && f.LogLevel != "" {
		level, err := logger.ParseLevel(f.LogLevel)
		if err != nil {
			return "", config.File{}, err
		}
		appLog.SetLevel(level)
	}
	return path, f, nil
}

// loadPolicy loads the policy file and builds its validated policy.
func loadPolicy(cmd *cobra.Command) (string, *model.FocusPolicy, error) {
	path, f, err := loadConfig(cmd)
	if err != nil {
		return "", nil, err
	}
	p, err := f.Policy()
	if err != nil {
		return "", nil, err
	}
	return path, p, nil
}
