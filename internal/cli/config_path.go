package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"abstain/internal/config"
	"abstain/internal/spec"
)

// addConfigFlag registers the shared --config flag.
func addConfigFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "config", "c", config.DefaultConfigFile, "Path to the experiment config")
}

// resolveConfigPath normalizes a config path, defaulting to abstain.yml in the
// working directory.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		configPath = config.DefaultConfigFile
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig resolves, loads, and validates the config file.
func loadConfig(configPath string) (spec.Config, error) {
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		return spec.Config{}, err
	}
	return config.Load(resolved)
}
