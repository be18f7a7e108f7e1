package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"abstain/internal/prompt"
	"abstain/internal/runner"
)

func newValidateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config and its input files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("validation failed:\n%w", err)
			}
			inputs, err := runner.LoadInputs(cfg, 0)
			if err != nil {
				return fmt.Errorf("validation failed:\n%w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Config OK")
			fmt.Fprintf(out, "Experiment: %s\n", cfg.Experiment)
			fmt.Fprintf(out, "Questions: %d\n", len(inputs.Questions))
			fmt.Fprintf(out, "Models: %d\n", len(inputs.Models))
			fmt.Fprintf(out, "System Prompts: %s\n", strings.Join(prompt.Names(inputs.Variants), ", "))
			fmt.Fprintf(out, "Ledger: %s (%s)\n", cfg.Ledger.Path, cfg.Ledger.Backend)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}
