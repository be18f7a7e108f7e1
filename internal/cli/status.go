package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"abstain/internal/runner"
)

func newStatusCmd() *cobra.Command {
	var (
		configPath string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show completed and pending combinations per model and prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return usageError{err: fmt.Errorf("--limit must be >= 0")}
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := runner.Status(ctx, cfg, limit, readLedgerKeys)
			if err != nil {
				return err
			}
			return runner.WriteStatus(cmd.OutOrStdout(), report)
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVar(&limit, "limit", 0, "Only count the first N questions (0 uses the config)")
	return cmd
}
