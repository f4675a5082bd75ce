package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/config"
)

var validateKeyCmd = &cobra.Command{
	Use:   "validate-key",
	Short: "Check the configured Apollo API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		zap.L().Info("validating apollo key", zap.String("key_prefix", config.KeyPrefix(cfg.Apollo.Key)))

		status, err := newEngine(cfg).Provider.ValidateKey(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}

func init() {
	rootCmd.AddCommand(validateKeyCmd)
}
