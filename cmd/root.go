package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "enrichctl",
	Short: "Apollo contact enrichment and phone webhook reconciliation",
	Long:  "Enriches contacts through Apollo, tracks pending phone reveals, and applies webhook-delivered phone numbers to the downstream contact store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
