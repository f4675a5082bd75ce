package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/server"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/webhook"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the enrichment API and phone webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openContacts(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		eng := newEngine(cfg)
		eng.Sweeper.Start(ctx)
		defer eng.Sweeper.Stop()

		zap.L().Info("apollo webhook url", zap.String("url", cfg.WebhookURL()))

		deps := server.Deps{
			ProviderFor: func(key string) server.Provider {
				return newProvider(cfg, key)
			},
			Correlations:   eng.Correlations,
			Tracker:        eng.Tracker,
			Reconciler:     webhook.NewReconciler(eng.Correlations, eng.Tracker, st, nil),
			Enrich:         enrichConfig(cfg),
			Contacts:       st,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}
		if eng.Provider != nil {
			deps.Provider = eng.Provider
		}
		srv := server.New(deps)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		return srv.ListenAndServe(ctx, port)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
