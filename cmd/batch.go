package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/enrich"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/importer"
)

var (
	batchParallel    bool
	batchConcurrency int
	batchUserID      string
	batchLimit       int
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.xlsx|file.csv>",
	Short: "Enrich every row of a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "batch: read file")
		}
		rows, err := importer.ReadFile(args[0], data)
		if err != nil {
			return err
		}
		people := importer.MapRows(rows)
		if len(people) == 0 {
			return eris.New("batch: no data found in file")
		}
		if batchLimit > 0 && len(people) > batchLimit {
			people = people[:batchLimit]
		}

		zap.L().Info("batch: enriching rows",
			zap.String("file", args[0]),
			zap.Int("rows", len(people)),
			zap.Bool("parallel", batchParallel),
		)

		eng := newEngine(cfg)
		if batchParallel {
			items := eng.Orchestrator.EnrichPeopleParallel(cmd.Context(), people, enrich.ParallelOptions{
				UserID:      batchUserID,
				Concurrency: batchConcurrency,
			})
			return printJSON(cmd.OutOrStdout(), items)
		}

		rep := importer.BuildReport(eng.Provider.BatchEnrich(cmd.Context(), people))
		zap.L().Info("batch: complete",
			zap.String("run_id", rep.RunID),
			zap.Int("successful", rep.Summary.Successful),
			zap.Int("failed", rep.Summary.Failed),
		)
		return printJSON(cmd.OutOrStdout(), rep)
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchParallel, "parallel", false, "enrich in concurrent windows instead of sequentially")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "window size for --parallel (default from config)")
	batchCmd.Flags().StringVar(&batchUserID, "user-id", "", "user to track requests for")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max rows to enrich (0 = all)")
	rootCmd.AddCommand(batchCmd)
}
