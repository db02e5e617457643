package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptopilot/engine"
	"github.com/rustyeddy/cryptopilot/journal"
	"github.com/rustyeddy/cryptopilot/metrics"
	"github.com/rustyeddy/cryptopilot/risk"
	"github.com/rustyeddy/cryptopilot/signals"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyse a directory of bars and book the top signals",
	Long: `Run one engine pass over every SYMBOL.csv file in the data directory.

Each CSV holds time,open,high,low,close,volume rows in chronological order.
Higher-timeframe files with the same names can be attached per timeframe;
they vote on the trend and veto signals against the majority.

Example:
  pilot run --data ./bars/1h --higher 4h=./bars/4h --higher 1d=./bars/1d`,
	RunE: runRun,
}

var (
	runDataDir     string
	runHigher      map[string]string
	runMetricsFile string
	runExportCSV   string
	runDryRun      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runDataDir, "data", "d", "", "directory of SYMBOL.csv bar files (required)")
	runCmd.Flags().StringToStringVar(&runHigher, "higher", nil, "higher timeframe bar directories, e.g. 4h=./bars/4h")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	runCmd.Flags().StringVar(&runExportCSV, "export-csv", "", "write the trades booked by this run to a CSV file")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "use an in-memory journal")
	runCmd.MarkFlagRequired("data")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inputs, err := loadInputs(log, runDataDir, cfg.Engine.Timeframe, runHigher)
	if err != nil {
		return err
	}

	opts := cfg.Journal.Options()
	if runDryRun {
		opts = journal.Options{Type: journal.TypeMemory}
	}
	store, err := journal.Open(ctx, opts)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	rec := metrics.New()
	eng, err := engine.New(cfg.Engine, store, engine.WithLogger(log), engine.WithMetrics(rec))
	if err != nil {
		return err
	}

	res, err := eng.Run(ctx, inputs)
	if runMetricsFile != "" {
		if werr := rec.WriteTextfile(runMetricsFile); werr != nil {
			log.Error().Err(werr).Str("path", runMetricsFile).Msg("write metrics")
		}
	}
	if errors.Is(err, risk.ErrLossLimitExceeded) {
		fmt.Printf("⛔ Trading halted: %v\n", err)
		fmt.Printf("  Daily loss: %.2f%% (limit %.2f%%)\n", res.DailyLossPct, cfg.Engine.MaxDailyLossPct)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Analysed %d symbols (%d skipped), %d signals\n\n", len(inputs), len(res.Skipped), len(res.Signals))
	for _, s := range res.Skipped {
		fmt.Printf("  skipped %s: %v\n", s.Symbol, s.Err)
	}
	if len(res.Skipped) > 0 {
		fmt.Println()
	}

	for i, s := range res.Selected {
		fmt.Printf("#%d %s\n\n", i+1, signals.Format(s))
	}

	if len(res.Trades) > 0 {
		fmt.Println("Trades:")
		for _, t := range res.Trades {
			fmt.Printf("  %s %-10s %-5s qty %.4f entry %.6g exit %.6g pnl %+.4f (%s)\n",
				t.ID, t.Symbol, t.Side, t.Quantity, t.EntryPrice, t.ExitPrice, t.PnL, t.Strategy)
		}
	}
	fmt.Printf("\nBalance: %.4f -> %.4f\n", res.StartBalance, res.EndBalance)

	if runExportCSV != "" {
		f, err := os.Create(runExportCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", runExportCSV, err)
		}
		defer f.Close()
		if err := journal.WriteTradesCSV(f, res.Trades); err != nil {
			return fmt.Errorf("export trades: %w", err)
		}
		fmt.Printf("Trades saved to: %s\n", runExportCSV)
	}
	return nil
}
