package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptopilot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query trade journal data",
	Long: `Query and display trade journal records from the configured store.

Subcommands:
  trade  - Get details of a specific trade by ID (sqlite only)
  today  - List trades booked today (UTC)
  day    - List trades booked on a specific UTC day
  export - Write trades of a day range as CSV

Examples:
  pilot journal trade 01J2Z6...
  pilot journal today
  pilot journal day 2025-07-14
  pilot journal export --from 2025-07-01 --to 2025-07-14 -o trades.csv`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades booked today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades booked on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var (
	exportFrom   string
	exportTo     string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalExportCmd)

	journalExportCmd.Flags().StringVar(&exportFrom, "from", "", "first day, YYYY-MM-DD (required)")
	journalExportCmd.Flags().StringVar(&exportTo, "to", "", "last day, YYYY-MM-DD (defaults to --from)")
	journalExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	journalExportCmd.MarkFlagRequired("from")
}

func openJournal(ctx context.Context) (journal.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(ctx, cfg.Journal.Options())
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return store, nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	db, ok := store.(*journal.SQLiteStore)
	if !ok {
		return fmt.Errorf("trade lookup needs the sqlite journal")
	}
	rec, err := db.GetTrade(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return printDay(cmd.Context(), time.Now().UTC().Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return printDay(cmd.Context(), args[0])
}

func printDay(ctx context.Context, day string) error {
	start, end, err := dayRange(day, day)
	if err != nil {
		return err
	}
	recs, err := queryTrades(ctx, start, end)
	if err != nil {
		return err
	}
	fmt.Println(journal.FormatTradesOrg(recs))
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	to := exportTo
	if to == "" {
		to = exportFrom
	}
	start, end, err := dayRange(exportFrom, to)
	if err != nil {
		return err
	}
	recs, err := queryTrades(cmd.Context(), start, end)
	if err != nil {
		return err
	}

	w := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}
	return journal.WriteTradesCSV(w, recs)
}

func queryTrades(ctx context.Context, start, end time.Time) ([]journal.Trade, error) {
	store, err := openJournal(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	recs, err := store.TradesBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	return recs, nil
}

// dayRange returns [first 00:00 UTC, last+1 00:00 UTC).
func dayRange(first, last string) (time.Time, time.Time, error) {
	s, err := time.Parse("2006-01-02", first)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date: %w", err)
	}
	e, err := time.Parse("2006-01-02", last)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date: %w", err)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("date: %s is before %s", last, first)
	}
	start, _ := journal.DayBounds(s)
	_, end := journal.DayBounds(e)
	return start, end, nil
}
