package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"acclens/acclog"
	"acclens/journal"
	"acclens/loader"
	"acclens/market"
)

func newAnalyzeCmd(ro *rootOpts) *cobra.Command {
	var (
		all     bool
		results []string
		csvPath string
		dbPath  string
	)

	cmd := &cobra.Command{
		Use:   "analyze [date ...]",
		Short: "Reconstruct trades from acc_log files and summarize them",
		Long: `Analyze scans the daily acc_log files for the given dates (YYYY-MM-DD),
reconstructs completed buy/sell trades with their decision-time indicator
snapshots, and prints a summary. Use --csv or --db to export the table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ld := loader.NewWithParser(ro.cfg.DataDir,
				acclog.New(acclog.WithFeeRate(ro.cfg.FeeRate)))

			dates := args
			if all {
				dates = ld.Dates()
			}
			if len(dates) == 0 {
				return fmt.Errorf("no dates given and none discovered in %s (try --all after adding logs)", ro.cfg.DataDir)
			}

			trades := ld.LoadAll(dates)
			trades = filterResults(trades, results)
			if len(trades) == 0 {
				fmt.Println("no matching trades")
				return nil
			}

			printSummary(trades)
			printTrades(trades)

			if csvPath != "" {
				if err := exportCSV(csvPath, trades); err != nil {
					return err
				}
				fmt.Printf("wrote %d trades to %s\n", len(trades), csvPath)
			}
			if dbPath != "" {
				if err := exportSQLite(dbPath, trades); err != nil {
					return err
				}
				fmt.Printf("wrote %d trades to %s\n", len(trades), dbPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Analyze every date found in the data directory")
	cmd.Flags().StringSliceVar(&results, "result", nil, "Only include these outcomes (ok,x,NB)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Export the trade table as CSV")
	cmd.Flags().StringVar(&dbPath, "db", "", "Export the trade table into a SQLite file")

	return cmd
}

func filterResults(trades []market.Trade, results []string) []market.Trade {
	if len(results) == 0 {
		return trades
	}
	keep := make(map[market.Outcome]bool, len(results))
	for _, r := range results {
		keep[market.Outcome(strings.TrimSpace(r))] = true
	}
	out := trades[:0]
	for _, t := range trades {
		if keep[t.Result] {
			out = append(out, t)
		}
	}
	return out
}

func printSummary(trades []market.Trade) {
	s := journal.Summarize(trades)
	fmt.Printf("trades: %d  ok: %d  x: %d  NB: %d  win rate: %.1f%%  net: %.0f KRW\n",
		s.Total, s.OK, s.Loss, s.Neutral, s.WinRate, s.ProfitKRW)
}

func printTrades(trades []market.Trade) {
	fmt.Printf("%-10s  %-10s  %-12s  %8s  %10s  %7s  %-3s\n",
		"date", "market", "sell time", "buy KRW", "profit", "yield", "res")
	for _, t := range trades {
		fmt.Printf("%-10s  %-10s  %-12s  %8.0f  %10.1f  %6.2f%%  %-3s\n",
			t.Date, t.Market, t.SellTime.Format("15:04:05.000"),
			t.BuyKRW, t.ProfitKRW, t.Yield, t.Result)
	}
}

func exportCSV(path string, trades []market.Trade) error {
	j, err := journal.NewCSV(path)
	if err != nil {
		return fmt.Errorf("open csv export: %w", err)
	}
	if err := journal.RecordAll(j, trades); err != nil {
		j.Close()
		return fmt.Errorf("write csv export: %w", err)
	}
	return j.Close()
}

func exportSQLite(path string, trades []market.Trade) error {
	j, err := journal.NewSQLite(path)
	if err != nil {
		return fmt.Errorf("open sqlite export: %w", err)
	}
	if err := journal.RecordAll(j, trades); err != nil {
		j.Close()
		return fmt.Errorf("write sqlite export: %w", err)
	}
	return j.Close()
}
