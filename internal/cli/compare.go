package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"acclens/compare"
	"acclens/market"
	"acclens/upbit"
)

// compareTimeLayout is what users type; KST is the bot's home timezone.
const compareTimeLayout = "2006-01-02 15:04"

func newCompareCmd(ro *rootOpts) *cobra.Command {
	var (
		marketA, marketB string
		timeA, timeB     string
		intervalMin      int
		kst              bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Replay two entry points through the indicator formulas side by side",
		Long: `Compare fetches historical candles for two market/time pairs, computes the
same indicator set the bot logs at decision time, and judges each entry by
whether the following hour reached +2% (SUCCESS) or -2% (FAILURE).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			atA, err := parseCompareTime(timeA, kst)
			if err != nil {
				return fmt.Errorf("bad --time-a: %w", err)
			}
			atB, err := parseCompareTime(timeB, kst)
			if err != nil {
				return fmt.Errorf("bad --time-b: %w", err)
			}
			iv, err := market.ParseInterval(intervalMin)
			if err != nil {
				return err
			}

			cmp := compare.New(upbit.NewClient())
			cmp.Interval = iv
			cmp.Params = ro.cfg.Indicator

			a, b, err := cmp.Compare(cmd.Context(), marketA, atA, marketB, atB)
			if err != nil {
				return err
			}

			printEvaluation("A", a)
			printEvaluation("B", b)
			printDiff(a, b)
			return nil
		},
	}

	cmd.Flags().StringVar(&marketA, "market-a", "KRW-BTC", "First market")
	cmd.Flags().StringVar(&marketB, "market-b", "KRW-ETH", "Second market")
	cmd.Flags().StringVar(&timeA, "time-a", "", "Entry time A (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&timeB, "time-b", "", "Entry time B (YYYY-MM-DD HH:MM)")
	cmd.Flags().IntVar(&intervalMin, "interval", 3, "Base candle interval in minutes (1,3,5,10,15,30,60)")
	cmd.Flags().BoolVar(&kst, "kst", true, "Interpret entry times as KST (UTC+9)")
	cmd.MarkFlagRequired("time-a")
	cmd.MarkFlagRequired("time-b")

	return cmd
}

func parseCompareTime(s string, kst bool) (time.Time, error) {
	t, err := time.Parse(compareTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if kst {
		t = t.Add(-9 * time.Hour)
	}
	return t.UTC(), nil
}

func printEvaluation(label string, ev compare.Evaluation) {
	fmt.Printf("[%s] %s @ %s\n", label, ev.Market, ev.At.Format(time.RFC3339))
	fmt.Printf("  entry: %.8f  outcome: %s (%.2f%%)\n", ev.EntryPrice, ev.Outcome, ev.ExtremeRate)
	if len(ev.Indicators) == 0 {
		fmt.Println("  indicators: insufficient history")
		return
	}
	for _, name := range market.IndicatorColumns {
		if v, ok := ev.Indicators[name]; ok {
			fmt.Printf("  %-14s %10.4f\n", name, v)
		}
	}
}

func printDiff(a, b compare.Evaluation) {
	if len(a.Indicators) == 0 || len(b.Indicators) == 0 {
		return
	}
	fmt.Println("[diff A-B]")
	for _, name := range market.IndicatorColumns {
		va, oka := a.Indicators[name]
		vb, okb := b.Indicators[name]
		if oka && okb {
			fmt.Printf("  %-14s %10.4f\n", name, va-vb)
		}
	}
}
