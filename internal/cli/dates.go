package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"acclens/loader"
)

func newDatesCmd(ro *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List dates with an acc_log file in the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dates := loader.New(ro.cfg.DataDir).Dates()
			if len(dates) == 0 {
				fmt.Printf("no acc_log files in %s\n", ro.cfg.DataDir)
				return nil
			}
			for _, d := range dates {
				fmt.Println(d)
			}
			return nil
		},
	}
}
