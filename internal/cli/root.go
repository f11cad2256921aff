// Package cli wires the acclens command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"acclens/config"
)

// rootOpts carries the persistent flags and the resolved configuration down
// to the subcommands.
type rootOpts struct {
	configPath string
	dataDir    string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	ro := &rootOpts{}

	cmd := &cobra.Command{
		Use:           "acclens",
		Short:         "Trading-bot log analysis and indicator replay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&ro.configPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&ro.dataDir, "data-dir", "", "Directory holding acc_log files (overrides config)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if ro.configPath != "" {
			loaded, err := config.LoadFromFile(ro.configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if ro.dataDir != "" {
			cfg.DataDir = ro.dataDir
		}
		ro.cfg = cfg
		return nil
	}

	cmd.AddCommand(
		newAnalyzeCmd(ro),
		newDatesCmd(ro),
		newCompareCmd(ro),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("acclens (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
