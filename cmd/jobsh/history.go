package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobsh"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded command lines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		hm, err := jobsh.NewHistoryManager(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer hm.Close()

		if historyClear {
			return hm.Clear()
		}
		records, err := hm.Records(historyLimit)
		if err != nil {
			return fmt.Errorf("error retrieving history: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, r := range records {
			start := time.Unix(r.StartTime, 0).Format("2006-01-02 15:04:05")
			fmt.Fprintf(out, "%5d  %s  %3d  %s\n", r.ID, start, r.ReturnCode, r.Line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the last n entries")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete every recorded line")
	rootCmd.AddCommand(historyCmd)
}
