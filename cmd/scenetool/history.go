package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Faultbox/godo/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List logged runs, or show one run with its failures",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Data.History == "" {
			return fmt.Errorf("no run log: set data.history or pass --history")
		}
		store, err := history.Open(cfg.Data.History)
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Run:      %s\n", run.ID)
			fmt.Fprintf(out, "Started:  %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
			fmt.Fprintf(out, "Seed:     %d\n", run.Seed)
			fmt.Fprintf(out, "Input:    %s\n", run.Input)
			fmt.Fprintf(out, "Output:   %s\n", run.Output)
			fmt.Fprintf(out, "Options:  %s\n", strings.Join(run.Options.Enabled(), ", "))
			fmt.Fprintf(out, "Records:  %d ok, %d failed, %d inconsistencies\n", run.Records, len(run.Failures), run.Inconsistencies)
			for _, f := range run.Failures {
				fmt.Fprintf(out, "  record %3d  %-16s %s\n", f.Record, f.Section, f.Message)
			}
			return nil
		}

		runs, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tSEED\tRECORDS\tOUTPUT")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, humanize.Time(r.StartedAt), r.Seed, r.Records, r.Output)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to list (0 for all)")
}
