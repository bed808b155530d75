package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Faultbox/godo/pkg/scene"
)

var infoCmd = &cobra.Command{
	Use:   "info <scene> [record]",
	Short: "Show a table overview, or the contents of one record",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := readTable(args[0])
		if err != nil {
			return err
		}
		recs, err := scene.Records(tf.table)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			return printTable(out, args[0], tf, recs)
		}

		i, err := strconv.Atoi(args[1])
		if err != nil || i < 0 || i >= len(recs) {
			return fmt.Errorf("record must be 0-%d, got %q", len(recs)-1, args[1])
		}
		s, err := scene.Inspect(recs[i])
		if err != nil {
			return err
		}
		printRecord(out, i, s)
		return nil
	},
}

func printTable(out io.Writer, path string, tf *tableFile, recs []scene.Record) error {
	fmt.Fprintf(out, "Table:     %s\n", path)
	fmt.Fprintf(out, "Format:    %s\n", tf.format())
	fmt.Fprintf(out, "Size:      %s (%d records of %s)\n",
		humanize.IBytes(uint64(len(tf.table))), len(recs), humanize.IBytes(scene.RecordSize))
	if tf.archive != nil {
		var packed uint64
		for _, h := range tf.archive.List() {
			packed += uint64(h.CompressedSize)
		}
		fmt.Fprintf(out, "Packed:    %s\n", humanize.IBytes(packed))
	}

	var formations, enemies int
	for _, rec := range recs {
		s, err := scene.Inspect(rec)
		if err != nil {
			return err
		}
		formations += s.Formations
		for _, e := range s.Enemies {
			if e.Present {
				enemies++
			}
		}
	}
	fmt.Fprintf(out, "Enemies:   %s\n", humanize.Comma(int64(enemies)))
	fmt.Fprintf(out, "Formations: %s\n", humanize.Comma(int64(formations)))
	return nil
}

func printRecord(out io.Writer, i int, s *scene.Summary) {
	fmt.Fprintf(out, "Record %d\n\n", i)

	fmt.Fprintln(out, "Enemies:")
	for slot, e := range s.Enemies {
		if !e.Present {
			fmt.Fprintf(out, "  %c  (empty)\n", 'A'+slot)
			continue
		}
		fmt.Fprintf(out, "  %c  model %-4d %-16s Lv %-3d HP %-7d EXP %-6d Gil %d\n",
			'A'+slot, s.Models[slot], e.Name, e.Level, e.HP, e.EXP, e.Gil)
	}

	fmt.Fprintf(out, "\nFormations: %d in use\n", s.Formations)
	for f, n := range s.Placements {
		fmt.Fprintf(out, "  %d  %d placed\n", f, n)
	}

	fmt.Fprintf(out, "\nAttacks: %d\n", s.Attacks)
	if len(s.AttackNames) > 0 {
		fmt.Fprintf(out, "  %s\n", strings.Join(s.AttackNames, ", "))
	}
}
