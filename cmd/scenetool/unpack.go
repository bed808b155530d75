package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Faultbox/godo/pkg/container"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <archive> <dir>",
	Short: "Decompress every section of an archive into a directory",
	Long: `unpack writes section i to <dir>/NNN.bin, where NNN is the zero-padded
section index. repack reads the same names back.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := container.Open(args[0])
		if err != nil {
			return err
		}
		dir := args[1]
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		var total uint64
		for i := 0; i < archive.Len(); i++ {
			data, err := archive.Read(i)
			if err != nil {
				return err
			}
			if err := os.WriteFile(sectionPath(dir, i), data, 0644); err != nil {
				return err
			}
			total += uint64(len(data))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Unpacked %d sections (%s) to %s\n",
			archive.Len(), humanize.IBytes(total), dir)
		return nil
	},
}

func sectionPath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%03d.bin", i))
}
