package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Faultbox/godo/pkg/container"
)

var repackCmd = &cobra.Command{
	Use:   "repack <archive> [dir]",
	Short: "Recompress the sections of an archive",
	Long: `repack recompresses every section and rewrites its header. When dir is
given, sections with a matching <dir>/NNN.bin file take that file's bytes;
the others are recompressed from the archive itself.

The result goes to --output, or replaces the archive when no output is set.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := container.Open(args[0])
		if err != nil {
			return err
		}

		replaced := 0
		for i := 0; i < archive.Len(); i++ {
			data, ok, err := sectionFile(args, i)
			if err != nil {
				return err
			}
			if !ok {
				if err := archive.Repack(i); err != nil {
					return err
				}
				continue
			}
			if err := archive.Replace(i, data); err != nil {
				return err
			}
			replaced++
		}

		dst := cfg.Data.Output
		if dst == "" {
			dst = args[0]
		}
		if err := archive.WriteFile(dst); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Repacked %d sections (%d from files, %s) to %s\n",
			archive.Len(), replaced, humanize.IBytes(uint64(len(archive.Bytes()))), dst)
		return nil
	},
}

// sectionFile returns the replacement bytes for section i, if the optional
// directory argument holds a file for it.
func sectionFile(args []string, i int) ([]byte, bool, error) {
	if len(args) < 2 {
		return nil, false, nil
	}
	data, err := os.ReadFile(sectionPath(args[1], i))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
