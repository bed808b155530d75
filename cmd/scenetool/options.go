package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/godo/pkg/scene"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List option names and show which are enabled",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		enabled := make(map[string]bool)
		for _, name := range cfg.Options.Enabled() {
			enabled[name] = true
		}
		out := cmd.OutOrStdout()
		for _, name := range scene.OptionNames() {
			mark := " "
			if enabled[name] {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] %s\n", mark, name)
		}
	},
}
