// scenetool randomizes and inspects FF7 scene tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/godo/internal/config"
	"github.com/Faultbox/godo/internal/logger"
)

var (
	cfg      *config.Config
	cfgFlags *config.Flags
)

var rootCmd = &cobra.Command{
	Use:   "scenetool",
	Short: "Randomize and inspect FF7 scene tables",
	Long: `scenetool works on the 256-record scene table, either as raw bytes
(2,000,384 bytes) or as a section archive holding one gzip section per record.

Settings come from defaults, then godo.yaml, then GODO_* environment
variables, then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFlags)
		if err != nil {
			return err
		}
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cfgFlags = config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(randomizeCmd, infoCmd, unpackCmd, repackCmd, historyCmd, optionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
