package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command line overrides bound onto a cobra command.
type Flags struct {
	fs *pflag.FlagSet

	config  string
	debug   bool
	seed    int64
	workers int
	output  string
	catalog string
	history string
	enable  []string
	disable []string
}

// BindFlags registers the config flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.config, "config", "c", "", "Path to config file")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.Int64VarP(&f.seed, "seed", "s", 0, "Master random seed (0 picks one)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "Records processed at once")
	fs.StringVarP(&f.output, "output", "o", "", "Output path")
	fs.StringVar(&f.catalog, "catalog", "", "Model catalog file")
	fs.StringVar(&f.history, "history", "", "Run log database")
	fs.StringSliceVarP(&f.enable, "enable", "e", nil, `Options to turn on, e.g. models.swap or "all"`)
	fs.StringSliceVarP(&f.disable, "disable", "d", nil, "Options to turn off")
	return f
}

// ConfigPath returns the explicit config path if provided via --config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.config
}

// apply applies flag overrides to the config. Only flags the user set
// take effect. Options are enabled before they are disabled.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.changed("seed") {
		cfg.Randomizer.Seed = f.seed
	}
	if f.changed("workers") && f.workers > 0 {
		cfg.Randomizer.Workers = f.workers
	}
	if f.output != "" {
		cfg.Data.Output = f.output
	}
	if f.catalog != "" {
		cfg.Data.Catalog = f.catalog
	}
	if f.history != "" {
		cfg.Data.History = f.history
	}
	for _, name := range f.enable {
		if err := cfg.Options.Set(name, true); err != nil {
			return err
		}
	}
	for _, name := range f.disable {
		if err := cfg.Options.Set(name, false); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}
