package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/godo/internal/config"
	"github.com/Faultbox/godo/internal/history"
	"github.com/Faultbox/godo/internal/logger"
	"github.com/Faultbox/godo/pkg/catalog"
	"github.com/Faultbox/godo/pkg/rng"
	"github.com/Faultbox/godo/pkg/scene"
)

var randomizeCmd = &cobra.Command{
	Use:   "randomize [scene]",
	Short: "Randomize every record of a scene table",
	Example: `  scenetool randomize scene.bin -o scene.out.bin -e models.swap,enemies.random_stats
  scenetool randomize --seed 42 --enable all --disable enemies.weaker`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Data.Scene = args[0]
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runRandomize(ctx, cfg, cmd.OutOrStdout())
	},
}

func runRandomize(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.Data.Output == "" {
		return fmt.Errorf("no output path: set data.output or pass --output")
	}

	cat, err := catalog.Load(cfg.Data.Catalog)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	camera, err := readOptional(cfg.Data.Camera)
	if err != nil {
		return fmt.Errorf("reading camera data: %w", err)
	}
	initCam, err := readOptional(cfg.Data.InitialCamera)
	if err != nil {
		return fmt.Errorf("reading initial camera data: %w", err)
	}
	tf, err := readTable(cfg.Data.Scene)
	if err != nil {
		return err
	}

	t, err := scene.NewTransformer(scene.Config{
		Options:       cfg.Options,
		Catalog:       cat,
		Camera:        camera,
		MaxModelDraws: cfg.Randomizer.MaxModelDraws,
		Workers:       cfg.Randomizer.Workers,
		Logger:        logger.Log,
	})
	if err != nil {
		return err
	}

	seed := cfg.Randomizer.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("randomizing scene table",
		zap.String("input", cfg.Data.Scene),
		zap.String("format", tf.format()),
		zap.Int64("seed", seed),
		zap.Int("workers", cfg.Randomizer.Workers),
		zap.Strings("options", cfg.Options.Enabled()))

	report, err := t.RandomizeTable(ctx, tf.table, initCam, rng.New(seed))
	if err != nil {
		return err
	}
	for _, inc := range report.Inconsistencies {
		logger.Warn(inc.String())
	}

	if err := tf.write(cfg.Data.Output); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Data.Output, err)
	}

	if cfg.Data.History != "" {
		if err := recordRun(ctx, cfg, seed, report); err != nil {
			// The table is already written; a missing log entry is not fatal.
			logger.Warn("could not record run", zap.Error(err))
		}
	}

	fmt.Fprintf(out, "seed %d: %d/%d records randomized, %d failed, %d inconsistencies -> %s\n",
		seed, report.Records, scene.RecordCount, len(report.Failures), len(report.Inconsistencies), cfg.Data.Output)
	return nil
}

func recordRun(ctx context.Context, cfg *config.Config, seed int64, report *scene.Report) error {
	store, err := history.Open(cfg.Data.History)
	if err != nil {
		return err
	}
	defer store.Close()

	run := history.NewRun(seed, cfg.Options, report)
	run.Input = cfg.Data.Scene
	run.Output = cfg.Data.Output
	id, err := store.Add(ctx, run)
	if err != nil {
		return err
	}
	logger.Info("run recorded", zap.String("id", id))
	return nil
}
