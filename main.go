package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in steps (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, -1 = time-based)")
	maxSteps := flag.Int("steps", -1, "Stop after N steps (0 = until not viable, -1 = use config)")
	longRun := flag.Bool("long", false, "Run the long simulation instead of -steps")
	runs := flag.Int("runs", 1, "Number of independent runs with consecutive seeds")
	export := flag.String("export", "", "Write the final population summary to this file")
	dumpField := flag.Bool("dump-field", false, "Print the final field to stderr")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	switch {
	case rngSeed < 0:
		rngSeed = time.Now().UnixNano()
	case rngSeed == 0:
		rngSeed = cfg.RNG.Seed
	}

	steps := cfg.Run.MaxSteps
	if *maxSteps >= 0 {
		steps = *maxSteps
	}
	if *longRun {
		steps = cfg.Run.LongRunSteps
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *runs > 1 {
		seeds := make([]int64, *runs)
		for i := range seeds {
			seeds[i] = rngSeed + int64(i)
		}
		slog.Info("starting batch", "runs", *runs, "first_seed", rngSeed, "steps", steps)

		results, err := game.RunBatch(ctx, game.BatchOptions{
			Config:    cfg,
			Seeds:     seeds,
			MaxSteps:  steps,
			OutputDir: *outputDir,
		})
		if err != nil {
			slog.Error("batch failed", "error", err)
			os.Exit(1)
		}
		for _, r := range results {
			slog.Info("run finished", "run_id", r.RunID, "seed", r.Seed, "steps", r.Steps, "viable", r.Viable, "details", r.Details)
		}
		if *outputDir != "" {
			if err := game.WriteBatchResults(filepath.Join(*outputDir, "results.csv"), results); err != nil {
				slog.Error("failed to write batch results", "error", err)
				os.Exit(1)
			}
		}
		return
	}

	g := game.NewGameWithOptions(game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		OutputDir:   *outputDir,
	})
	defer g.Unload()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"steps", steps,
		"stats_window", *statsWindow,
	)

	taken, err := g.Run(ctx, steps)
	if err != nil {
		slog.Warn("simulation interrupted", "step", g.Tick(), "error", err)
	}
	slog.Info("simulation stopped",
		"steps_taken", taken,
		"step", g.Tick(),
		"viable", g.Simulator().IsViable(),
	)

	if *dumpField {
		game.SetLogWriter(os.Stderr)
		g.LogWorldState()
	}
	if *export != "" && !g.Simulator().Log(*export) {
		// deferred Unload still runs
		slog.Error("export failed", "path", *export)
	}
}
