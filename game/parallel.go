package game

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
)

// BatchResult summarizes one run of a batch.
type BatchResult struct {
	RunID     string `csv:"run_id"`
	Seed      int64  `csv:"seed"`
	Steps     int    `csv:"steps"`
	Viable    bool   `csv:"viable"`
	Prey      int    `csv:"prey"`
	Predators int    `csv:"predators"`
	Bookmarks int    `csv:"bookmarks"`
	Details   string `csv:"details"`
}

// BatchOptions configures RunBatch.
type BatchOptions struct {
	Config    *config.Config
	Seeds     []int64
	MaxSteps  int    // per run, 0 = until not viable
	OutputDir string // per-seed subdirectories when set
	Workers   int    // 0 = GOMAXPROCS
}

// RunBatch runs one independent simulation per seed concurrently. Results
// are returned in seed order. Cancelling ctx stops every run between steps.
func RunBatch(ctx context.Context, opts BatchOptions) ([]BatchResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(opts.Seeds))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, seed := range opts.Seeds {
		eg.Go(func() error {
			runCfg := cfg.Clone()
			runCfg.RNG.Seed = seed

			var dir string
			if opts.OutputDir != "" {
				dir = filepath.Join(opts.OutputDir, fmt.Sprintf("seed_%d", seed))
			}
			g := NewGameWithOptions(Options{Config: runCfg, OutputDir: dir})
			defer g.Unload()

			if _, err := g.Run(ctx, opts.MaxSteps); err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			sim := g.Simulator()
			counts := sim.Counts()
			results[i] = BatchResult{
				RunID:     g.RunID(),
				Seed:      seed,
				Steps:     sim.Step(),
				Viable:    sim.IsViable(),
				Prey:      counts[components.KindPrey],
				Predators: counts[components.KindPredator],
				Bookmarks: len(g.Bookmarks()),
				Details:   sim.Details(),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WriteBatchResults writes results as CSV to path.
func WriteBatchResults(path string, results []BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(results, f); err != nil {
		return fmt.Errorf("writing batch results: %w", err)
	}
	return nil
}
