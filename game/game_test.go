package game

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/foxes/telemetry"
)

func TestRunToStopsAtTarget(t *testing.T) {
	cfg := smallConfig(30, 30)
	g := NewGameWithOptions(Options{Config: cfg})
	defer g.Unload()

	taken, err := g.RunTo(context.Background(), 10)
	if err != nil {
		t.Fatalf("RunTo error: %v", err)
	}
	if g.Tick() != taken || taken > 10 {
		t.Errorf("taken=%d tick=%d, want tick==taken<=10", taken, g.Tick())
	}
	if g.Simulator().IsViable() && taken != 10 {
		t.Errorf("viable run stopped at %d", taken)
	}
}

func TestRunToHonoursCancellation(t *testing.T) {
	g := NewGameWithOptions(Options{Config: smallConfig(30, 30)})
	defer g.Unload()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	taken, err := g.RunTo(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if taken != 0 || g.Tick() != 0 {
		t.Errorf("stepped %d times after cancellation", taken)
	}
}

func TestStatsWindowsFlushed(t *testing.T) {
	var windows []telemetry.WindowStats
	g := NewGameWithOptions(Options{
		Config:        smallConfig(30, 30),
		StatsWindow:   5,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	defer g.Unload()

	if g.collector.WindowSteps() != 5 {
		t.Fatalf("window = %d steps, want 5", g.collector.WindowSteps())
	}
	taken, _ := g.RunTo(context.Background(), 20)

	if want := taken / 5; len(windows) != want {
		t.Fatalf("flushed %d windows in %d steps, want %d", len(windows), taken, want)
	}
	for i, w := range windows {
		if w.WindowEndStep != (i+1)*5 {
			t.Errorf("window %d ends at %d, want %d", i, w.WindowEndStep, (i+1)*5)
		}
	}
}

func TestGameWritesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	g := NewGameWithOptions(Options{Config: smallConfig(30, 30), StatsWindow: 2, OutputDir: dir})
	if g.outputManager.Dir() != dir {
		t.Errorf("output dir = %q, want %q", g.outputManager.Dir(), dir)
	}
	g.RunTo(context.Background(), 6)
	details := g.Simulator().Details()
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "bookmarks.csv", "details.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "details.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != details {
		t.Errorf("details.txt = %q, want %q", data, details)
	}

	// perf windows flush with the stats windows
	lines := func(name string) int {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		return strings.Count(string(b), "\n")
	}
	if tl, pl := lines("telemetry.csv"), lines("perf.csv"); tl != pl || tl < 2 {
		t.Errorf("telemetry.csv has %d lines, perf.csv %d", tl, pl)
	}
}

func TestGameSeedOverride(t *testing.T) {
	cfg := smallConfig(10, 10)
	g := NewGameWithOptions(Options{Config: cfg, Seed: 4242})
	defer g.Unload()

	if cfg.RNG.Seed == 4242 {
		t.Error("seed override modified the caller's config")
	}
	if g.Simulator().rng.Seed() != 4242 {
		t.Errorf("simulator seed = %d, want 4242", g.Simulator().rng.Seed())
	}
}

func TestLogWorldState(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(nil)

	g := NewGameWithOptions(Options{Config: smallConfig(3, 4)})
	defer g.Unload()
	g.LogWorldState()

	out := buf.String()
	if !strings.Contains(out, "Rabbit:") {
		t.Errorf("world state missing details: %q", out)
	}
	// Header plus one line per row.
	if lines := strings.Count(out, "\n"); lines != 4 {
		t.Errorf("world state has %d lines, want 4", lines)
	}
}

func TestPerfTableGroupedByCategory(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(nil)

	g := NewGameWithOptions(Options{Config: smallConfig(3, 4)})
	defer g.Unload()
	g.logPerfStats(telemetry.PerfStats{
		AvgStepDuration: 3 * time.Millisecond,
		PhaseAvg: map[string]time.Duration{
			telemetry.PhaseAct:     2 * time.Millisecond,
			telemetry.PhaseCleanup: time.Millisecond,
		},
		PhasePct: map[string]float64{telemetry.PhaseAct: 66.7, telemetry.PhaseCleanup: 33.3},
	})

	out := buf.String()
	order := []string{"[core]", "Act", "[lifecycle]", "Cleanup", "[telemetry]"}
	last := -1
	for _, s := range order {
		i := strings.Index(out, s)
		if i <= last {
			t.Fatalf("%q missing or out of order in:\n%s", s, out)
		}
		last = i
	}
	if strings.Contains(out, "Births") {
		t.Error("phase without timings listed")
	}
}

func TestRunBatch(t *testing.T) {
	seeds := []int64{1, 2, 3}
	results, err := RunBatch(context.Background(), BatchOptions{
		Config:   smallConfig(20, 20),
		Seeds:    seeds,
		MaxSteps: 15,
		Workers:  2,
	})
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if len(results) != len(seeds) {
		t.Fatalf("got %d results, want %d", len(results), len(seeds))
	}

	ids := make(map[string]bool)
	for i, r := range results {
		if r.Seed != seeds[i] {
			t.Errorf("result %d seed = %d, want %d", i, r.Seed, seeds[i])
		}
		if r.Steps > 15 {
			t.Errorf("seed %d ran %d steps, want at most 15", r.Seed, r.Steps)
		}
		if ids[r.RunID] {
			t.Errorf("duplicate run id %s", r.RunID)
		}
		ids[r.RunID] = true
	}

	// Each run matches a sequential run with the same seed.
	cfg := smallConfig(20, 20)
	cfg.RNG.Seed = seeds[1]
	s := New(cfg)
	s.Simulate(15)
	if s.Details() != results[1].Details {
		t.Errorf("batch details %q, sequential %q", results[1].Details, s.Details())
	}

	path := filepath.Join(t.TempDir(), "results.csv")
	if err := WriteBatchResults(path, results); err != nil {
		t.Fatalf("WriteBatchResults error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "run_id,seed,steps") {
		t.Errorf("unexpected csv header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}
