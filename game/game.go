// Package game runs predator/prey simulations headlessly: the Simulator
// core, the telemetry-driven runner and batch runs over seeds.
package game

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/systems"
	"github.com/pthm-cable/foxes/telemetry"
)

// Options configures a Game.
type Options struct {
	// Config is used instead of the global config when set.
	Config *config.Config

	Seed        int64 // 0 = use config seed
	LogStats    bool
	StatsWindow int // steps per stats window, 0 = use config
	OutputDir   string

	// StatsCallback is called with every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game drives one Simulator and records its telemetry.
type Game struct {
	sim   *Simulator
	cfg   *config.Config
	runID string

	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	registry         *systems.SystemRegistry

	logStats      bool
	statsCallback func(telemetry.WindowStats)
	bookmarks     []telemetry.Bookmark
}

// NewGameWithOptions creates a runner and its simulator.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Seed != 0 {
		cfg = cfg.Clone()
		cfg.RNG.Seed = opts.Seed
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		runID:            uuid.New().String(),
		collector:        telemetry.NewCollector(window),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		perfCollector:    telemetry.NewPerfCollector(),
		registry:         systems.NewSystemRegistry(),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output directory", "dir", opts.OutputDir, "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.sim = New(cfg,
		WithRecorder(g.collector),
		WithPhaseTimer(g.perfCollector),
	)

	slog.Info("simulation created",
		"run_id", g.runID,
		"seed", cfg.RNG.Seed,
		"depth", cfg.World.Depth,
		"width", cfg.World.Width,
		"stats_window", g.collector.WindowSteps(),
		"output_dir", g.outputManager.Dir(),
		"details", g.sim.Details(),
	)
	return g
}

// UpdateHeadless runs one step with telemetry. It returns false without
// stepping once the simulation is no longer viable.
func (g *Game) UpdateHeadless() bool {
	if !g.sim.IsViable() || g.sim.Ended() {
		return false
	}

	g.perfCollector.StartStep()
	g.sim.SimulateOneStep()

	g.perfCollector.StartPhase(telemetry.PhaseStats)
	counts := g.sim.Counts()
	g.collector.Sample(counts[components.KindPrey], counts[components.KindPredator])

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndStep()
	return true
}

// RunTo steps until the step counter reaches target, the simulation stops
// being viable, or ctx is cancelled. It returns the number of steps taken.
func (g *Game) RunTo(ctx context.Context, target int) (int, error) {
	taken := 0
	for g.sim.Step() < target {
		if err := ctx.Err(); err != nil {
			return taken, err
		}
		if !g.UpdateHeadless() {
			break
		}
		taken++
	}
	return taken, nil
}

// Run steps until the simulation stops being viable, maxSteps is reached
// (0 = no limit) or ctx is cancelled.
func (g *Game) Run(ctx context.Context, maxSteps int) (int, error) {
	if maxSteps > 0 {
		return g.RunTo(ctx, g.sim.Step()+maxSteps)
	}
	taken := 0
	for {
		if err := ctx.Err(); err != nil {
			return taken, err
		}
		if !g.UpdateHeadless() {
			return taken, nil
		}
		taken++
	}
}

// Reset restarts the simulation and the telemetry windows.
func (g *Game) Reset() {
	g.sim.Reset()
	g.collector.Reset(0)
	g.perfCollector.Flush()
	g.bookmarkDetector = telemetry.NewBookmarkDetector(g.cfg.Telemetry.BookmarkHistorySize)
	g.bookmarks = nil
}

// Simulator returns the underlying simulator.
func (g *Game) Simulator() *Simulator {
	return g.sim
}

// Tick returns the current step.
func (g *Game) Tick() int {
	return g.sim.Step()
}

// RunID returns the identifier of this run.
func (g *Game) RunID() string {
	return g.runID
}

// Bookmarks returns every bookmark triggered since the last reset.
func (g *Game) Bookmarks() []telemetry.Bookmark {
	return g.bookmarks
}

// Unload writes the final population summary, closes output files and
// ends the simulation.
func (g *Game) Unload() {
	if g.outputManager != nil {
		g.sim.Log(g.outputManager.Path("details.txt"))
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
	slog.Info("simulation finished",
		"run_id", g.runID,
		"step", g.sim.Step(),
		"details", g.sim.Details(),
	)
	g.sim.EndSimulation()
}
