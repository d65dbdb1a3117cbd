package game

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/field"
	"github.com/pthm-cable/foxes/random"
	"github.com/pthm-cable/foxes/systems"
	"github.com/pthm-cable/foxes/telemetry"
)

// ErrIOFailure is returned when the population summary cannot be written.
var ErrIOFailure = errors.New("writing population summary failed")

// PhaseTimer is told when each phase of a step begins.
type PhaseTimer interface {
	StartPhase(phase string)
}

type nopTimer struct{}

func (nopTimer) StartPhase(string) {}

// Option configures a Simulator.
type Option func(*Simulator)

// WithCollector replaces the seeding policy used by Reset.
func WithCollector(c systems.Collector) Option {
	return func(s *Simulator) { s.collector = c }
}

// WithRecorder receives birth and death events.
func WithRecorder(r systems.Recorder) Option {
	return func(s *Simulator) { s.env.Recorder = r }
}

// WithPhaseTimer receives phase boundaries of every step.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(s *Simulator) { s.timer = t }
}

// WithSeed overrides the configured random seed.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.rng.Reseed(seed) }
}

// Simulator owns the field, the population and the step counter of one
// predator/prey simulation. All exported methods are safe for concurrent
// use; each holds the simulator lock for its whole duration.
type Simulator struct {
	mu sync.Mutex

	cfg       *config.Config
	rng       *random.Source
	field     *field.Field
	pop       *systems.Population
	env       *systems.Env
	collector systems.Collector
	stats     *FieldStats
	timer     PhaseTimer

	births []ecs.Entity
	step   int
	ended  bool
}

// New creates a simulator from cfg and populates it.
func New(cfg *config.Config, opts ...Option) *Simulator {
	rng := random.New(cfg.RNG.Seed)
	f := field.New(cfg.World.Depth, cfg.World.Width)
	pop := systems.NewPopulation()

	s := &Simulator{
		cfg:       cfg,
		rng:       rng,
		field:     f,
		pop:       pop,
		env:       systems.NewEnv(cfg, f, pop, rng),
		collector: systems.NewProbabilityCollector(cfg),
		stats:     NewFieldStats(cfg),
		timer:     nopTimer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// SimulateOneStep advances the simulation by one step. It does nothing
// once the simulation has ended.
func (s *Simulator) SimulateOneStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulateOneStep()
}

func (s *Simulator) simulateOneStep() {
	if s.ended {
		slog.Debug("step after end of simulation ignored")
		return
	}
	s.step++

	s.timer.StartPhase(telemetry.PhaseAct)
	s.births = s.births[:0]
	for _, e := range s.pop.Live() {
		s.env.Act(e, &s.births)
	}

	s.timer.StartPhase(telemetry.PhaseBirths)
	for _, e := range s.births {
		s.env.Newborn(e)
	}
	clear(s.births)

	s.timer.StartPhase(telemetry.PhaseCleanup)
	s.pop.Purge()
	s.stats.Invalidate()
}

// Simulate runs up to n steps, stopping early when the simulation stops
// being viable. It returns the number of steps executed.
func (s *Simulator) Simulate(n int) int {
	done := 0
	for done < n {
		s.mu.Lock()
		if s.ended || !s.stats.IsViable(s.field, s.pop) {
			s.mu.Unlock()
			break
		}
		s.simulateOneStep()
		s.mu.Unlock()
		done++
	}
	return done
}

// RunLongSimulation runs the configured long run (4000 steps by default).
func (s *Simulator) RunLongSimulation() int {
	return s.Simulate(s.cfg.Run.LongRunSteps)
}

// Reset returns to step 0 with a freshly seeded population. The random
// source is rewound, so the same seed reproduces the same run. Reset
// after EndSimulation starts a new simulation.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rng.Reset()
	s.pop.Reset()
	s.field.Clear()
	s.births = s.births[:0]
	s.step = 0
	s.ended = false

	n := s.env.Populate(s.collector, s.cfg.Population.RandomAge)
	s.stats.Invalidate()
	slog.Debug("simulation reset", "seed", s.rng.Seed(), "organisms", n)
}

// EndSimulation releases every organism. Further steps are no-ops until
// Reset. Calling it more than once is harmless.
func (s *Simulator) EndSimulation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.pop.Reset()
	s.field.Clear()
	s.stats.Invalidate()
}

// Ended reports whether EndSimulation was called since the last Reset.
func (s *Simulator) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Step returns the number of completed steps since the last reset.
func (s *Simulator) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Details returns the population summary, e.g. "Rabbit: 12 Fox: 3 ".
func (s *Simulator) Details() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.PopulationDetails(s.field, s.pop)
}

// Counts returns the number of organisms per species on the field.
func (s *Simulator) Counts() map[components.Kind]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Counts(s.field, s.pop)
}

// PopulationOf returns the number of organisms of kind on the field.
func (s *Simulator) PopulationOf(kind components.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Count(s.field, s.pop, kind)
}

// IsViable reports whether every species is still present.
func (s *Simulator) IsViable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.IsViable(s.field, s.pop)
}

// Snapshot is a read-only copy of the field contents.
type Snapshot struct {
	Depth, Width int
	Step         int
	Cells        []components.Kind // row-major
}

// At returns the species at (row, col), or KindNone.
func (sn Snapshot) At(row, col int) components.Kind {
	if row < 0 || row >= sn.Depth || col < 0 || col >= sn.Width {
		return components.KindNone
	}
	return sn.Cells[row*sn.Width+col]
}

// String renders the snapshot one row per line.
func (sn Snapshot) String() string {
	var b strings.Builder
	b.Grow((sn.Width + 1) * sn.Depth)
	for row := 0; row < sn.Depth; row++ {
		for col := 0; col < sn.Width; col++ {
			b.WriteByte(sn.At(row, col).Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Snapshot copies the current field contents.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn := Snapshot{
		Depth: s.field.Depth(),
		Width: s.field.Width(),
		Step:  s.step,
		Cells: make([]components.Kind, s.field.Depth()*s.field.Width()),
	}
	s.field.Each(func(loc field.Location, e ecs.Entity) {
		sn.Cells[loc.Row*sn.Width+loc.Col] = s.pop.Kind(e)
	})
	return sn
}

// Census samples ages and food levels for telemetry.
func (s *Simulator) Census() telemetry.Census {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := telemetry.Census{Cells: s.field.Depth() * s.field.Width()}
	for _, e := range s.pop.Live() {
		life := s.pop.Life(e)
		switch life.Kind {
		case components.KindPrey:
			c.PreyCount++
			c.PreyAges = append(c.PreyAges, float64(life.Age))
		case components.KindPredator:
			c.PredCount++
			c.PredAges = append(c.PredAges, float64(life.Age))
			c.PredFood = append(c.PredFood, float64(s.pop.Hunger(e).Food))
		}
	}
	return c
}

// Export writes the population summary to path.
func (s *Simulator) Export(path string) error {
	details := s.Details()
	if err := os.WriteFile(path, []byte(details), 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIOFailure, path, err)
	}
	return nil
}

// Log writes the population summary to path and reports success.
func (s *Simulator) Log(path string) bool {
	if err := s.Export(path); err != nil {
		slog.Error("failed to write population summary", "path", path, "error", err)
		return false
	}
	return true
}
