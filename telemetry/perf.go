package telemetry

import (
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseAct       = "act"
	PhaseBirths    = "births"
	PhaseCleanup   = "cleanup"
	PhaseStats     = "stats"
	PhaseTelemetry = "telemetry"
)

// PerfCollector accumulates step and phase timings until the next Flush.
// Flushing alongside the stats window keeps perf.csv rows aligned with
// telemetry.csv rows.
type PerfCollector struct {
	steps     int
	total     time.Duration
	minStep   time.Duration
	maxStep   time.Duration
	phaseSums map[string]time.Duration

	stepStart  time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates an empty collector.
func NewPerfCollector() *PerfCollector {
	return &PerfCollector{phaseSums: make(map[string]time.Duration)}
}

// StartStep begins timing a simulation step.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.phaseSums[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndStep closes the last phase and adds the step to the window.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	d := now.Sub(p.stepStart)
	if p.steps == 0 || d < p.minStep {
		p.minStep = d
	}
	p.maxStep = max(p.maxStep, d)
	p.total += d
	p.steps++
}

// PerfStats summarises the step timings of one window.
type PerfStats struct {
	Steps           int
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64 // share of the average step
	StepsPerSecond  float64
}

// Flush returns the stats for the steps recorded since the last flush and
// starts a new window.
func (p *PerfCollector) Flush() PerfStats {
	s := PerfStats{
		Steps:    p.steps,
		PhaseAvg: make(map[string]time.Duration, len(p.phaseSums)),
		PhasePct: make(map[string]float64, len(p.phaseSums)),
	}
	if p.steps > 0 {
		s.AvgStepDuration = p.total / time.Duration(p.steps)
		s.MinStepDuration = p.minStep
		s.MaxStepDuration = p.maxStep
		for phase, sum := range p.phaseSums {
			avg := sum / time.Duration(p.steps)
			s.PhaseAvg[phase] = avg
			if s.AvgStepDuration > 0 {
				s.PhasePct[phase] = float64(avg) / float64(s.AvgStepDuration) * 100
			}
		}
		if s.AvgStepDuration > 0 {
			s.StepsPerSecond = float64(time.Second) / float64(s.AvgStepDuration)
		}
	}

	p.steps = 0
	p.total, p.minStep, p.maxStep = 0, 0, 0
	clear(p.phaseSums)
	return s
}

// LogValue implements slog.LogValuer. Phases are emitted in name order.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("steps", s.Steps),
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Int("steps_per_sec", int(s.StepsPerSecond)),
	}
	for _, phase := range slices.Sorted(maps.Keys(s.PhasePct)) {
		attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(s.PhasePct[phase]*10))/10))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgStepUS    int64   `csv:"avg_step_us"`
	MinStepUS    int64   `csv:"min_step_us"`
	MaxStepUS    int64   `csv:"max_step_us"`
	StepsPerSec  float64 `csv:"steps_per_sec"`
	ActPct       float64 `csv:"act_pct"`
	BirthsPct    float64 `csv:"births_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	StatsPct     float64 `csv:"stats_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgStepUS:    s.AvgStepDuration.Microseconds(),
		MinStepUS:    s.MinStepDuration.Microseconds(),
		MaxStepUS:    s.MaxStepDuration.Microseconds(),
		StepsPerSec:  s.StepsPerSecond,
		ActPct:       s.PhasePct[PhaseAct],
		BirthsPct:    s.PhasePct[PhaseBirths],
		CleanupPct:   s.PhasePct[PhaseCleanup],
		StatsPct:     s.PhasePct[PhaseStats],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
