package telemetry

import (
	"testing"
	"time"
)

// runSteps records n steps that each spend the given durations in phases,
// in the order listed.
func runSteps(pc *PerfCollector, n int, phases []string, sleeps []time.Duration) {
	for range n {
		pc.StartStep()
		for i, phase := range phases {
			pc.StartPhase(phase)
			time.Sleep(sleeps[i])
		}
		pc.EndStep()
	}
}

func TestPerfCollectorWindow(t *testing.T) {
	pc := NewPerfCollector()
	runSteps(pc, 4, []string{PhaseAct, PhaseBirths}, []time.Duration{100 * time.Microsecond, 50 * time.Microsecond})

	s := pc.Flush()
	if s.Steps != 4 {
		t.Errorf("steps = %d, want 4", s.Steps)
	}
	if s.AvgStepDuration <= 0 || s.StepsPerSecond <= 0 {
		t.Errorf("avg %v, steps/s %v", s.AvgStepDuration, s.StepsPerSecond)
	}
	if s.MinStepDuration > s.AvgStepDuration || s.AvgStepDuration > s.MaxStepDuration {
		t.Errorf("min %v avg %v max %v out of order", s.MinStepDuration, s.AvgStepDuration, s.MaxStepDuration)
	}
	for _, phase := range []string{PhaseAct, PhaseBirths} {
		if s.PhaseAvg[phase] <= 0 {
			t.Errorf("%s not tracked", phase)
		}
	}
}

func TestPerfCollectorFlushStartsNewWindow(t *testing.T) {
	pc := NewPerfCollector()
	runSteps(pc, 3, []string{PhaseAct}, []time.Duration{0})
	pc.Flush()

	s := pc.Flush()
	if s.Steps != 0 || s.AvgStepDuration != 0 || len(s.PhaseAvg) != 0 {
		t.Errorf("second flush = %+v, want empty window", s)
	}
	if s.PhaseAvg == nil || s.PhasePct == nil {
		t.Error("empty window has nil maps")
	}

	runSteps(pc, 2, []string{PhaseCleanup}, []time.Duration{0})
	s = pc.Flush()
	if s.Steps != 2 {
		t.Errorf("steps = %d, want 2", s.Steps)
	}
	if _, ok := s.PhaseAvg[PhaseAct]; ok {
		t.Error("phase from the previous window leaked")
	}
}

func TestPerfCollectorPhaseShare(t *testing.T) {
	pc := NewPerfCollector()
	runSteps(pc, 5, []string{PhaseStats, PhaseAct}, []time.Duration{10 * time.Microsecond, 500 * time.Microsecond})

	s := pc.Flush()
	if s.PhasePct[PhaseAct] <= s.PhasePct[PhaseStats] {
		t.Errorf("act %v%% <= stats %v%%", s.PhasePct[PhaseAct], s.PhasePct[PhaseStats])
	}
	if total := s.PhasePct[PhaseAct] + s.PhasePct[PhaseStats]; total > 100.0001 {
		t.Errorf("phase shares sum to %v%%", total)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgStepDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseAct: 80, PhaseCleanup: 5},
	}
	row := s.ToCSV(42)
	if row.WindowEnd != 42 || row.AvgStepUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.ActPct != 80 || row.CleanupPct != 5 || row.BirthsPct != 0 {
		t.Errorf("phase pct = act %v cleanup %v births %v", row.ActPct, row.CleanupPct, row.BirthsPct)
	}
}
