package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/foxes/components"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{5}, Summary{Mean: 5, P10: 5, P50: 5, P90: 5}},
		{"one to ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, Summary{Mean: 5.5, Std: 3.0277, P10: 1, P50: 5, P90: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			for _, c := range []struct {
				field     string
				got, want float64
			}{
				{"mean", got.Mean, tt.want.Mean},
				{"std", got.Std, tt.want.Std},
				{"p10", got.P10, tt.want.P10},
				{"p50", got.P50, tt.want.P50},
				{"p90", got.P90, tt.want.P90},
			} {
				if math.Abs(c.got-c.want) > 0.001 {
					t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input modified: %v", values)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	if cv := CoefficientOfVariation([]float64{4, 4, 4, 4}); cv != 0 {
		t.Errorf("constant series CV = %v, want 0", cv)
	}
	if cv := CoefficientOfVariation([]float64{0, 0}); cv != 0 {
		t.Errorf("zero-mean CV = %v, want 0", cv)
	}
	if cv := CoefficientOfVariation([]float64{1, 100}); cv < 1 {
		t.Errorf("spread series CV = %v, want > 1", cv)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	c.RecordBirth(components.KindPrey)
	c.RecordBirth(components.KindPrey)
	c.RecordBirth(components.KindPredator)
	c.RecordDeath(components.KindPrey, components.CauseEaten)
	c.RecordDeath(components.KindPrey, components.CauseOldAge)
	c.RecordDeath(components.KindPredator, components.CauseStarvation)
	c.Sample(10, 2)
	c.Sample(20, 2)

	if c.ShouldFlush(9) {
		t.Error("flush due before the window ended")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("flush not due at window end")
	}

	s := c.Flush(10, Census{
		PreyCount: 20,
		PredCount: 2,
		PreyAges:  []float64{1, 2, 3},
		PredAges:  []float64{10, 20},
		PredFood:  []float64{4, 6},
		Cells:     100,
	})

	if s.WindowStartStep != 0 || s.WindowEndStep != 10 {
		t.Errorf("window = [%d,%d], want [0,10]", s.WindowStartStep, s.WindowEndStep)
	}
	if s.PreyBirths != 2 || s.PredBirths != 1 {
		t.Errorf("births = %d/%d, want 2/1", s.PreyBirths, s.PredBirths)
	}
	if s.PreyDeaths != 2 || s.PredDeaths != 1 {
		t.Errorf("deaths = %d/%d, want 2/1", s.PreyDeaths, s.PredDeaths)
	}
	if s.Kills != 1 || s.DeathsOldAge != 1 || s.DeathsStarvation != 1 {
		t.Errorf("causes = kills %d old %d starve %d, want 1/1/1", s.Kills, s.DeathsOldAge, s.DeathsStarvation)
	}
	if s.PreyMean != 15 {
		t.Errorf("prey mean = %v, want 15", s.PreyMean)
	}
	if s.KillRate != 0.5 {
		t.Errorf("kill rate = %v, want 0.5", s.KillRate)
	}
	if math.Abs(s.Occupancy-0.22) > 1e-9 {
		t.Errorf("occupancy = %v, want 0.22", s.Occupancy)
	}
	if s.PredFoodMean != 5 {
		t.Errorf("food mean = %v, want 5", s.PredFoodMean)
	}

	// Counters reset for the next window.
	next := c.Flush(20, Census{})
	if next.WindowStartStep != 10 || next.PreyBirths != 0 || next.Kills != 0 || next.PreyMean != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
