package telemetry

import "github.com/pthm-cable/foxes/components"

// Census is the population state sampled by the caller at a window flush.
type Census struct {
	PreyCount, PredCount int
	PreyAges, PredAges   []float64
	PredFood             []float64
	Cells                int
}

// Collector accumulates events within windows of steps and produces
// WindowStats. It satisfies the simulator's recorder interface.
type Collector struct {
	windowSteps     int
	windowStartStep int

	preyBirths       int
	predBirths       int
	preyDeaths       int
	predDeaths       int
	deathsOldAge     int
	deathsStarvation int
	kills            int

	preySeries []float64
	predSeries []float64
}

// NewCollector creates a collector flushing every windowSteps steps.
func NewCollector(windowSteps int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{
		windowSteps: windowSteps,
		preySeries:  make([]float64, 0, windowSteps),
		predSeries:  make([]float64, 0, windowSteps),
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	if kind == components.KindPrey {
		c.preyBirths++
	} else {
		c.predBirths++
	}
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(kind components.Kind, cause components.DeathCause) {
	if kind == components.KindPrey {
		c.preyDeaths++
	} else {
		c.predDeaths++
	}
	switch cause {
	case components.CauseOldAge:
		c.deathsOldAge++
	case components.CauseStarvation:
		c.deathsStarvation++
	case components.CauseEaten:
		c.kills++
	}
}

// Sample adds one step's population counts to the window series.
func (c *Collector) Sample(prey, pred int) {
	c.preySeries = append(c.preySeries, float64(prey))
	c.predSeries = append(c.predSeries, float64(pred))
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStartStep >= c.windowSteps
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(step int, census Census) WindowStats {
	prey := Summarize(c.preySeries)
	pred := Summarize(c.predSeries)
	preyAge := Summarize(census.PreyAges)
	predAge := Summarize(census.PredAges)
	food := Summarize(census.PredFood)

	var killRate, occupancy float64
	if census.PredCount > 0 {
		killRate = float64(c.kills) / float64(census.PredCount)
	}
	if census.Cells > 0 {
		occupancy = float64(census.PreyCount+census.PredCount) / float64(census.Cells)
	}

	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   step,

		PreyCount: census.PreyCount,
		PredCount: census.PredCount,

		PreyMean: prey.Mean,
		PreyStd:  prey.Std,
		PredMean: pred.Mean,
		PredStd:  pred.Std,

		PreyBirths:       c.preyBirths,
		PredBirths:       c.predBirths,
		PreyDeaths:       c.preyDeaths,
		PredDeaths:       c.predDeaths,
		DeathsOldAge:     c.deathsOldAge,
		DeathsStarvation: c.deathsStarvation,
		Kills:            c.kills,
		KillRate:         killRate,

		PreyAgeMean: preyAge.Mean,
		PreyAgeP10:  preyAge.P10,
		PreyAgeP50:  preyAge.P50,
		PreyAgeP90:  preyAge.P90,

		PredAgeMean: predAge.Mean,
		PredAgeP10:  predAge.P10,
		PredAgeP50:  predAge.P50,
		PredAgeP90:  predAge.P90,

		PredFoodMean: food.Mean,
		PredFoodP10:  food.P10,

		Occupancy: occupancy,
	}

	c.Reset(step)
	return stats
}

// Reset clears counters and starts a new window at step.
func (c *Collector) Reset(step int) {
	c.windowStartStep = step
	c.preyBirths = 0
	c.predBirths = 0
	c.preyDeaths = 0
	c.predDeaths = 0
	c.deathsOldAge = 0
	c.deathsStarvation = 0
	c.kills = 0
	c.preySeries = c.preySeries[:0]
	c.predSeries = c.predSeries[:0]
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() int {
	return c.windowSteps
}
