package main

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/game"
	"github.com/pthm-cable/foxes/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxSteps    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	lastSteps   float64 // mean survival from most recent Evaluate call
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxSteps:    maxSteps,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 25,
	}
}

// Last returns mean survival steps and quality of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (steps, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSteps, fe.lastQuality
}

// A species below minViablePop for extinctionGraceSteps consecutive steps
// counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceSteps = 20
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalSteps int
	windowStats   []telemetry.WindowStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]*runResult, len(fe.seeds))
	var eg errgroup.Group
	for i, seed := range fe.seeds {
		eg.Go(func() error {
			results[i] = fe.runSimulation(cfg, seed)
			return nil
		})
	}
	eg.Wait()

	var totalFitness, totalSteps, totalQuality float64
	for _, r := range results {
		q := computeQuality(r.windowStats)
		totalFitness += computeFitness(r.survivalSteps, q)
		totalSteps += float64(r.survivalSteps)
		totalQuality += q
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastSteps = totalSteps / n
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until extinction or maxSteps.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g := game.NewGameWithOptions(game.Options{
		Config:      cfg,
		Seed:        seed,
		StatsWindow: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer g.Unload()

	var preyBelow, predBelow int
	for g.Tick() < fe.maxSteps {
		if !g.UpdateHeadless() {
			break
		}

		counts := g.Simulator().Counts()
		if counts[components.KindPrey] < minViablePop {
			preyBelow++
		} else {
			preyBelow = 0
		}
		if counts[components.KindPredator] < minViablePop {
			predBelow++
		} else {
			predBelow = 0
		}
		if preyBelow >= extinctionGraceSteps || predBelow >= extinctionGraceSteps {
			break
		}
	}

	result.survivalSteps = g.Tick()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate configs with
// similar survival.
func computeFitness(survivalSteps int, quality float64) float64 {
	return -(float64(survivalSteps) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.25

	qualityWarmupWindows = 2
	qualityMinPop        = minViablePop
	targetPreyPerPred    = 5.0
)

// computeQuality computes ecosystem quality in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, huntSum float64
	var count int
	preyCounts := make([]float64, 0, len(windows))
	predCounts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.PreyCount < qualityMinPop || w.PredCount < qualityMinPop {
			continue
		}
		count++
		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))

		logErr := math.Log(float64(w.PreyCount) / float64(w.PredCount) / targetPreyPerPred)
		ratioSum += math.Exp(-logErr * logErr)

		// saturating in kills per predator per window
		huntSum += 1.0 - math.Exp(-w.KillRate)
	}
	if count == 0 {
		return 0
	}

	cvPrey := telemetry.CoefficientOfVariation(preyCounts)
	cvPred := telemetry.CoefficientOfVariation(predCounts)
	stability := math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))

	quality := qualityWeightRatio*ratioSum/float64(count) +
		qualityWeightStability*stability +
		qualityWeightHunting*huntSum/float64(count)

	return min(max(quality, 0), 1)
}

// evaluateContext runs Evaluate unless ctx is already done, in which case
// it returns +Inf so the optimizer discards the point.
func (fe *FitnessEvaluator) evaluateContext(ctx context.Context, x []float64) float64 {
	if ctx.Err() != nil {
		return math.Inf(1)
	}
	return fe.Evaluate(x)
}
