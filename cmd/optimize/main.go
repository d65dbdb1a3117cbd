// Package main searches fox and rabbit parameters with CMA-ES for the
// settings that keep both species alive the longest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/foxes/config"
)

type options struct {
	configPath string
	maxSteps   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxSteps, "max-steps", 4000, "Step cap per simulation run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Runs (seeds) averaged per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Evaluation budget")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = 4 + 3*dim/2)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for optimize_log.csv and best_config.yaml")
	flag.Parse()

	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}

	// Per-run simulator logs would drown the progress lines.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating eval log: %w", err)
	}
	defer logFile.Close()
	evals := &evalLog{w: logFile}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.maxSteps, seeds, baseCfg)
	prog := newProgress(opts.maxEvals)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.evaluateContext(ctx, raw)
			clamped := params.Clamp(raw)
			prog.observe(fitness, clamped)

			steps, quality := evaluator.Last()
			cfg := baseCfg.Clone()
			params.ApplyToConfig(cfg, clamped)
			if err := evals.write(newEvalRecord(prog.evals, fitness, steps, quality, cfg)); err != nil {
				log.Printf("writing eval log: %v", err)
			}
			fmt.Println(prog.line(steps, quality))
			return fitness
		},
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	fmt.Printf("CMA-ES over %d parameters, population %d, %d evals, %d seeds x %d steps\n",
		params.Dim(), popSize, opts.maxEvals, opts.seeds, opts.maxSteps)

	result, err := optimize.Minimize(problem,
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := prog.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return fmt.Errorf("no evaluation completed")
	}

	fmt.Printf("\n%d evaluations in %s, best fitness %.0f\n", prog.evals, formatDuration(prog.elapsed()), prog.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %-30s %.6f\n", spec.Name, best[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, best)
	path := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(path); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("best config saved to %s\n", path)
	return nil
}
