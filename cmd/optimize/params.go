package main

import (
	"math"

	"github.com/pthm-cable/foxes/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded when applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Prey
			{Name: "prey_breeding_probability", Path: "prey.breeding_probability", Min: 0.02, Max: 0.40, Default: 0.12},
			{Name: "prey_breeding_age", Path: "prey.breeding_age", Min: 1, Max: 20, Default: 5, Integer: true},
			{Name: "prey_max_litter_size", Path: "prey.max_litter_size", Min: 1, Max: 8, Default: 4, Integer: true},
			// Predator
			{Name: "pred_breeding_probability", Path: "predator.breeding_probability", Min: 0.01, Max: 0.30, Default: 0.08},
			{Name: "pred_breeding_age", Path: "predator.breeding_age", Min: 3, Max: 40, Default: 15, Integer: true},
			{Name: "pred_max_litter_size", Path: "predator.max_litter_size", Min: 1, Max: 6, Default: 2, Integer: true},
			{Name: "pred_max_food", Path: "predator.max_food", Min: 3, Max: 30, Default: 9, Integer: true},
			// Seeding
			{Name: "predator_creation_probability", Path: "population.predator_creation_probability", Min: 0.005, Max: 0.10, Default: 0.02},
			{Name: "prey_creation_probability", Path: "population.prey_creation_probability", Min: 0.02, Max: 0.30, Default: 0.08},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and integer parameters are
// whole numbers.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Prey.BreedingProbability = c[0]
	cfg.Prey.BreedingAge = int(c[1])
	cfg.Prey.MaxLitterSize = int(c[2])

	cfg.Predator.BreedingProbability = c[3]
	cfg.Predator.BreedingAge = int(c[4])
	cfg.Predator.MaxLitterSize = int(c[5])
	cfg.Predator.MaxFood = int(c[6])

	cfg.Population.PredatorCreationProbability = c[7]
	cfg.Population.PreyCreationProbability = c[8]

	cfg.Recompute()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Prey.BreedingProbability,
		float64(cfg.Prey.BreedingAge),
		float64(cfg.Prey.MaxLitterSize),
		cfg.Predator.BreedingProbability,
		float64(cfg.Predator.BreedingAge),
		float64(cfg.Predator.MaxLitterSize),
		float64(cfg.Predator.MaxFood),
		cfg.Population.PredatorCreationProbability,
		cfg.Population.PreyCreationProbability,
	}
}

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	Steps   float64 `csv:"mean_steps"`
	Quality float64 `csv:"quality"`

	PreyBreedingProbability     float64 `csv:"prey_breeding_probability"`
	PreyBreedingAge             int     `csv:"prey_breeding_age"`
	PreyMaxLitterSize           int     `csv:"prey_max_litter_size"`
	PredBreedingProbability     float64 `csv:"pred_breeding_probability"`
	PredBreedingAge             int     `csv:"pred_breeding_age"`
	PredMaxLitterSize           int     `csv:"pred_max_litter_size"`
	PredMaxFood                 int     `csv:"pred_max_food"`
	PredatorCreationProbability float64 `csv:"predator_creation_probability"`
	PreyCreationProbability     float64 `csv:"prey_creation_probability"`
}

// newEvalRecord fills a record from a config the parameters were applied to.
func newEvalRecord(eval int, fitness, steps, quality float64, cfg *config.Config) EvalRecord {
	return EvalRecord{
		Eval:    eval,
		Fitness: fitness,
		Steps:   steps,
		Quality: quality,

		PreyBreedingProbability:     cfg.Prey.BreedingProbability,
		PreyBreedingAge:             cfg.Prey.BreedingAge,
		PreyMaxLitterSize:           cfg.Prey.MaxLitterSize,
		PredBreedingProbability:     cfg.Predator.BreedingProbability,
		PredBreedingAge:             cfg.Predator.BreedingAge,
		PredMaxLitterSize:           cfg.Predator.MaxLitterSize,
		PredMaxFood:                 cfg.Predator.MaxFood,
		PredatorCreationProbability: cfg.Population.PredatorCreationProbability,
		PreyCreationProbability:     cfg.Population.PreyCreationProbability,
	}
}
