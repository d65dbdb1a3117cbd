package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/field"
	"github.com/pthm-cable/foxes/random"
)

// Collector decides which species, if any, is seeded into a cell on reset.
type Collector interface {
	RandomOrganism(rng *random.Source) components.Kind
}

// ProbabilityCollector seeds a predator with PredatorProbability, otherwise
// a prey with PreyProbability, otherwise nothing.
type ProbabilityCollector struct {
	PredatorProbability float64
	PreyProbability     float64
}

// NewProbabilityCollector reads the creation probabilities from cfg.
func NewProbabilityCollector(cfg *config.Config) ProbabilityCollector {
	return ProbabilityCollector{
		PredatorProbability: cfg.Population.PredatorCreationProbability,
		PreyProbability:     cfg.Population.PreyCreationProbability,
	}
}

// RandomOrganism implements Collector.
func (c ProbabilityCollector) RandomOrganism(rng *random.Source) components.Kind {
	if rng.Float64() < c.PredatorProbability {
		return components.KindPredator
	}
	if rng.Float64() < c.PreyProbability {
		return components.KindPrey
	}
	return components.KindNone
}

// Populate visits every cell once in row-major order and seeds it using
// collector. Seeded organisms are placed and registered immediately.
// With randomAge they start at a random age (and predators at a random
// food level), otherwise as newborns.
func (env *Env) Populate(collector Collector, randomAge bool) int {
	seeded := 0
	for row := 0; row < env.Field.Depth(); row++ {
		for col := 0; col < env.Field.Width(); col++ {
			kind := collector.RandomOrganism(env.Rng)
			if kind == components.KindNone {
				continue
			}
			loc := field.Location{Row: row, Col: col}
			e := env.seed(kind, loc, randomAge)
			env.Place(e, loc)
			env.Pop.Register(e)
			seeded++
		}
	}
	return seeded
}

func (env *Env) seed(kind components.Kind, loc field.Location, randomAge bool) ecs.Entity {
	species := env.Species(kind)
	age, food := 0, species.MaxFood
	if randomAge {
		age = env.Rng.Intn(species.MaxAge)
		if kind == components.KindPredator {
			food = 1 + env.Rng.Intn(species.MaxFood)
		}
	}
	return env.Pop.Spawn(kind, age, food, loc)
}
