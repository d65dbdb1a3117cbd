package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/field"
)

// PredatorBehavior ages, starves, breeds, hunts adjacent prey and
// otherwise wanders.
type PredatorBehavior struct {
	Species config.SpeciesConfig
}

// Act implements Behavior.
func (b PredatorBehavior) Act(env *Env, e ecs.Entity, births *[]ecs.Entity) {
	if !env.age(e, b.Species) {
		return
	}
	if !env.starve(e, b.Species) {
		return
	}
	env.breed(e, b.Species, births)

	if loc, ok := env.hunt(e, b.Species); ok {
		env.MoveTo(e, loc)
		return
	}
	env.wander(e)
}

// starve lowers the food level and kills at the starvation threshold.
// Returns false if the organism died. Immobile predators still starve.
func (env *Env) starve(e ecs.Entity, species config.SpeciesConfig) bool {
	hunger := env.Pop.Hunger(e)
	if hunger == nil {
		return true
	}
	hunger.Food--
	if hunger.Food <= species.StarvationThreshold {
		hunger.Food = max(hunger.Food, 0)
		env.Kill(e, components.CauseStarvation)
		return false
	}
	return true
}

// hunt looks for a living prey next to e. On success the prey is killed,
// the predator's food is restored and the freed cell is returned.
func (env *Env) hunt(e ecs.Entity, species config.SpeciesConfig) (field.Location, bool) {
	pos := env.Pop.Position(e)
	if !pos.Placed {
		return field.Location{}, false
	}
	for _, n := range env.neighbors(pos.Loc) {
		occ, ok := env.Field.ObjectAt(n)
		if !ok {
			continue
		}
		life := env.Pop.Life(occ)
		if life.Kind != components.KindPrey || !life.Alive {
			continue
		}
		env.Kill(occ, components.CauseEaten)
		if hunger := env.Pop.Hunger(e); hunger != nil {
			hunger.Food = species.MaxFood
		}
		return n, true
	}
	return field.Location{}, false
}
