package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/config"
)

// PreyBehavior ages, breeds and wanders. Prey never starve.
type PreyBehavior struct {
	Species config.SpeciesConfig
}

// Act implements Behavior.
func (b PreyBehavior) Act(env *Env, e ecs.Entity, births *[]ecs.Entity) {
	if !env.age(e, b.Species) {
		return
	}
	env.breed(e, b.Species, births)
	env.wander(e)
}
