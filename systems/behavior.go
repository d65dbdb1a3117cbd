package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/field"
	"github.com/pthm-cable/foxes/random"
)

// Recorder receives life-cycle events as they happen during a step.
type Recorder interface {
	RecordBirth(kind components.Kind)
	RecordDeath(kind components.Kind, cause components.DeathCause)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) RecordBirth(components.Kind)                        {}
func (NopRecorder) RecordDeath(components.Kind, components.DeathCause) {}

// Behavior is the once-per-step update of one living organism.
// Newborns are appended to births and must not be placed or registered
// until the sweep is over.
type Behavior interface {
	Act(env *Env, e ecs.Entity, births *[]ecs.Entity)
}

// Env bundles what behaviours read and mutate: the field, the population,
// the random source and the species parameters.
type Env struct {
	Field    *field.Field
	Pop      *Population
	Rng      *random.Source
	Recorder Recorder

	prey     PreyBehavior
	predator PredatorBehavior
	shuffle  bool
	scratch  []field.Location
}

// NewEnv wires an environment from the config.
func NewEnv(cfg *config.Config, f *field.Field, pop *Population, rng *random.Source) *Env {
	return &Env{
		Field:    f,
		Pop:      pop,
		Rng:      rng,
		Recorder: NopRecorder{},
		prey:     PreyBehavior{Species: cfg.Prey},
		predator: PredatorBehavior{Species: cfg.Predator},
		shuffle:  cfg.World.ShuffleNeighbors,
		scratch:  make([]field.Location, 0, 8),
	}
}

// Species returns the parameters of kind.
func (env *Env) Species(kind components.Kind) config.SpeciesConfig {
	switch kind {
	case components.KindPrey:
		return env.prey.Species
	case components.KindPredator:
		return env.predator.Species
	default:
		panic(fmt.Sprintf("systems: no species for kind %v", kind))
	}
}

// BehaviorFor returns the behaviour of kind.
func (env *Env) BehaviorFor(kind components.Kind) Behavior {
	switch kind {
	case components.KindPrey:
		return env.prey
	case components.KindPredator:
		return env.predator
	default:
		panic(fmt.Sprintf("systems: no behaviour for kind %v", kind))
	}
}

// Act runs one organism's behaviour if it is still alive.
func (env *Env) Act(e ecs.Entity, births *[]ecs.Entity) {
	life := env.Pop.Life(e)
	if !life.Alive {
		return
	}
	env.BehaviorFor(life.Kind).Act(env, e, births)
}

// Place puts e on the field at loc and records the location on e.
// An out-of-bounds location is a programming error.
func (env *Env) Place(e ecs.Entity, loc field.Location) {
	if err := env.Field.Place(e, loc); err != nil {
		panic(fmt.Sprintf("systems: %v", err))
	}
	pos := env.Pop.Position(e)
	pos.Loc = loc
	pos.Placed = true
}

// MoveTo relocates e: it vacates the old cell, occupies loc and updates
// the recorded location. All moves go through here so the field and the
// organism never disagree.
func (env *Env) MoveTo(e ecs.Entity, loc field.Location) {
	pos := env.Pop.Position(e)
	if pos.Placed {
		if occ, ok := env.Field.ObjectAt(pos.Loc); ok && occ == e {
			env.Field.Vacate(pos.Loc)
		}
	}
	env.Place(e, loc)
}

// Kill marks e dead and removes it from the field.
func (env *Env) Kill(e ecs.Entity, cause components.DeathCause) {
	life := env.Pop.Life(e)
	if !life.Alive {
		return
	}
	life.Alive = false
	life.Cause = cause

	pos := env.Pop.Position(e)
	if pos.Placed {
		if occ, ok := env.Field.ObjectAt(pos.Loc); ok && occ == e {
			env.Field.Vacate(pos.Loc)
		}
		pos.Placed = false
	}
	env.Recorder.RecordDeath(life.Kind, cause)
}

// neighbors returns the neighbourhood of loc in scan order. The result is
// only valid until the next call.
func (env *Env) neighbors(loc field.Location) []field.Location {
	env.scratch = env.Field.AdjacentLocationsInto(env.scratch[:0], loc)
	if env.shuffle {
		s := env.scratch
		env.Rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
	}
	return env.scratch
}

// freeNeighbors returns the free neighbours of loc in scan order.
func (env *Env) freeNeighbors(loc field.Location) []field.Location {
	var free []field.Location
	for _, n := range env.neighbors(loc) {
		if env.Field.IsFree(n) {
			free = append(free, n)
		}
	}
	return free
}

// age increments the organism's age and kills it past the species limit.
// Returns false if the organism died.
func (env *Env) age(e ecs.Entity, species config.SpeciesConfig) bool {
	life := env.Pop.Life(e)
	life.Age++
	if life.Age > species.MaxAge {
		env.Kill(e, components.CauseOldAge)
		return false
	}
	return true
}

// breed attempts one breeding event and buffers the litter.
func (env *Env) breed(e ecs.Entity, species config.SpeciesConfig, births *[]ecs.Entity) {
	life := env.Pop.Life(e)
	if life.Age < species.BreedingAge {
		return
	}
	if env.Rng.Float64() >= species.BreedingProbability {
		return
	}
	pos := env.Pop.Position(e)
	if !pos.Placed {
		return
	}
	free := env.freeNeighbors(pos.Loc)
	if len(free) == 0 {
		return
	}

	litter := 1 + env.Rng.Intn(species.MaxLitterSize)
	litter = min(litter, len(free))

	for _, loc := range free[:litter] {
		child := env.Pop.Spawn(life.Kind, 0, species.MaxFood, loc)
		env.Field.Reserve(loc)
		*births = append(*births, child)
		env.Recorder.RecordBirth(life.Kind)
	}
}

// wander moves e to its first free neighbour, if any.
func (env *Env) wander(e ecs.Entity) {
	pos := env.Pop.Position(e)
	if !pos.Placed {
		return
	}
	for _, n := range env.neighbors(pos.Loc) {
		if env.Field.IsFree(n) {
			env.MoveTo(e, n)
			return
		}
	}
}

// Newborn places a buffered newborn on its reserved cell and registers it.
func (env *Env) Newborn(e ecs.Entity) {
	env.Place(e, env.Pop.Position(e).Loc)
	env.Pop.Register(e)
}
