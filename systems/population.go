// Package systems provides the organism store and per-step behaviour.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/field"
)

// Population owns every organism of one simulation. Organisms live in an
// ECS world and are referred to by entity handle; the live list keeps
// them in insertion order for the per-step sweep.
type Population struct {
	world *ecs.World

	preyMapper *ecs.Map2[components.Position, components.Life]
	predMapper *ecs.Map3[components.Position, components.Life, components.Hunger]

	posMap    *ecs.Map[components.Position]
	lifeMap   *ecs.Map[components.Life]
	hungerMap *ecs.Map[components.Hunger]

	live []ecs.Entity
}

// DeadInfo describes an organism removed by Purge.
type DeadInfo struct {
	Entity ecs.Entity
	Kind   components.Kind
	Cause  components.DeathCause
}

// NewPopulation creates an empty population.
func NewPopulation() *Population {
	p := &Population{}
	p.Reset()
	return p
}

// Reset drops every organism and starts over with a fresh world.
// Handles issued before the reset are no longer valid.
func (p *Population) Reset() {
	world := ecs.NewWorld()
	p.world = world
	p.preyMapper = ecs.NewMap2[components.Position, components.Life](world)
	p.predMapper = ecs.NewMap3[components.Position, components.Life, components.Hunger](world)
	p.posMap = ecs.NewMap[components.Position](world)
	p.lifeMap = ecs.NewMap[components.Life](world)
	p.hungerMap = ecs.NewMap[components.Hunger](world)
	p.live = p.live[:0]
}

// Spawn creates an organism that is neither placed nor registered yet.
// food is ignored for prey.
func (p *Population) Spawn(kind components.Kind, age, food int, loc field.Location) ecs.Entity {
	pos := components.Position{Loc: loc}
	life := components.Life{Kind: kind, Age: age, Alive: true}

	switch kind {
	case components.KindPrey:
		return p.preyMapper.NewEntity(&pos, &life)
	case components.KindPredator:
		hunger := components.Hunger{Food: food}
		return p.predMapper.NewEntity(&pos, &life, &hunger)
	default:
		panic("systems: spawn of unknown kind " + kind.String())
	}
}

// Register appends e to the live list.
func (p *Population) Register(e ecs.Entity) {
	p.live = append(p.live, e)
}

// Live returns the registered organisms in insertion order.
// The slice is owned by the population and must not be modified.
func (p *Population) Live() []ecs.Entity {
	return p.live
}

// Len returns the number of registered organisms.
func (p *Population) Len() int {
	return len(p.live)
}

// Exists reports whether e is a valid handle in the current world.
func (p *Population) Exists(e ecs.Entity) bool {
	return !e.IsZero() && p.world.Alive(e)
}

// Life returns the life component of e.
func (p *Population) Life(e ecs.Entity) *components.Life {
	return p.lifeMap.Get(e)
}

// Position returns the position component of e.
func (p *Population) Position(e ecs.Entity) *components.Position {
	return p.posMap.Get(e)
}

// Hunger returns the hunger component of e, or nil for prey.
func (p *Population) Hunger(e ecs.Entity) *components.Hunger {
	if !p.hungerMap.Has(e) {
		return nil
	}
	return p.hungerMap.Get(e)
}

// Kind returns the species of e.
func (p *Population) Kind(e ecs.Entity) components.Kind {
	return p.lifeMap.Get(e).Kind
}

// Purge drops dead organisms from the live list and the world.
// Survivors keep their relative order.
func (p *Population) Purge() []DeadInfo {
	var dead []DeadInfo
	kept := p.live[:0]
	for _, e := range p.live {
		life := p.lifeMap.Get(e)
		if life.Alive {
			kept = append(kept, e)
			continue
		}
		dead = append(dead, DeadInfo{Entity: e, Kind: life.Kind, Cause: life.Cause})
	}
	clear(p.live[len(kept):])
	p.live = kept

	// Remove after the scan so component pointers stay valid above.
	for _, d := range dead {
		p.world.RemoveEntity(d.Entity)
	}
	return dead
}
