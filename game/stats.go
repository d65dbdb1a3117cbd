package game

import (
	"fmt"
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/components"
	"github.com/pthm-cable/foxes/config"
	"github.com/pthm-cable/foxes/field"
	"github.com/pthm-cable/foxes/systems"
)

// FieldStats counts the organisms on a field. Counts are cached until
// Invalidate is called.
type FieldStats struct {
	names  [len(components.Kinds)]string
	counts map[components.Kind]int
	valid  bool
}

// NewFieldStats creates stats using the species names from cfg.
func NewFieldStats(cfg *config.Config) *FieldStats {
	fs := &FieldStats{counts: make(map[components.Kind]int, len(components.Kinds))}
	for i, kind := range components.Kinds {
		switch kind {
		case components.KindPrey:
			fs.names[i] = cfg.Prey.Name
		case components.KindPredator:
			fs.names[i] = cfg.Predator.Name
		}
	}
	return fs
}

// Invalidate drops the cached counts.
func (fs *FieldStats) Invalidate() {
	fs.valid = false
}

func (fs *FieldStats) generate(f *field.Field, pop *systems.Population) {
	if fs.valid {
		return
	}
	clear(fs.counts)
	for _, kind := range components.Kinds {
		fs.counts[kind] = 0
	}
	f.Each(func(_ field.Location, e ecs.Entity) {
		fs.counts[pop.Kind(e)]++
	})
	fs.valid = true
}

// Count returns the number of organisms of kind on the field.
func (fs *FieldStats) Count(f *field.Field, pop *systems.Population, kind components.Kind) int {
	fs.generate(f, pop)
	return fs.counts[kind]
}

// Counts returns a copy of the per-kind counts.
func (fs *FieldStats) Counts(f *field.Field, pop *systems.Population) map[components.Kind]int {
	fs.generate(f, pop)
	out := make(map[components.Kind]int, len(fs.counts))
	for k, v := range fs.counts {
		out[k] = v
	}
	return out
}

// PopulationDetails renders "<Name>: <count> " for each species, prey first.
func (fs *FieldStats) PopulationDetails(f *field.Field, pop *systems.Population) string {
	fs.generate(f, pop)
	var b strings.Builder
	for i, kind := range components.Kinds {
		fmt.Fprintf(&b, "%s: %d ", fs.names[i], fs.counts[kind])
	}
	return b.String()
}

// IsViable reports whether every species is still present.
func (fs *FieldStats) IsViable(f *field.Field, pop *systems.Population) bool {
	fs.generate(f, pop)
	for _, kind := range components.Kinds {
		if fs.counts[kind] == 0 {
			return false
		}
	}
	return true
}
