// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Default field dimensions used when the configured ones are not positive.
const (
	DefaultDepth = 80
	DefaultWidth = 120
)

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	RNG        RNGConfig        `yaml:"rng"`
	Population PopulationConfig `yaml:"population"`
	Prey       SpeciesConfig    `yaml:"prey"`
	Predator   SpeciesConfig    `yaml:"predator"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Run        RunConfig        `yaml:"run"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the field dimensions.
type WorldConfig struct {
	Depth            int  `yaml:"depth"`             // rows
	Width            int  `yaml:"width"`             // columns
	ShuffleNeighbors bool `yaml:"shuffle_neighbors"` // randomise neighbour scan order per lookup
}

// RNGConfig holds the seed the random source is reset to.
type RNGConfig struct {
	Seed int64 `yaml:"seed"`
}

// PopulationConfig holds the seeding policy used on reset.
type PopulationConfig struct {
	PredatorCreationProbability float64 `yaml:"predator_creation_probability"`
	PreyCreationProbability     float64 `yaml:"prey_creation_probability"`
	RandomAge                   bool    `yaml:"random_age"` // seeded organisms start with a random age
}

// SpeciesConfig holds the life-history parameters of one species.
// MaxFood and StarvationThreshold only apply to predators.
type SpeciesConfig struct {
	Name                string  `yaml:"name"`
	MaxAge              int     `yaml:"max_age"`
	BreedingAge         int     `yaml:"breeding_age"`
	BreedingProbability float64 `yaml:"breeding_probability"`
	MaxLitterSize       int     `yaml:"max_litter_size"`
	MaxFood             int     `yaml:"max_food,omitempty"`             // food level restored by one prey
	StarvationThreshold int     `yaml:"starvation_threshold,omitempty"` // dies when food drops to this
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // steps per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// RunConfig holds runner defaults.
type RunConfig struct {
	MaxSteps     int `yaml:"max_steps"`      // 0 = until non-viable
	LongRunSteps int `yaml:"long_run_steps"` // steps for RunLongSimulation
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells int // Depth * Width
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a copy of the configuration. Config holds only values, so
// the copy shares nothing with c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.World.Depth <= 0 || c.World.Width <= 0 {
		slog.Warn("invalid world dimensions, using defaults",
			"depth", c.World.Depth,
			"width", c.World.Width,
			"default_depth", DefaultDepth,
			"default_width", DefaultWidth,
		)
		c.World.Depth = DefaultDepth
		c.World.Width = DefaultWidth
	}
	c.Derived.Cells = c.World.Depth * c.World.Width

	if c.Prey.Name == "" {
		c.Prey.Name = "Rabbit"
	}
	if c.Predator.Name == "" {
		c.Predator.Name = "Fox"
	}
	if c.Prey.MaxLitterSize < 1 {
		c.Prey.MaxLitterSize = 1
	}
	if c.Predator.MaxLitterSize < 1 {
		c.Predator.MaxLitterSize = 1
	}
	if c.Predator.MaxFood < 1 {
		c.Predator.MaxFood = 1
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Run.LongRunSteps <= 0 {
		c.Run.LongRunSteps = 4000
	}
}

// Recompute re-applies defaults and derived values after fields were edited in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
