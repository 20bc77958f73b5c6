// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Targets    TargetsConfig    `yaml:"targets"`
	Control    ControlConfig    `yaml:"control"`
	Neural     NeuralConfig     `yaml:"neural"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Storage    StorageConfig    `yaml:"storage"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds arena dimensions. The arena is centred on the origin and wraps at its edges.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PopulationConfig holds generation parameters.
type PopulationConfig struct {
	Size              int     `yaml:"size"`
	EliteCount        int     `yaml:"elite_count"`
	GenerationSeconds float64 `yaml:"generation_seconds"`
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate float64 `yaml:"rate"` // Uniform perturbation bound applied to every child parameter
}

// SensorsConfig holds ray sensor parameters.
type SensorsConfig struct {
	RayCount      int     `yaml:"ray_count"`
	ConeAngle     float64 `yaml:"cone_angle"`     // Total cone width in radians
	Range         float64 `yaml:"range"`          // Max ray length
	VelocityScale float64 `yaml:"velocity_scale"` // tanh(v / scale)
	AngularScale  float64 `yaml:"angular_scale"`  // tanh(w / scale)
}

// TargetsConfig holds target field parameters.
type TargetsConfig struct {
	Count            int     `yaml:"count"`
	CollectionRadius float64 `yaml:"collection_radius"`
	Reward           float64 `yaml:"reward"` // Fitness per consumed target
}

// ControlConfig maps network outputs to physics commands.
type ControlConfig struct {
	ThrustPower      float64 `yaml:"thrust_power"`
	SteeringStrength float64 `yaml:"steering_strength"`
	ThrottleDeadzone float64 `yaml:"throttle_deadzone"` // Throttle at or below this = no impulse
}

// NeuralConfig holds network topology parameters.
type NeuralConfig struct {
	HiddenLayers       []int `yaml:"hidden_layers"` // Sizes of hidden layers, e.g. [12, 8]
	SeedDirectResponse bool  `yaml:"seed_direct_response"`
}

// PhysicsConfig holds parameters for the bundled rigid-body stepper.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	Mass           float64 `yaml:"mass"`
	Inertia        float64 `yaml:"inertia"`
	SpawnMargin    float64 `yaml:"spawn_margin"` // Spawn area is the arena shrunk by this much
}

// StorageConfig selects the checkpoint backend.
type StorageConfig struct {
	Kind string `yaml:"kind"` // memory, file, sqlite
	Path string `yaml:"path"`
	Key  string `yaml:"key"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumInputs          int           // Sensors.RayCount + 3
	Topology           []int         // [NumInputs, hidden..., NumOutputs]
	GenerationDuration time.Duration // Population.GenerationSeconds as a duration
}

// NumOutputs is the network output count: steering, throttle.
const NumOutputs = 2

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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	cfg.ComputeDerived()

	return cfg, nil
}

// ComputeDerived recalculates values derived from the loaded config.
// Call it after editing fields in place.
func (c *Config) ComputeDerived() {
	c.Derived.NumInputs = c.Sensors.RayCount + 3 // rays + vx, vy, angular velocity

	topology := make([]int, 0, len(c.Neural.HiddenLayers)+2)
	topology = append(topology, c.Derived.NumInputs)
	topology = append(topology, c.Neural.HiddenLayers...)
	topology = append(topology, NumOutputs)
	c.Derived.Topology = topology

	c.Derived.GenerationDuration = time.Duration(c.Population.GenerationSeconds * float64(time.Second))
}

// Clone returns a deep copy, so a running generation can hold a snapshot
// that later edits to the original cannot reach.
func (c *Config) Clone() *Config {
	out := *c
	out.Neural.HiddenLayers = append([]int(nil), c.Neural.HiddenLayers...)
	out.ComputeDerived()
	return &out
}

// Validate reports every configuration value that cannot produce a working generation.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.Population.Size < 1 {
		errs = append(errs, fmt.Errorf("population.size must be at least 1, got %d", c.Population.Size))
	}
	if c.Population.EliteCount < 1 || c.Population.EliteCount > c.Population.Size {
		errs = append(errs, fmt.Errorf("population.elite_count must be in [1, %d], got %d",
			c.Population.Size, c.Population.EliteCount))
	}
	if c.Population.GenerationSeconds <= 0 {
		errs = append(errs, fmt.Errorf("population.generation_seconds must be positive, got %g", c.Population.GenerationSeconds))
	}
	if c.Mutation.Rate < 0 {
		errs = append(errs, fmt.Errorf("mutation.rate must not be negative, got %g", c.Mutation.Rate))
	}
	if c.Sensors.RayCount < 0 {
		errs = append(errs, fmt.Errorf("sensors.ray_count must not be negative, got %d", c.Sensors.RayCount))
	}
	if c.Sensors.Range <= 0 {
		errs = append(errs, fmt.Errorf("sensors.range must be positive, got %g", c.Sensors.Range))
	}
	if c.Sensors.VelocityScale <= 0 || c.Sensors.AngularScale <= 0 {
		errs = append(errs, errors.New("sensors velocity_scale and angular_scale must be positive"))
	}
	if c.Targets.Count < 0 {
		errs = append(errs, fmt.Errorf("targets.count must not be negative, got %d", c.Targets.Count))
	}
	if c.Targets.CollectionRadius < 0 {
		errs = append(errs, fmt.Errorf("targets.collection_radius must not be negative, got %g", c.Targets.CollectionRadius))
	}
	for i, n := range c.Neural.HiddenLayers {
		if n < 1 {
			errs = append(errs, fmt.Errorf("neural.hidden_layers[%d] must be at least 1, got %d", i, n))
		}
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %g", c.Physics.DT))
	}
	if c.Physics.Mass <= 0 || c.Physics.Inertia <= 0 {
		errs = append(errs, errors.New("physics mass and inertia must be positive"))
	}
	return errors.Join(errs...)
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
