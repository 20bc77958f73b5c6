// Package game runs the generational loop: vehicles sense targets, act through
// the physics collaborator, score fitness, and are replaced by an evolved
// population when the generation ends.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/seekers/config"
	"github.com/pthm-cable/seekers/systems"
	"github.com/pthm-cable/seekers/telemetry"
)

// Controller owns the population, the target field, and the generation state.
// It is not safe for concurrent use; a single driver calls Tick.
type Controller struct {
	live *config.Config // edited by the caller, read at rollover
	snap *config.Config // frozen copy used by the running generation

	physics  Physics
	targets  *systems.TargetField
	rng      *rand.Rand
	clock    Clock
	persist  Persistence
	recorder GenerationRecorder
	perf     *telemetry.PerfCollector
	logger   *slog.Logger

	agents      []*Agent
	nextAgentID int

	generation int
	genStart   time.Time
	ticks      int // ticks processed in the current generation
	consumed   int // targets consumed in the current generation
}

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Rand        *rand.Rand         // Spawning, targets and evolution; nil = time-seeded
	Clock       Clock              // Generation length; nil = wall clock
	Persistence Persistence        // Seeding and saving; nil = disabled
	Recorder    GenerationRecorder // Per-generation summaries; nil = disabled
	Perf        *telemetry.PerfCollector
	Logger      *slog.Logger // nil = slog.Default()
}

// NewController validates cfg, snapshots it, and builds the first generation.
// The first generation is seeded from persistence when a compatible genome is stored.
// cfg stays owned by the caller; edits to it take effect at the next rollover.
func NewController(cfg *config.Config, physics Physics, opts Options) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("game: nil config")
	}
	if physics == nil {
		return nil, errors.New("game: nil physics")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: invalid config: %w", err)
	}

	c := &Controller{
		live:     cfg,
		snap:     cfg.Clone(),
		physics:  physics,
		rng:      opts.Rand,
		clock:    opts.Clock,
		persist:  opts.Persistence,
		recorder: opts.Recorder,
		perf:     opts.Perf,
		logger:   opts.Logger,
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.targets = systems.NewTargetField(c.snap.World.Width, c.snap.World.Height, c.snap.Targets.Count, c.rng)
	if err := c.buildInitialGeneration(); err != nil {
		return nil, err
	}
	return c, nil
}

// Generation returns the current generation number, starting at 1.
func (c *Controller) Generation() int {
	return c.generation
}

// Agents returns the current population in processing order.
func (c *Controller) Agents() []*Agent {
	return c.agents
}

// Targets returns the live target field.
func (c *Controller) Targets() *systems.TargetField {
	return c.targets
}

// Config returns the snapshot the running generation uses.
func (c *Controller) Config() *config.Config {
	return c.snap
}

// Best returns the fittest agent, the earliest one on ties, or nil for an empty population.
func (c *Controller) Best() *Agent {
	var best *Agent
	for _, a := range c.agents {
		if best == nil || a.Fitness > best.Fitness {
			best = a
		}
	}
	return best
}

// Elapsed returns the time since the current generation started.
func (c *Controller) Elapsed() time.Duration {
	return c.clock.Now().Sub(c.genStart)
}

func (c *Controller) raySpec() systems.RaySpec {
	return systems.RaySpec{
		Count:     c.snap.Sensors.RayCount,
		ConeAngle: c.snap.Sensors.ConeAngle,
		MaxRange:  c.snap.Sensors.Range,
	}
}

func (c *Controller) startPhase(name string) {
	if c.perf != nil {
		c.perf.StartPhase(name)
	}
}
