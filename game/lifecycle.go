package game

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/seekers/config"
	"github.com/pthm-cable/seekers/neural"
	"github.com/pthm-cable/seekers/systems"
)

// MaxSelectionPool caps how many top-ranked agents may parent children.
const MaxSelectionPool = 10

// SelectionPoolSize returns min(ceil(populationSize*0.1), 10), never below 1.
func SelectionPoolSize(populationSize int) int {
	pool := int(math.Ceil(float64(populationSize) * 0.1))
	if pool > MaxSelectionPool {
		pool = MaxSelectionPool
	}
	if pool < 1 {
		pool = 1
	}
	return pool
}

// buildInitialGeneration seeds generation 1 from persistence when a genome
// with the configured topology is stored, otherwise from random genomes.
func (c *Controller) buildInitialGeneration() error {
	if c.persist != nil {
		brain, generation, ok := c.persist.Load(context.Background())
		if ok && sameInts(brain.Topology(), c.snap.Derived.Topology) {
			brains, err := c.seededBrains(brain)
			if err != nil {
				return err
			}
			if generation < 1 {
				generation = 1
			}
			c.logger.Info("population_seeded", "generation", generation, "topology", brain.Topology())
			c.startGeneration(brains, generation)
			return nil
		}
		if ok {
			c.logger.Warn("checkpoint_topology_mismatch",
				"stored", brain.Topology(), "configured", c.snap.Derived.Topology)
		}
	}

	brains, err := c.freshBrains()
	if err != nil {
		return err
	}
	c.startGeneration(brains, 1)
	return nil
}

// Restart discards the population and starts over from fresh genomes at generation 1.
// Pending config edits are applied first.
func (c *Controller) Restart() error {
	c.refreshSnapshot()
	brains, err := c.freshBrains()
	if err != nil {
		return err
	}
	c.startGeneration(brains, 1)
	return nil
}

// NextGeneration ends the running generation: rank by fitness, keep the
// elites unchanged, fill the rest with mutated crossovers of the top pool,
// respawn everything, and persist the best genome.
func (c *Controller) NextGeneration() {
	ranked := c.ranked()
	c.recordGeneration(ranked)

	c.refreshSnapshot()

	brains, err := c.evolve(ranked)
	if err != nil {
		// Only reachable when the topology changed between generations.
		c.logger.Warn("population_reset", "generation", c.generation, "reason", err.Error())
		brains, err = c.freshBrains()
		if err != nil {
			c.logger.Error("population_build_failed", "error", err)
			return
		}
	}

	c.startGeneration(brains, c.generation+1)

	if c.persist != nil && len(ranked) > 0 {
		if err := c.persist.Save(context.Background(), ranked[0].Brain, c.generation); err != nil {
			c.logger.Warn("checkpoint_save_failed", "generation", c.generation, "error", err)
		} else {
			c.logger.Info("checkpoint_saved", "generation", c.generation, "fitness", ranked[0].Fitness)
		}
	}
}

// ranked returns the agents sorted by fitness, highest first, keeping list order on ties.
func (c *Controller) ranked() []*Agent {
	ranked := make([]*Agent, len(c.agents))
	copy(ranked, c.agents)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness > ranked[j].Fitness
	})
	return ranked
}

// evolve builds the next generation's genomes from a ranked population.
func (c *Controller) evolve(ranked []*Agent) ([]*neural.Network, error) {
	size := c.snap.Population.Size
	if len(ranked) == 0 {
		return nil, fmt.Errorf("empty population")
	}
	if !sameInts(ranked[0].Brain.Topology(), c.snap.Derived.Topology) {
		return nil, fmt.Errorf("topology changed from %v to %v", ranked[0].Brain.Topology(), c.snap.Derived.Topology)
	}

	brains := make([]*neural.Network, 0, size)

	// Elites carry over unchanged
	elites := min(c.snap.Population.EliteCount, len(ranked), size)
	for i := 0; i < elites; i++ {
		brains = append(brains, ranked[i].Brain.Clone())
	}

	pool := min(SelectionPoolSize(size), len(ranked))
	for len(brains) < size {
		a := ranked[c.rng.Intn(pool)].Brain
		b := ranked[c.rng.Intn(pool)].Brain

		child, err := neural.Crossover(c.rng, a, b)
		if err != nil {
			return nil, err
		}
		if err := child.Mutate(c.rng, c.snap.Mutation.Rate); err != nil {
			return nil, err
		}
		brains = append(brains, child)
	}
	return brains, nil
}

// freshBrains returns random genomes for the configured topology, optionally
// pre-wired with the direct-response seed.
func (c *Controller) freshBrains() ([]*neural.Network, error) {
	brains := make([]*neural.Network, c.snap.Population.Size)
	for i := range brains {
		nn, err := neural.NewRandomNetwork(c.snap.Derived.Topology, c.rng)
		if err != nil {
			return nil, err
		}
		if c.snap.Neural.SeedDirectResponse {
			nn.WireDirectResponse()
		}
		brains[i] = nn
	}
	return brains, nil
}

// seededBrains returns one exact copy of seed followed by mutated copies.
func (c *Controller) seededBrains(seed *neural.Network) ([]*neural.Network, error) {
	brains := make([]*neural.Network, c.snap.Population.Size)
	brains[0] = seed.Clone()
	for i := 1; i < len(brains); i++ {
		child := seed.Clone()
		if err := child.Mutate(c.rng, c.snap.Mutation.Rate); err != nil {
			return nil, err
		}
		brains[i] = child
	}
	return brains, nil
}

// refreshSnapshot takes a new config snapshot. An invalid live config is
// logged and the previous snapshot stays in force.
func (c *Controller) refreshSnapshot() {
	if err := c.live.Validate(); err != nil {
		c.logger.Warn("config_rejected", "generation", c.generation, "error", err)
		return
	}
	c.snap = c.live.Clone()
}

// startGeneration releases every body, spawns one agent per genome, resets
// the targets, and restarts the generation clock.
func (c *Controller) startGeneration(brains []*neural.Network, generation int) {
	for _, a := range c.agents {
		c.physics.Release(a.Body)
	}

	cfg := c.snap
	if bs, ok := c.physics.(boundsSetter); ok {
		bs.SetBounds(systems.Bounds{Width: cfg.World.Width, Height: cfg.World.Height})
	}
	c.targets.Resize(cfg.World.Width, cfg.World.Height, cfg.Targets.Count)

	spawnW := math.Max(cfg.World.Width-cfg.Physics.SpawnMargin, 0)
	spawnH := math.Max(cfg.World.Height-cfg.Physics.SpawnMargin, 0)

	c.agents = make([]*Agent, len(brains))
	for i, brain := range brains {
		x := (c.rng.Float64() - 0.5) * spawnW
		y := (c.rng.Float64() - 0.5) * spawnH
		c.nextAgentID++
		c.agents[i] = &Agent{
			ID:    c.nextAgentID,
			Body:  c.physics.Spawn(x, y, 0),
			Brain: brain,
			LastX: x,
			LastY: y,
		}
	}

	c.generation = generation
	c.genStart = c.clock.Now()
	c.ticks = 0
	c.consumed = 0
}

// sameInts reports whether two int slices are equal.
func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// compile-time check that the bundled physics satisfies the collaborator contract
var _ Physics = (*systems.PhysicsSystem)(nil)

// NewPhysics builds the bundled physics collaborator from config.
func NewPhysics(cfg *config.Config) *systems.PhysicsSystem {
	return systems.NewPhysicsSystem(
		systems.Bounds{Width: cfg.World.Width, Height: cfg.World.Height},
		systems.BodyParams{
			Mass:           cfg.Physics.Mass,
			Inertia:        cfg.Physics.Inertia,
			LinearDamping:  cfg.Physics.LinearDamping,
			AngularDamping: cfg.Physics.AngularDamping,
		},
	)
}
