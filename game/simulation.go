package game

import "github.com/pthm-cable/seekers/telemetry"

// Tick advances the simulation by one step and reports whether the step was
// a rollover. The generation clock is checked before any agent acts, so a
// rollover tick only builds the next generation.
func (c *Controller) Tick() (rolledOver bool) {
	if c.perf != nil {
		c.perf.StartTick()
		defer c.perf.EndTick()
	}

	if c.Elapsed() > c.snap.Derived.GenerationDuration {
		c.startPhase(telemetry.PhaseRollover)
		c.NextGeneration()
		return true
	}

	for _, a := range c.agents {
		if err := c.stepAgent(a); err != nil {
			c.logger.Error("agent_step_failed", "agent", a.ID, "generation", c.generation, "error", err)
		}
	}

	c.startPhase(telemetry.PhasePhysics)
	c.physics.Step(c.snap.Physics.DT)
	c.ticks++
	return false
}
