package game

import (
	"github.com/pthm-cable/seekers/neural"
	"github.com/pthm-cable/seekers/systems"
	"github.com/pthm-cable/seekers/telemetry"
)

// Agent is one vehicle: a physics body driven by a network.
// Physics state lives in the collaborator; LastX, LastY and Sensors are
// cached from the latest tick for display only.
type Agent struct {
	ID       int
	Body     systems.BodyID
	Brain    *neural.Network
	Fitness  float64
	Consumed int

	LastX, LastY float64
	Sensors      systems.SensorReading
	Controls     neural.Controls
}

// stepAgent runs one agent for one tick: sense, infer, act, then collect
// any targets within reach of the position read at the start of the tick.
func (c *Controller) stepAgent(a *Agent) error {
	cfg := c.snap

	c.startPhase(telemetry.PhaseSense)
	st := c.physics.State(a.Body)
	a.LastX, a.LastY = st.X, st.Y

	a.Sensors = systems.Cast(st.X, st.Y, st.Heading, c.targets.Targets(),
		cfg.World.Width, cfg.World.Height, c.raySpec())
	sensory := neural.SensoryInputs{
		RayDistances: a.Sensors.Distances(),
		SensorRange:  cfg.Sensors.Range,
		VelX:         st.VX,
		VelY:         st.VY,
		AngVel:       st.AngVel,
	}
	inputs := sensory.ToInputs(cfg.Sensors.VelocityScale, cfg.Sensors.AngularScale)

	c.startPhase(telemetry.PhaseInfer)
	outputs, err := a.Brain.Infer(inputs)
	if err != nil {
		return err
	}

	c.startPhase(telemetry.PhaseAct)
	a.Controls = neural.DecodeControls(outputs)
	if a.Controls.Throttle > cfg.Control.ThrottleDeadzone {
		c.physics.ApplyForwardImpulse(a.Body, a.Controls.Throttle*cfg.Control.ThrustPower)
	}
	c.physics.ApplyTorqueImpulse(a.Body, a.Controls.Steering*cfg.Control.SteeringStrength)

	c.startPhase(telemetry.PhaseConsume)
	if n := c.targets.ConsumeNear(st.X, st.Y, cfg.Targets.CollectionRadius); n > 0 {
		a.Consumed += n
		a.Fitness += float64(n) * cfg.Targets.Reward
		c.consumed += n
	}
	return nil
}
