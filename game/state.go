package game

import (
	"time"

	"github.com/pthm-cable/seekers/systems"
)

// State is a read-only view of the simulation for display.
type State struct {
	Generation  int
	Elapsed     time.Duration
	Remaining   time.Duration
	Ticks       int
	WorldWidth  float64
	WorldHeight float64

	BestIndex   int // -1 for an empty population
	BestFitness float64

	Agents  []AgentView
	Targets []systems.Target
}

// AgentView is one agent's display state.
type AgentView struct {
	ID       int
	X, Y     float64
	Heading  float64
	Fitness  float64
	Steering float64
	Throttle float64

	// Left and right thruster strengths for drawing exhaust
	LeftThrust  float64
	RightThrust float64

	Rays systems.SensorReading
}

// Snapshot copies the current state. The result shares nothing mutable with the controller.
func (c *Controller) Snapshot() State {
	elapsed := c.Elapsed()
	remaining := c.snap.Derived.GenerationDuration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	s := State{
		Generation:  c.generation,
		Elapsed:     elapsed,
		Remaining:   remaining,
		Ticks:       c.ticks,
		WorldWidth:  c.snap.World.Width,
		WorldHeight: c.snap.World.Height,
		BestIndex:   -1,
		Agents:      make([]AgentView, len(c.agents)),
		Targets:     append([]systems.Target(nil), c.targets.Targets()...),
	}

	for i, a := range c.agents {
		st := c.physics.State(a.Body)
		left, right := a.Controls.ThrusterMix()
		s.Agents[i] = AgentView{
			ID:          a.ID,
			X:           st.X,
			Y:           st.Y,
			Heading:     st.Heading,
			Fitness:     a.Fitness,
			Steering:    a.Controls.Steering,
			Throttle:    a.Controls.Throttle,
			LeftThrust:  left,
			RightThrust: right,
			Rays:        copyReading(a.Sensors),
		}
		if s.BestIndex < 0 || a.Fitness > s.BestFitness {
			s.BestIndex = i
			s.BestFitness = a.Fitness
		}
	}
	return s
}

// copyReading detaches a reading from the live target slice.
func copyReading(r systems.SensorReading) systems.SensorReading {
	out := make(systems.SensorReading, len(r))
	copy(out, r)
	for i := range out {
		if out[i].Hit != nil {
			t := *out[i].Hit
			out[i].Hit = &t
		}
	}
	return out
}
