// Package systems contains the arena systems: toroidal math, ray sensing,
// collectible targets, and the rigid-body physics backing each vehicle.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/seekers/components"
)

// BodyID identifies a body owned by a physics collaborator.
type BodyID uint64

// BodyState is a read-only view of a body at the last step.
type BodyState struct {
	X, Y    float64
	Heading float64
	VX, VY  float64
	AngVel  float64
}

// Bounds represents the arena size. The arena is centred on the origin.
type Bounds struct {
	Width, Height float64
}

// BodyParams are the mass properties applied to spawned bodies.
type BodyParams struct {
	Mass           float64
	Inertia        float64
	LinearDamping  float64
	AngularDamping float64
}

// PhysicsSystem integrates vehicle bodies stored as ECS entities and wraps
// them across the arena edges.
type PhysicsSystem struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Rotation, components.Body]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Rotation, components.Body]

	bounds Bounds
	params BodyParams

	bodies map[BodyID]ecs.Entity
	nextID BodyID
}

// NewPhysicsSystem creates a physics system with its own ECS world.
func NewPhysicsSystem(bounds Bounds, params BodyParams) *PhysicsSystem {
	w := ecs.NewWorld()
	if params.Mass <= 0 {
		params.Mass = 1
	}
	if params.Inertia <= 0 {
		params.Inertia = 1
	}
	return &PhysicsSystem{
		world:  w,
		mapper: ecs.NewMap4[components.Position, components.Velocity, components.Rotation, components.Body](w),
		filter: ecs.NewFilter4[components.Position, components.Velocity, components.Rotation, components.Body](w),
		bounds: bounds,
		params: params,
		bodies: make(map[BodyID]ecs.Entity),
	}
}

// SetBounds changes the wrap extent for subsequent steps.
func (s *PhysicsSystem) SetBounds(b Bounds) {
	s.bounds = b
}

// Bounds returns the current wrap extent.
func (s *PhysicsSystem) Bounds() Bounds {
	return s.bounds
}

// Spawn creates a body at rest.
func (s *PhysicsSystem) Spawn(x, y, heading float64) BodyID {
	pos := components.Position{
		X: WrapCentered(x, s.bounds.Width),
		Y: WrapCentered(y, s.bounds.Height),
	}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: heading}
	body := components.Body{
		Mass:           s.params.Mass,
		Inertia:        s.params.Inertia,
		LinearDamping:  s.params.LinearDamping,
		AngularDamping: s.params.AngularDamping,
	}

	s.nextID++
	s.bodies[s.nextID] = s.mapper.NewEntity(&pos, &vel, &rot, &body)
	return s.nextID
}

// Release removes a body. Unknown ids are ignored.
func (s *PhysicsSystem) Release(id BodyID) {
	e, ok := s.bodies[id]
	if !ok {
		return
	}
	delete(s.bodies, id)
	if s.world.Alive(e) {
		s.world.RemoveEntity(e)
	}
}

// Count returns the number of live bodies.
func (s *PhysicsSystem) Count() int {
	return len(s.bodies)
}

// State returns the body's current state, or the zero state for unknown ids.
func (s *PhysicsSystem) State(id BodyID) BodyState {
	e, ok := s.bodies[id]
	if !ok {
		return BodyState{}
	}
	pos, vel, rot, _ := s.mapper.Get(e)
	return BodyState{
		X:       pos.X,
		Y:       pos.Y,
		Heading: rot.Heading,
		VX:      vel.X,
		VY:      vel.Y,
		AngVel:  rot.AngVel,
	}
}

// ApplyForwardImpulse pushes the body along its heading. Heading 0 faces -y
// and positive angles turn toward +x.
func (s *PhysicsSystem) ApplyForwardImpulse(id BodyID, magnitude float64) {
	e, ok := s.bodies[id]
	if !ok {
		return
	}
	_, vel, rot, body := s.mapper.Get(e)
	vel.X += math.Sin(rot.Heading) * magnitude / body.Mass
	vel.Y -= math.Cos(rot.Heading) * magnitude / body.Mass
}

// ApplyTorqueImpulse changes the body's angular velocity.
func (s *PhysicsSystem) ApplyTorqueImpulse(id BodyID, magnitude float64) {
	e, ok := s.bodies[id]
	if !ok {
		return
	}
	_, _, rot, body := s.mapper.Get(e)
	rot.AngVel += magnitude / body.Inertia
}

// Step advances every body by dt seconds.
// Damping follows v *= 1/(1 + dt*damping), then positions integrate and wrap.
func (s *PhysicsSystem) Step(dt float64) {
	if dt <= 0 {
		return
	}

	query := s.filter.Query()
	for query.Next() {
		pos, vel, rot, body := query.Get()

		lin := 1 / (1 + dt*body.LinearDamping)
		vel.X *= lin
		vel.Y *= lin
		rot.AngVel *= 1 / (1 + dt*body.AngularDamping)

		pos.X = WrapCentered(pos.X+vel.X*dt, s.bounds.Width)
		pos.Y = WrapCentered(pos.Y+vel.Y*dt, s.bounds.Height)
		rot.Heading = normalizeAngle(rot.Heading + rot.AngVel*dt)
	}
}
