package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func newTestPhysics() *PhysicsSystem {
	return NewPhysicsSystem(Bounds{Width: testWorld, Height: testWorld}, BodyParams{
		Mass:           1,
		Inertia:        1,
		LinearDamping:  1.5,
		AngularDamping: 2.5,
	})
}

func TestPhysicsSpawnAtRest(t *testing.T) {
	p := newTestPhysics()
	id := p.Spawn(3, -4, 0.5)

	st := p.State(id)
	if st.X != 3 || st.Y != -4 || st.Heading != 0.5 {
		t.Errorf("unexpected spawn state %+v", st)
	}
	if st.VX != 0 || st.VY != 0 || st.AngVel != 0 {
		t.Errorf("body should spawn at rest, got %+v", st)
	}
	if p.Count() != 1 {
		t.Errorf("Count = %d, want 1", p.Count())
	}
}

func TestPhysicsForwardImpulse(t *testing.T) {
	tests := []struct {
		name    string
		heading float64
		vx, vy  float64
	}{
		{"heading 0 moves -y", 0, 0, -2},
		{"heading pi/2 moves +x", math.Pi / 2, 2, 0},
		{"heading pi moves +y", math.Pi, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPhysics()
			id := p.Spawn(0, 0, tt.heading)

			p.ApplyForwardImpulse(id, 2)
			st := p.State(id)
			if !approxEqual(st.VX, tt.vx) || !approxEqual(st.VY, tt.vy) {
				t.Errorf("velocity = (%v, %v), want (%v, %v)", st.VX, st.VY, tt.vx, tt.vy)
			}
		})
	}
}

func TestPhysicsDampedIntegration(t *testing.T) {
	p := newTestPhysics()
	id := p.Spawn(0, 0, 0)

	p.ApplyForwardImpulse(id, 2)
	p.Step(0.1)

	st := p.State(id)
	wantV := -2 / (1 + 0.1*1.5)
	if !approxEqual(st.VY, wantV) {
		t.Errorf("damped velocity = %v, want %v", st.VY, wantV)
	}
	if !approxEqual(st.Y, wantV*0.1) {
		t.Errorf("position = %v, want %v", st.Y, wantV*0.1)
	}
}

func TestPhysicsTorqueImpulse(t *testing.T) {
	p := newTestPhysics()
	id := p.Spawn(0, 0, 0)

	p.ApplyTorqueImpulse(id, 0.5)
	p.Step(0.1)

	st := p.State(id)
	wantW := 0.5 / (1 + 0.1*2.5)
	if !approxEqual(st.AngVel, wantW) || !approxEqual(st.Heading, wantW*0.1) {
		t.Errorf("got angvel %v heading %v, want %v and %v", st.AngVel, st.Heading, wantW, wantW*0.1)
	}
}

func TestPhysicsWrapsPositions(t *testing.T) {
	p := newTestPhysics()
	id := p.Spawn(testWorld/2-0.05, 0, math.Pi/2)

	p.ApplyForwardImpulse(id, 10)
	p.Step(0.1)

	st := p.State(id)
	if st.X > 0 || st.X < -testWorld/2 {
		t.Errorf("body should wrap to the left edge, got x=%v", st.X)
	}
}

func TestPhysicsRelease(t *testing.T) {
	p := newTestPhysics()
	a := p.Spawn(1, 1, 0)
	b := p.Spawn(2, 2, 0)

	p.Release(a)
	p.Release(a) // unknown ids are ignored
	p.ApplyForwardImpulse(a, 1)

	if p.Count() != 1 {
		t.Fatalf("Count = %d, want 1", p.Count())
	}
	if st := p.State(a); st != (BodyState{}) {
		t.Errorf("released body should report zero state, got %+v", st)
	}
	if st := p.State(b); st.X != 2 {
		t.Errorf("remaining body disturbed: %+v", st)
	}

	p.Step(1.0 / 60)
}

func TestPhysicsReleaseRemovesEntities(t *testing.T) {
	p := newTestPhysics()

	for cycle := 0; cycle < 100; cycle++ {
		ids := make([]BodyID, 50)
		for i := range ids {
			ids[i] = p.Spawn(float64(i), 0, 0)
		}
		released := make([]ecs.Entity, 0, len(ids))
		for _, id := range ids {
			released = append(released, p.bodies[id])
			p.Release(id)
		}
		for _, e := range released {
			if p.world.Alive(e) {
				t.Fatalf("cycle %d: entity %v still alive after release", cycle, e)
			}
		}
	}

	if p.Count() != 0 {
		t.Errorf("Count = %d, want 0", p.Count())
	}
	query := p.filter.Query()
	if n := query.Count(); n != 0 {
		t.Errorf("filter matched %d bodies after release, want 0", n)
	}
	query.Close()
}
