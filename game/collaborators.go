package game

import (
	"context"
	"time"

	"github.com/pthm-cable/seekers/neural"
	"github.com/pthm-cable/seekers/systems"
	"github.com/pthm-cable/seekers/telemetry"
)

// Physics is the rigid-body collaborator. It owns integration and wraps
// positions into [-extent/2, extent/2); the controller only reads state and
// issues impulses.
type Physics interface {
	Spawn(x, y, heading float64) systems.BodyID
	Release(id systems.BodyID)
	State(id systems.BodyID) systems.BodyState
	ApplyForwardImpulse(id systems.BodyID, magnitude float64)
	ApplyTorqueImpulse(id systems.BodyID, magnitude float64)
	Step(dt float64)
}

// boundsSetter is implemented by physics collaborators whose wrap extent can
// follow arena resizes.
type boundsSetter interface {
	SetBounds(b systems.Bounds)
}

// Persistence stores the best genome between runs. Load reports absent for
// missing or unusable records.
type Persistence interface {
	Save(ctx context.Context, brain *neural.Network, generation int) error
	Load(ctx context.Context) (brain *neural.Network, generation int, ok bool)
}

// GenerationRecorder receives a summary of every finished generation.
type GenerationRecorder interface {
	RecordGeneration(stats telemetry.GenerationStats) error
}

// Clock supplies the time used for generation length.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when advanced. Used for fixed-step runs and tests.
type ManualClock struct {
	now time.Time
}

// NewManualClock starts a clock at the given time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
