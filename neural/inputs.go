package neural

import "math"

// Velocity normalization defaults: tanh(v/5) and tanh(w/2).
const (
	DefaultVelocityScale = 5.0
	DefaultAngularScale  = 2.0
)

// SensoryInputs holds the raw sensory data before normalization.
// Layout: one proximity per ray, then vx, vy, angular velocity.
type SensoryInputs struct {
	// Per-ray distance to the closest hit; a miss reports SensorRange.
	RayDistances []float64
	SensorRange  float64

	// Self state from the physics collaborator
	VelX   float64
	VelY   float64
	AngVel float64
}

// InputCount returns the network input size for a ray count.
func InputCount(rayCount int) int {
	return rayCount + 3
}

// ToInputs converts sensory data into the network input vector.
// Ray proximities are 1 - min(d, R)/R so closer is larger and a miss is 0;
// velocity terms are squashed through tanh into (-1, 1).
func (s *SensoryInputs) ToInputs(velScale, angScale float64) []float64 {
	if velScale <= 0 {
		velScale = DefaultVelocityScale
	}
	if angScale <= 0 {
		angScale = DefaultAngularScale
	}

	inputs := make([]float64, 0, InputCount(len(s.RayDistances)))
	for _, d := range s.RayDistances {
		inputs = append(inputs, Proximity(d, s.SensorRange))
	}
	inputs = append(inputs,
		math.Tanh(s.VelX/velScale),
		math.Tanh(s.VelY/velScale),
		math.Tanh(s.AngVel/angScale),
	)
	return inputs
}

// Proximity maps a ray distance to [0, 1].
func Proximity(distance, maxRange float64) float64 {
	if maxRange <= 0 {
		return 0
	}
	return 1 - math.Min(math.Max(distance, 0), maxRange)/maxRange
}

// Controls holds network outputs mapped to actuator commands.
type Controls struct {
	Steering float64 // [-1, 1]
	Throttle float64 // [0, 1]
}

// DecodeControls maps raw outputs to steering and throttle.
func DecodeControls(outputs []float64) Controls {
	var c Controls
	if len(outputs) > 0 {
		c.Steering = outputs[0]
	}
	if len(outputs) > 1 {
		c.Throttle = (outputs[1] + 1) / 2
	}
	return c
}

// ThrusterMix returns left/right thruster strengths for display.
func (c Controls) ThrusterMix() (left, right float64) {
	return math.Max(0, c.Throttle+c.Steering), math.Max(0, c.Throttle-c.Steering)
}
