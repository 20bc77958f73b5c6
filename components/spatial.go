// Package components defines ECS components for physics bodies.
package components

// Position represents a body's world position.
type Position struct {
	X, Y float64
}

// Velocity represents a body's linear velocity.
type Velocity struct {
	X, Y float64
}

// Rotation represents a body's heading and angular velocity.
type Rotation struct {
	Heading float64 // radians, 0 = +X
	AngVel  float64 // radians per second
}
