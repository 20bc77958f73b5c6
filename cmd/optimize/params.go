// Package main provides CMA-ES optimization for seekers evolution parameters.
package main

import (
	"math"

	"github.com/pthm-cable/seekers/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Topology-shaping values (ray count, hidden layers) are left alone so every
// candidate evolves the same network shape.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Evolution
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "elite_count", Path: "population.elite_count", Min: 1, Max: 10, Default: 2},
			// Control
			{Name: "thrust_power", Path: "control.thrust_power", Min: 0.05, Max: 1.0, Default: 0.25},
			{Name: "steering_strength", Path: "control.steering_strength", Min: 0.02, Max: 0.6, Default: 0.15},
			{Name: "throttle_deadzone", Path: "control.throttle_deadzone", Min: 0, Max: 0.5, Default: 0.1},
			// Sensors
			{Name: "cone_angle", Path: "sensors.cone_angle", Min: 0.5, Max: math.Pi, Default: math.Pi / 2},
			{Name: "sensor_range", Path: "sensors.range", Min: 4, Max: 30, Default: 10},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order. Elite count is capped at the population size.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Mutation.Rate = clamped[0]
	cfg.Population.EliteCount = int(math.Round(clamped[1]))
	if cfg.Population.EliteCount > cfg.Population.Size {
		cfg.Population.EliteCount = cfg.Population.Size
	}

	cfg.Control.ThrustPower = clamped[2]
	cfg.Control.SteeringStrength = clamped[3]
	cfg.Control.ThrottleDeadzone = clamped[4]

	cfg.Sensors.ConeAngle = clamped[5]
	cfg.Sensors.Range = clamped[6]

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Mutation.Rate,
		float64(cfg.Population.EliteCount),
		cfg.Control.ThrustPower,
		cfg.Control.SteeringStrength,
		cfg.Control.ThrottleDeadzone,
		cfg.Sensors.ConeAngle,
		cfg.Sensors.Range,
	}
}
