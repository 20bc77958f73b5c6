package systems

import "math"

// TargetRadius is how far a target may sit off a ray's axis and still be hit.
const TargetRadius = 0.6

// RayHit is one ray's result. Distance is the sensor range when Hit is nil.
type RayHit struct {
	Angle    float64 // absolute ray angle in radians
	Hit      *Target
	HitX     float64 // world position of the hit image (may lie outside the arena)
	HitY     float64
	Distance float64
}

// SensorReading holds one RayHit per ray, ordered from heading-cone/2 to heading+cone/2.
type SensorReading []RayHit

// Distances returns the per-ray distances in ray order.
func (r SensorReading) Distances() []float64 {
	out := make([]float64, len(r))
	for i := range r {
		out[i] = r[i].Distance
	}
	return out
}

// RaySpec describes the sensor fan.
type RaySpec struct {
	Count     int
	ConeAngle float64 // total cone width in radians
	MaxRange  float64
}

// RayAngle returns the absolute angle of ray i. A single ray points straight along heading.
// An angle a faces (sin a, -cos a), the same convention the physics bodies move by.
func (s RaySpec) RayAngle(heading float64, i int) float64 {
	t := 0.5
	if s.Count > 1 {
		t = float64(i) / float64(s.Count-1)
	}
	return heading - s.ConeAngle/2 + t*s.ConeAngle
}

// Cast fires Count rays from (x, y) across the cone centred on heading and reports
// the closest target along each. Every target is tested at its 9 toroidal images
// (offsets of -1, 0, +1 arena sizes on each axis) so targets across an edge are seen.
//
// An image counts as a hit when its projection on the ray lies in [0, MaxRange] and
// its perpendicular offset is below TargetRadius. Only a strictly closer projection
// replaces the current best, so ties keep the first image in scan order
// (target order, then x offset, then y offset).
func Cast(x, y, heading float64, targets []Target, wrapW, wrapH float64, spec RaySpec) SensorReading {
	if spec.Count <= 0 {
		return SensorReading{}
	}

	reading := make(SensorReading, spec.Count)
	for i := 0; i < spec.Count; i++ {
		angle := spec.RayAngle(heading, i)
		dirX, dirY := math.Sin(angle), -math.Cos(angle)

		hit := RayHit{Angle: angle, Distance: spec.MaxRange}
		for t := range targets {
			for ox := -1; ox <= 1; ox++ {
				for oy := -1; oy <= 1; oy++ {
					fx := targets[t].X + float64(ox)*wrapW
					fy := targets[t].Y + float64(oy)*wrapH
					dx := fx - x
					dy := fy - y

					// Projection along the ray
					proj := dx*dirX + dy*dirY
					if proj < 0 || proj > spec.MaxRange {
						continue
					}

					// Perpendicular distance from the ray axis
					perp := math.Abs(dx*-dirY + dy*dirX)
					if perp < TargetRadius && (hit.Hit == nil || proj < hit.Distance) {
						hit.Hit = &targets[t]
						hit.HitX, hit.HitY = fx, fy
						hit.Distance = proj
					}
				}
			}
		}
		reading[i] = hit
	}
	return reading
}
