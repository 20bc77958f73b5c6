package systems

import "math"

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	return math.Remainder(angle, 2*math.Pi)
}

// ToroidalDelta returns the shortest displacement from (x1, y1) to (x2, y2)
// on a w×h torus.
func ToroidalDelta(x1, y1, x2, y2, w, h float64) (dx, dy float64) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}

// ToroidalDistance returns the shortest distance between two points on a w×h torus.
func ToroidalDistance(x1, y1, x2, y2, w, h float64) float64 {
	dx, dy := ToroidalDelta(x1, y1, x2, y2, w, h)
	return math.Hypot(dx, dy)
}

// WrapCentered maps v into [-extent/2, extent/2).
func WrapCentered(v, extent float64) float64 {
	if extent <= 0 {
		return v
	}
	half := extent / 2
	v = math.Mod(v+half, extent)
	if v < 0 {
		v += extent
	}
	return v - half
}
