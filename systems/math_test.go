package systems

import (
	"math"
	"testing"
)

func TestToroidalDelta(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		dx, dy         float64
	}{
		{"direct", 0, 0, 3, -4, 3, -4},
		{"wrap x", -49, 0, 49, 0, -2, 0},
		{"wrap y", 0, 49, 0, -49, 0, 2},
		{"wrap both", 49, 49, -49, -49, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := ToroidalDelta(tt.x1, tt.y1, tt.x2, tt.y2, 100, 100)
			if !approxEqual(dx, tt.dx) || !approxEqual(dy, tt.dy) {
				t.Errorf("got (%v, %v), want (%v, %v)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestToroidalDistanceSymmetric(t *testing.T) {
	a := ToroidalDistance(-45, 10, 40, -12, 100, 60)
	b := ToroidalDistance(40, -12, -45, 10, 100, 60)
	if !approxEqual(a, b) {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
	if want := math.Hypot(15, 22-0); a > want+1e-9 {
		t.Errorf("distance %v exceeds wrapped path %v", a, want)
	}
}

func TestWrapCentered(t *testing.T) {
	tests := []struct {
		v, extent, want float64
	}{
		{0, 100, 0},
		{49, 100, 49},
		{51, 100, -49},
		{-51, 100, 49},
		{250, 100, -50},
		{7, 0, 7},
	}

	for _, tt := range tests {
		if got := WrapCentered(tt.v, tt.extent); !approxEqual(got, tt.want) {
			t.Errorf("WrapCentered(%v, %v) = %v, want %v", tt.v, tt.extent, got, tt.want)
		}
	}
}
