package neural

import (
	"math/rand"
	"testing"
)

func TestWireDirectResponseCrossesOver(t *testing.T) {
	// 7 rays + 3 velocity terms, two hidden layers
	nn, err := NewNetwork([]int{10, 12, 8, 2})
	if err != nil {
		t.Fatal(err)
	}

	if !nn.WireDirectResponse() {
		t.Fatal("WireDirectResponse reported no-op on a two-hidden-layer network")
	}

	// Leftmost ray only
	left := make([]float64, 10)
	left[0] = 1
	out, err := nn.Infer(left)
	if err != nil {
		t.Fatal(err)
	}
	if out[1] <= out[0] {
		t.Errorf("left ray should drive output 1 over output 0, got %v", out)
	}

	// Rightmost ray only
	right := make([]float64, 10)
	right[6] = 1
	out, err = nn.Infer(right)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] <= out[1] {
		t.Errorf("right ray should drive output 0 over output 1, got %v", out)
	}
}

func TestWireDirectResponseWeights(t *testing.T) {
	nn, err := NewNetwork([]int{10, 12, 8, 2})
	if err != nil {
		t.Fatal(err)
	}
	nn.WireDirectResponse()

	levels := nn.Levels()
	for i := 0; i < 10; i++ {
		if got := levels[0].Weights[i*12+i]; got != DirectResponseWeight {
			t.Errorf("level 0 pass-through %d = %v", i, got)
		}
	}
	for i := 0; i < 8; i++ {
		if got := levels[1].Weights[i*8+i]; got != DirectResponseWeight {
			t.Errorf("level 1 pass-through %d = %v", i, got)
		}
	}

	last := levels[2]
	for i := 0; i < 3; i++ {
		if last.Weights[i*2+1] != DirectResponseWeight || last.Weights[i*2] != 0 {
			t.Errorf("left ray %d not crossed to output 1", i)
		}
	}
	// Centre ray stays unwired
	if last.Weights[3*2] != 0 || last.Weights[3*2+1] != 0 {
		t.Error("centre ray should not be wired")
	}
	for i := 4; i < 7; i++ {
		if last.Weights[i*2] != DirectResponseWeight || last.Weights[i*2+1] != 0 {
			t.Errorf("right ray %d not crossed to output 0", i)
		}
	}
}

func TestWireDirectResponseNoopOnShallowNetworks(t *testing.T) {
	for _, topo := range [][]int{{10, 2}, {10, 6, 2}} {
		nn, err := NewRandomNetwork(topo, rand.New(rand.NewSource(1)))
		if err != nil {
			t.Fatal(err)
		}
		before := nn.Clone()

		if nn.WireDirectResponse() {
			t.Errorf("topology %v: expected no-op", topo)
		}
		if !nn.Equal(before) {
			t.Errorf("topology %v: weights changed", topo)
		}
	}
}
