package neural

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func TestSerializeRoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		nn := newTestNetwork(t, seed)
		_ = nn.Mutate(rand.New(rand.NewSource(seed*10)), 0.37)

		restored, err := Deserialize(nn.Serialize())
		if err != nil {
			t.Fatalf("seed %d: Deserialize failed: %v", seed, err)
		}
		checkShape(t, restored)
		if !restored.Equal(nn) {
			t.Errorf("seed %d: round trip is not exact", seed)
		}
	}
}

func TestSerializeRoundTripThroughJSON(t *testing.T) {
	nn := newTestNetwork(t, 42)

	data, err := json.Marshal(nn.Serialize())
	if err != nil {
		t.Fatal(err)
	}

	var bd BrainData
	if err := json.Unmarshal(data, &bd); err != nil {
		t.Fatal(err)
	}

	restored, err := Deserialize(bd)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !restored.Equal(nn) {
		t.Error("JSON round trip changed parameters")
	}
}

func TestSerializeIsDetached(t *testing.T) {
	nn := newTestNetwork(t, 42)
	bd := nn.Serialize()
	bd.Levels[0].Weights[0] = 123
	bd.Topology[0] = 1

	if nn.Levels()[0].Weights[0] == 123 || nn.NumInputs() == 1 {
		t.Error("Serialize shares buffers with the network")
	}
}

func TestDeserializeRejectsBadShapes(t *testing.T) {
	good := func() BrainData {
		nn, _ := NewRandomNetwork([]int{3, 2}, rand.New(rand.NewSource(1)))
		return nn.Serialize()
	}

	tests := []struct {
		name   string
		mutate func(*BrainData)
		want   error
	}{
		{"missing topology", func(bd *BrainData) { bd.Topology = nil }, ErrMissingTopology},
		{"too few weights", func(bd *BrainData) { bd.Levels[0].Weights = bd.Levels[0].Weights[:5] }, ErrShapeMismatch},
		{"too many biases", func(bd *BrainData) { bd.Levels[0].Biases = append(bd.Levels[0].Biases, 0) }, ErrShapeMismatch},
		{"missing level", func(bd *BrainData) { bd.Levels = nil }, ErrShapeMismatch},
		{"extra level", func(bd *BrainData) { bd.Levels = append(bd.Levels, LevelData{}) }, ErrShapeMismatch},
		{"topology disagrees", func(bd *BrainData) { bd.Topology = []int{4, 2} }, ErrShapeMismatch},
		{"single layer", func(bd *BrainData) { bd.Topology = []int{3} }, ErrInvalidTopology},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := good()
			tt.mutate(&bd)
			nn, err := Deserialize(bd)
			if nn != nil {
				t.Error("expected nil network")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
