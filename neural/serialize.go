package neural

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTopology is returned when serialized data carries no topology.
	ErrMissingTopology = errors.New("neural: missing topology")
	// ErrShapeMismatch is returned when serialized levels do not fit the declared topology.
	ErrShapeMismatch = errors.New("neural: level shape mismatch")
)

// BrainData holds the flattened network for serialization.
type BrainData struct {
	Topology []int       `json:"topology"`
	Levels   []LevelData `json:"levels"`
}

// LevelData holds one level's flattened parameters.
type LevelData struct {
	Weights []float64 `json:"weights"` // [Inputs * Outputs], row-major
	Biases  []float64 `json:"biases"`  // [Outputs]
}

// Serialize flattens the network weights for storage.
func (nn *Network) Serialize() BrainData {
	bd := BrainData{
		Topology: nn.Topology(),
		Levels:   make([]LevelData, len(nn.levels)),
	}
	for i, l := range nn.levels {
		bd.Levels[i] = LevelData{
			Weights: append([]float64(nil), l.Weights...),
			Biases:  append([]float64(nil), l.Biases...),
		}
	}
	return bd
}

// Validate checks that the levels exactly fit the declared topology.
func (bd *BrainData) Validate() error {
	if len(bd.Topology) == 0 {
		return ErrMissingTopology
	}
	if len(bd.Topology) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidTopology, len(bd.Topology))
	}
	if len(bd.Levels) != len(bd.Topology)-1 {
		return fmt.Errorf("%w: %d levels for %d layers", ErrShapeMismatch, len(bd.Levels), len(bd.Topology))
	}
	for i, l := range bd.Levels {
		in, out := bd.Topology[i], bd.Topology[i+1]
		if len(l.Weights) != in*out {
			return fmt.Errorf("%w: level %d has %d weights, want %d", ErrShapeMismatch, i, len(l.Weights), in*out)
		}
		if len(l.Biases) != out {
			return fmt.Errorf("%w: level %d has %d biases, want %d", ErrShapeMismatch, i, len(l.Biases), out)
		}
	}
	return nil
}

// Deserialize restores a network from flattened form.
// Partial or mis-shaped data is rejected rather than padded.
func Deserialize(bd BrainData) (*Network, error) {
	if err := bd.Validate(); err != nil {
		return nil, err
	}
	nn, err := NewNetwork(bd.Topology)
	if err != nil {
		return nil, err
	}
	for i := range nn.levels {
		copy(nn.levels[i].Weights, bd.Levels[i].Weights)
		copy(nn.levels[i].Biases, bd.Levels[i].Biases)
	}
	return nn, nil
}
