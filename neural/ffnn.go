// Package neural provides feedforward neural network brains for vehicles.
package neural

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrInputSize is returned when an input vector does not match the first layer.
	ErrInputSize = errors.New("neural: input size mismatch")
	// ErrTopologyMismatch is returned when a genetic operator gets networks of different shapes.
	ErrTopologyMismatch = errors.New("neural: topology mismatch")
	// ErrInvalidTopology is returned for topologies with fewer than two layers or empty layers.
	ErrInvalidTopology = errors.New("neural: invalid topology")
	// ErrNegativeRate is returned by Mutate for a negative rate.
	ErrNegativeRate = errors.New("neural: negative mutation rate")
)

// Level is one dense layer. Weights are row-major: Weights[i*Outputs+j] connects input i to output j.
type Level struct {
	Inputs  int
	Outputs int
	Weights []float64
	Biases  []float64
}

func newLevel(inputs, outputs int) Level {
	return Level{
		Inputs:  inputs,
		Outputs: outputs,
		Weights: make([]float64, inputs*outputs),
		Biases:  make([]float64, outputs),
	}
}

// forward applies tanh(sum_i in[i]*W[i][j] + b[j]).
func (l *Level) forward(in []float64) []float64 {
	out := make([]float64, l.Outputs)
	for j := 0; j < l.Outputs; j++ {
		sum := 0.0
		for i := 0; i < l.Inputs; i++ {
			sum += in[i] * l.Weights[i*l.Outputs+j]
		}
		out[j] = math.Tanh(sum + l.Biases[j])
	}
	return out
}

// Network is a stack of dense tanh layers. Its topology never changes after construction.
type Network struct {
	topology []int
	levels   []Level
}

// NewNetwork creates a zero-initialized network for the given layer sizes.
func NewNetwork(topology []int) (*Network, error) {
	if len(topology) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidTopology, len(topology))
	}
	for i, n := range topology {
		if n < 1 {
			return nil, fmt.Errorf("%w: layer %d has size %d", ErrInvalidTopology, i, n)
		}
	}

	nn := &Network{
		topology: append([]int(nil), topology...),
		levels:   make([]Level, len(topology)-1),
	}
	for i := range nn.levels {
		nn.levels[i] = newLevel(topology[i], topology[i+1])
	}
	return nn, nil
}

// NewRandomNetwork creates a network with every parameter uniform in [-1, 1].
func NewRandomNetwork(topology []int, rng *rand.Rand) (*Network, error) {
	nn, err := NewNetwork(topology)
	if err != nil {
		return nil, err
	}
	nn.Randomize(rng)
	return nn, nil
}

// Topology returns a copy of the layer sizes.
func (nn *Network) Topology() []int {
	return append([]int(nil), nn.topology...)
}

// Levels exposes the layers for read-only inspection.
func (nn *Network) Levels() []Level {
	return nn.levels
}

// NumInputs returns the size of the first layer.
func (nn *Network) NumInputs() int {
	return nn.topology[0]
}

// NumOutputs returns the size of the last layer.
func (nn *Network) NumOutputs() int {
	return nn.topology[len(nn.topology)-1]
}

// ParamCount returns the total number of weights and biases.
func (nn *Network) ParamCount() int {
	n := 0
	for i := range nn.levels {
		n += len(nn.levels[i].Weights) + len(nn.levels[i].Biases)
	}
	return n
}

// Infer runs the inputs through every level in order.
func (nn *Network) Infer(inputs []float64) ([]float64, error) {
	if len(inputs) != nn.topology[0] {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(inputs), nn.topology[0])
	}
	out := inputs
	for i := range nn.levels {
		out = nn.levels[i].forward(out)
	}
	return out, nil
}

// Randomize overwrites every weight and bias with a uniform value in [-1, 1].
func (nn *Network) Randomize(rng *rand.Rand) {
	for i := range nn.levels {
		l := &nn.levels[i]
		for k := range l.Biases {
			l.Biases[k] = rng.Float64()*2 - 1
		}
		for k := range l.Weights {
			l.Weights[k] = rng.Float64()*2 - 1
		}
	}
}

// Mutate adds an independent uniform perturbation in [-rate, rate] to every parameter.
func (nn *Network) Mutate(rng *rand.Rand, rate float64) error {
	if rate < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeRate, rate)
	}
	for i := range nn.levels {
		l := &nn.levels[i]
		for k := range l.Weights {
			l.Weights[k] += (rng.Float64()*2 - 1) * rate
		}
		for k := range l.Biases {
			l.Biases[k] += (rng.Float64()*2 - 1) * rate
		}
	}
	return nil
}

// Clone creates a deep copy of the network.
func (nn *Network) Clone() *Network {
	clone := &Network{
		topology: append([]int(nil), nn.topology...),
		levels:   make([]Level, len(nn.levels)),
	}
	for i, l := range nn.levels {
		clone.levels[i] = Level{
			Inputs:  l.Inputs,
			Outputs: l.Outputs,
			Weights: append([]float64(nil), l.Weights...),
			Biases:  append([]float64(nil), l.Biases...),
		}
	}
	return clone
}

// SameTopology reports whether both networks have identical layer sizes.
func (nn *Network) SameTopology(other *Network) bool {
	return sameTopology(nn.topology, other.topology)
}

func sameTopology(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal reports exact equality of topology and every parameter.
func (nn *Network) Equal(other *Network) bool {
	if other == nil || !nn.SameTopology(other) {
		return false
	}
	for i := range nn.levels {
		a, b := &nn.levels[i], &other.levels[i]
		for k := range a.Weights {
			if a.Weights[k] != b.Weights[k] {
				return false
			}
		}
		for k := range a.Biases {
			if a.Biases[k] != b.Biases[k] {
				return false
			}
		}
	}
	return true
}

// Crossover builds a child by taking each parameter from a or b on a fair coin flip.
func Crossover(rng *rand.Rand, a, b *Network) (*Network, error) {
	if !a.SameTopology(b) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrTopologyMismatch, a.topology, b.topology)
	}

	child, err := NewNetwork(a.topology)
	if err != nil {
		return nil, err
	}
	for l := range child.levels {
		lc, la, lb := &child.levels[l], &a.levels[l], &b.levels[l]
		for i := range lc.Weights {
			if rng.Float64() < 0.5 {
				lc.Weights[i] = la.Weights[i]
			} else {
				lc.Weights[i] = lb.Weights[i]
			}
		}
		for i := range lc.Biases {
			if rng.Float64() < 0.5 {
				lc.Biases[i] = la.Biases[i]
			} else {
				lc.Biases[i] = lb.Biases[i]
			}
		}
	}
	return child, nil
}
