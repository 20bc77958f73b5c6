package neural

// DirectResponseWeight is the hand-set weight used by WireDirectResponse.
const DirectResponseWeight = 5.0

// WireDirectResponse sets a Braitenberg-style seed on top of the current parameters.
// Every level but the last passes unit k straight to unit k; the last level crosses
// them over: left-half ray inputs drive output 1 and right-half ray inputs drive
// output 0. The ray count is taken as the input count minus the three velocity terms,
// and a centre ray (odd count) is left unwired.
//
// Returns false without touching any weight when the network has fewer than two
// hidden layers.
func (nn *Network) WireDirectResponse() bool {
	if len(nn.levels) < 3 {
		return false
	}

	for l := 0; l < len(nn.levels)-1; l++ {
		level := &nn.levels[l]
		for i := 0; i < level.Inputs && i < level.Outputs; i++ {
			level.Weights[i*level.Outputs+i] = DirectResponseWeight
		}
	}

	last := &nn.levels[len(nn.levels)-1]
	if last.Outputs < 2 {
		return true
	}

	rays := nn.topology[0] - 3
	if rays < 0 {
		rays = 0
	}
	half := rays / 2
	for i := 0; i < half && i < last.Inputs; i++ {
		last.Weights[i*last.Outputs+1] = DirectResponseWeight
	}
	for i := rays - half; i < rays && i < last.Inputs; i++ {
		last.Weights[i*last.Outputs+0] = DirectResponseWeight
	}
	return true
}
