package systems

// Target is a collectible point in the arena.
type Target struct {
	ID   uint64
	X, Y float64
}

// RNG is the interface for random number generation.
type RNG interface {
	Float64() float64
}

// targetCellSize is the nominal spatial grid cell edge for target lookups.
const targetCellSize = 4.0

// TargetField holds a fixed number of targets on a torus centred on the origin.
// Consumed targets are replaced in place, so the count never changes between resizes.
type TargetField struct {
	targets []Target
	width   float64
	height  float64
	nextID  uint64
	rng     RNG

	grid    *SpatialGrid
	scratch []int // reused query buffer
}

// NewTargetField creates a field with count targets spread uniformly over
// [-w/2, w/2] × [-h/2, h/2].
func NewTargetField(w, h float64, count int, rng RNG) *TargetField {
	tf := &TargetField{rng: rng}
	tf.Resize(w, h, count)
	return tf
}

// Resize changes the arena size and target count, then respawns every target.
func (tf *TargetField) Resize(w, h float64, count int) {
	if count < 0 {
		count = 0
	}
	tf.width = w
	tf.height = h
	tf.targets = make([]Target, count)
	tf.grid = NewSpatialGrid(w, h, targetCellSize)
	tf.Reset()
}

// Reset respawns every target at a fresh position.
func (tf *TargetField) Reset() {
	tf.grid.Clear()
	for i := range tf.targets {
		tf.respawn(i)
		tf.grid.Insert(i, tf.targets[i].X, tf.targets[i].Y)
	}
}

func (tf *TargetField) respawn(i int) {
	tf.nextID++
	tf.targets[i] = Target{
		ID: tf.nextID,
		X:  (tf.rng.Float64() - 0.5) * tf.width,
		Y:  (tf.rng.Float64() - 0.5) * tf.height,
	}
}

// ConsumeNear removes every target whose wrap-aware distance from (x, y) is
// below radius and respawns it immediately. Targets are visited in index
// order, so respawn positions match a plain scan. Returns the number consumed.
func (tf *TargetField) ConsumeNear(x, y, radius float64) int {
	if radius <= 0 || len(tf.targets) == 0 {
		return 0
	}
	tf.scratch = tf.grid.QueryInto(tf.scratch[:0], x, y, radius)

	consumed := 0
	for _, i := range tf.scratch {
		t := tf.targets[i]
		if ToroidalDistance(x, y, t.X, t.Y, tf.width, tf.height) < radius {
			tf.grid.Remove(i, t.X, t.Y)
			tf.respawn(i)
			tf.grid.Insert(i, tf.targets[i].X, tf.targets[i].Y)
			consumed++
		}
	}
	return consumed
}

// Targets returns the live targets. Callers must not modify the slice.
func (tf *TargetField) Targets() []Target {
	return tf.targets
}

// Len returns the number of targets.
func (tf *TargetField) Len() int {
	return len(tf.targets)
}

// Width returns the field width.
func (tf *TargetField) Width() float64 {
	return tf.width
}

// Height returns the field height.
func (tf *TargetField) Height() float64 {
	return tf.height
}
