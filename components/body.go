package components

// Body holds the mass properties and damping of a rigid body.
type Body struct {
	Mass           float64
	Inertia        float64
	LinearDamping  float64
	AngularDamping float64
}
