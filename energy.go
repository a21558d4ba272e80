package kosmoss

// Energy returns the total mechanical energy (kinetic plus gravitational
// potential) of the vehicle, in joules.
func Energy(s State) float64 {
	r := Norm(s.R)
	v := Norm(s.V)
	kinetic := 0.5 * s.Mass * v * v
	potential := -μEarth * s.Mass / r
	return kinetic + potential
}

// AngularMomentum returns the orbital angular momentum vector r × m·v.
func AngularMomentum(s State) []float64 {
	return Cross(s.R, ScaleVec(s.V, s.Mass))
}
