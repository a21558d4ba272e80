package kosmoss

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

/* Force and torque models. All of these are pure functions of the state; the
   Dynamics type below composes them into the equations of motion. */

// GravityAcceleration returns the two-body point-mass acceleration
// −μ/|r|²·r̂ at the given inertial position.
// Undefined for a zero position vector.
func GravityAcceleration(position []float64) []float64 {
	r := Norm(position)
	mag := -μEarth / (r * r)
	return ScaleVec(Unit(position), mag)
}

// DragForce returns the atmospheric drag force −½·Cd·A·ρ·|v|²·v̂ on the
// vehicle, with the density supplied by the environment model.
func DragForce(sc SpacecraftProperties, position, velocity []float64) []float64 {
	v := Norm(velocity)
	ρ := NewEnvironment(position).Density
	mag := -0.5 * sc.DragCoefficient() * sc.ReferenceArea() * ρ * v * v
	return ScaleVec(Unit(velocity), mag)
}

// GravityGradientTorque returns the torque 3μ/(2|r|³)·(ẑ_b × I·ẑ_b) where
// ẑ_b is the inertial radial unit vector expressed in the body frame.
func GravityGradientTorque(s State) []float64 {
	r := Norm(s.R)
	rUnit := Unit(s.R)
	// Radial direction seen from the body frame.
	var rot mat64.Dense
	rot.Clone(s.Q.RotationMatrix())
	var rotT mat64.Dense
	rotT.Clone(rot.T())
	zBody := MxV33(&rotT, rUnit)
	iz := MxV33(s.Inertia, zBody)
	return ScaleVec(Cross(zBody, iz), 3*μEarth/(2*r*r*r))
}

// AngularAcceleration solves Euler's rigid-body equation
// ω̇ = I⁻¹·(τ − ω×I·ω). A nil torque selects the gravity-gradient default.
// A singular inertia tensor yields non-finite components; callers must
// guard against degenerate inputs.
func AngularAcceleration(s State, torque []float64) []float64 {
	if torque == nil {
		torque = GravityGradientTorque(s)
	}
	iw := MxV33(s.Inertia, s.W)
	gyro := Cross(s.W, iw)
	rhs := AddVec(torque, ScaleVec(gyro, -1))
	var inv mat64.Dense
	if err := inv.Inverse(s.Inertia); err != nil {
		nan := math.NaN()
		return []float64{nan, nan, nan}
	}
	return MxV33(&inv, rhs)
}

// Dynamics composes the force/torque models plus optional externally supplied
// thrust and torque into the equations of motion. A nil thrust means no
// thrust; a nil torque selects the gravity-gradient default.
type Dynamics struct {
	Thrust []float64 // N, inertial frame
	Torque []float64 // N·m, body frame
}

// NewDynamics returns the equations of motion for the given control inputs.
func NewDynamics(thrust, torque []float64) Dynamics {
	return Dynamics{Thrust: thrust, Torque: torque}
}

// Derivative computes the state derivative. The returned State is a rate:
// position rate, velocity rate, quaternion rate, angular velocity rate. Its
// MET derivative is zero because the propagation loop owns wall time.
func (d Dynamics) Derivative(s State) State {
	vDot := AddVec(GravityAcceleration(s.R), ScaleVec(DragForce(s.SC, s.R, s.V), 1/s.Mass))
	if d.Thrust != nil {
		vDot = AddVec(vDot, ScaleVec(d.Thrust, 1/s.Mass))
	}
	return State{
		SC:       s.SC,
		Mass:     s.Mass,
		Inertia:  s.Inertia,
		R:        append([]float64(nil), s.V...),
		V:        vDot,
		Q:        s.Q.Rate(s.W),
		W:        AngularAcceleration(s, d.Torque),
		Epoch:    s.Epoch,
		MET:      0,
		FuelMass: s.FuelMass,
	}
}
