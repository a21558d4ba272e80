package kosmoss

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// MaxControlTorque is the saturation bound of the attitude controller (N·m).
const MaxControlTorque = 1.0

// AttitudeController is a geometric attitude controller on SO(3), steering
// the body frame onto the radial-transverse-normal (RSW) frame of the orbit.
// It is a pure function of its inputs and holds no internal state.
type AttitudeController struct {
	kp, kd    float64
	inertia   *mat64.Dense
	maxTorque float64
}

// NewAttitudeController returns a controller with the given proportional and
// derivative gains and vehicle inertia tensor.
func NewAttitudeController(kp, kd float64, inertia *mat64.Dense) *AttitudeController {
	return &AttitudeController{kp: kp, kd: kd, inertia: inertia, maxTorque: MaxControlTorque}
}

// ControlTorque computes the bounded control torque from the current orbital
// state, attitude quaternion and body angular velocity.
func (c *AttitudeController) ControlTorque(R, V []float64, q Quaternion, ωBody []float64) []float64 {
	// Desired RSW frame from the orbital state.
	rUnit := Unit(R)
	wUnit := Unit(Cross(R, V))
	sUnit := Cross(wUnit, rUnit)
	rDes := mat64.NewDense(3, 3, []float64{
		rUnit[0], sUnit[0], wUnit[0],
		rUnit[1], sUnit[1], wUnit[1],
		rUnit[2], sUnit[2], wUnit[2],
	})

	rCur := q.RotationMatrix()

	// Attitude error in SO(3): R_err = R_cur^T · R_des, e_R = vee of its
	// skew-symmetric part.
	var rErr mat64.Dense
	rErr.Mul(rCur.T(), rDes)
	eR := []float64{
		(rErr.At(1, 2) - rErr.At(2, 1)) / 2,
		(rErr.At(2, 0) - rErr.At(0, 2)) / 2,
		(rErr.At(0, 1) - rErr.At(1, 0)) / 2,
	}

	// Orbital-rate feedforward projected through the attitude error.
	n := Norm(V) / Norm(R)
	ωDes := MxV33(&rErr, []float64{0, 0, -n})
	eW := AddVec(ωBody, ScaleVec(ωDes, -1))

	raw := MxV33(c.inertia, AddVec(ScaleVec(eR, -c.kp), ScaleVec(eW, -c.kd)))

	// Smooth saturation, preserving direction and avoiding discontinuities.
	mag := Norm(raw)
	if mag > c.maxTorque {
		scale := c.maxTorque * (1 - math.Exp(-mag/c.maxTorque)) / mag
		raw = ScaleVec(raw, scale)
	}
	return raw
}
