package kosmoss

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// Quaternion is an attitude quaternion in the scalar-first convention
// q = (w, x, y, z), representing the inertial to body rotation.
type Quaternion struct {
	W, X, Y, Z float64
}

// NewQuaternion returns a quaternion from its four components.
func NewQuaternion(w, x, y, z float64) Quaternion {
	return Quaternion{w, x, y, z}
}

// IdentityQuaternion returns the identity rotation.
func IdentityQuaternion() Quaternion {
	return Quaternion{1, 0, 0, 0}
}

// Vector returns the vector part (x, y, z).
func (q Quaternion) Vector() []float64 {
	return []float64{q.X, q.Y, q.Z}
}

// Norm returns the norm of this quaternion as a flat 4-vector.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalized returns this quaternion scaled to unit norm.
func (q Quaternion) Normalized() Quaternion {
	n := q.Norm()
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// RotationMatrix returns the direction cosine matrix of this quaternion.
func (q Quaternion) RotationMatrix() *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{
		1 - 2*(q.Y*q.Y+q.Z*q.Z), 2 * (q.X*q.Y - q.W*q.Z), 2 * (q.X*q.Z + q.W*q.Y),
		2 * (q.X*q.Y + q.W*q.Z), 1 - 2*(q.X*q.X+q.Z*q.Z), 2 * (q.Y*q.Z - q.W*q.X),
		2 * (q.X*q.Z - q.W*q.Y), 2 * (q.Y*q.Z + q.W*q.X), 1 - 2*(q.X*q.X+q.Y*q.Y),
	})
}

// Mul returns the Hamilton product q ⊗ o, normalized.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		q.W*o.X + o.W*q.X + (q.Y*o.Z - q.Z*o.Y),
		q.W*o.Y + o.W*q.Y + (q.Z*o.X - q.X*o.Z),
		q.W*o.Z + o.W*q.Z + (q.X*o.Y - q.Y*o.X),
	}.Normalized()
}

// Rate returns the kinematic derivative q̇ = ½·q⊗(0,ω) for the body angular
// velocity ω. No renormalization is applied: the result is a rate, not a
// rotation.
func (q Quaternion) Rate(ω []float64) Quaternion {
	wx, wy, wz := ω[0], ω[1], ω[2]
	return Quaternion{
		-0.5 * (q.X*wx + q.Y*wy + q.Z*wz),
		0.5 * (q.W*wx + q.Y*wz - q.Z*wy),
		0.5 * (q.W*wy + q.Z*wx - q.X*wz),
		0.5 * (q.W*wz + q.X*wy - q.Y*wx),
	}
}

func (q Quaternion) String() string {
	return fmt.Sprintf("[%f %f %f %f]", q.W, q.X, q.Y, q.Z)
}
