package kosmoss

import (
	"fmt"
	"time"

	"github.com/gonum/matrix/mat64"
)

// State is the propagated vector of one rigid-body vehicle: mass properties,
// orbital position/velocity, attitude quaternion and body rates, time and
// fuel. A State is replaced, not mutated, on each integration step; only MET
// and Epoch are updated in place by the caller before deriving control
// inputs.
type State struct {
	SC       SpacecraftProperties // contextual reference, carried not owned
	Mass     float64              // kg
	Inertia  *mat64.Dense         // kg·m², symmetric positive-definite
	R        []float64            // inertial position, m
	V        []float64            // inertial velocity, m/s
	Q        Quaternion           // inertial to body
	W        []float64            // body angular velocity, rad/s
	Epoch    time.Time            // absolute time of this state
	MET      float64              // mission elapsed time, s
	FuelMass float64              // kg
}

// NewState returns the initial state of a vehicle. Fuel is initialized to 10%
// of the total mass.
func NewState(sc SpacecraftProperties, inertia *mat64.Dense, R, V []float64, q Quaternion, w []float64, epoch time.Time) State {
	mass := sc.Mass()
	return State{
		SC:       sc,
		Mass:     mass,
		Inertia:  inertia,
		R:        R,
		V:        V,
		Q:        q,
		W:        w,
		Epoch:    epoch,
		MET:      0,
		FuelMass: mass * 0.1,
	}
}

// Add combines every continuous field component-wise (position, velocity,
// quaternion as a flat 4-vector, angular velocity, MET) and carries the
// non-additive fields (mass, inertia, spacecraft reference, epoch, fuel) from
// the receiver. This is the contract the generic integrator relies on.
func (s State) Add(o State) State {
	return State{
		SC:      s.SC,
		Mass:    s.Mass,
		Inertia: s.Inertia,
		R:       AddVec(s.R, o.R),
		V:       AddVec(s.V, o.V),
		Q: Quaternion{
			s.Q.W + o.Q.W,
			s.Q.X + o.Q.X,
			s.Q.Y + o.Q.Y,
			s.Q.Z + o.Q.Z,
		},
		W:        AddVec(s.W, o.W),
		Epoch:    s.Epoch,
		MET:      s.MET + o.MET,
		FuelMass: s.FuelMass,
	}
}

// Scale multiplies every continuous field by k, carrying the non-additive
// fields from the receiver.
func (s State) Scale(k float64) State {
	return State{
		SC:       s.SC,
		Mass:     s.Mass,
		Inertia:  s.Inertia,
		R:        ScaleVec(s.R, k),
		V:        ScaleVec(s.V, k),
		Q:        Quaternion{s.Q.W * k, s.Q.X * k, s.Q.Y * k, s.Q.Z * k},
		W:        ScaleVec(s.W, k),
		Epoch:    s.Epoch,
		MET:      s.MET * k,
		FuelMass: s.FuelMass,
	}
}

// RateNorm returns the angular velocity magnitude |ω| in rad/s.
func (s State) RateNorm() float64 {
	return Norm(s.W)
}

// Altitude returns the altitude above the mean Earth radius in meters.
func (s State) Altitude() float64 {
	return Norm(s.R) - REarth
}

func (s State) String() string {
	return fmt.Sprintf("R=%.1f km V=%.3f km/s |ω|=%.4f rad/s MET=%.1f s",
		Norm(s.R)/1e3, Norm(s.V)/1e3, s.RateNorm(), s.MET)
}
