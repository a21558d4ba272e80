package kosmoss

import (
	"fmt"
	"math"
)

const (
	// apsisTolerance is the radius window, in meters, within which the vehicle
	// is considered to be at an apsis.
	apsisTolerance = 100.0
	// maxBurnDv bounds the velocity change commanded in a single burn (m/s).
	maxBurnDv = 100.0
)

// Apsis selects which apsis of the orbit a guidance law targets.
type Apsis uint8

const (
	// Perigee is the point of the orbit closest to the central body.
	Perigee Apsis = iota
	// Apogee is the point of the orbit farthest from the central body.
	Apogee
)

// String implements the Stringer interface.
func (a Apsis) String() string {
	switch a {
	case Perigee:
		return "perigee"
	case Apogee:
		return "apogee"
	default:
		panic("unknown apsis")
	}
}

// ApsisTargeting raises or lowers one apsis of the orbit to a target radius
// with tangential burns at the opposite apsis, as in a Hohmann transfer. The
// law is stateless: each call decides from the instantaneous orbit whether a
// burn is warranted.
type ApsisTargeting struct {
	targetRadius float64
	apsis        Apsis
	startTime    float64
}

// NewApsisTargeting returns a guidance law which drives the given apsis to
// targetRadius, active from startTime (seconds of mission elapsed time).
func NewApsisTargeting(targetRadius float64, apsis Apsis, startTime float64) ApsisTargeting {
	return ApsisTargeting{targetRadius: targetRadius, apsis: apsis, startTime: startTime}
}

// TargetRadius returns the radius the targeted apsis is driven to.
func (g ApsisTargeting) TargetRadius() float64 {
	return g.targetRadius
}

// StartTime returns the mission elapsed time at which the law activates.
func (g ApsisTargeting) StartTime() float64 {
	return g.startTime
}

// DesiredForce returns the inertial thrust force for this step, or nil when no
// burn is warranted: before the start time, when the targeted apsis is already
// within tolerance of the target radius, or away from the burn point.
func (g ApsisTargeting) DesiredForce(sc SpacecraftProperties, R, V []float64, t float64) []float64 {
	if t < g.startTime {
		return nil
	}
	rA, rP := Apsides(R, V)

	var achieved float64
	var atBurnPoint bool
	atApogee, atPerigee := NearApsis(R, V, apsisTolerance)
	switch g.apsis {
	case Apogee:
		// Burn at perigee to move apogee.
		achieved = rA
		atBurnPoint = atPerigee
	case Perigee:
		achieved = rP
		atBurnPoint = atApogee
	}
	if math.Abs(achieved-g.targetRadius) < apsisTolerance || !atBurnPoint {
		return nil
	}

	// Vis-viva speed of the transfer orbit joining the current radius to the
	// target radius, evaluated at the burn point.
	r := Norm(R)
	vTarget := math.Sqrt(μEarth * (2/r - 2/(g.targetRadius+r)))
	Δv := vTarget - Norm(V)
	if Δv > maxBurnDv {
		Δv = maxBurnDv
	} else if Δv < -maxBurnDv {
		Δv = -maxBurnDv
	}
	return ScaleVec(Unit(V), sc.Mass()*Δv)
}

// String implements the Stringer interface.
func (g ApsisTargeting) String() string {
	return fmt.Sprintf("target %s radius %.1f km from T+%.0f s", g.apsis, g.targetRadius/1e3, g.startTime)
}
