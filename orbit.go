package kosmoss

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const eccentricityε = 1e-11

// SpecificEnergy returns the specific mechanical energy ξ = v²/2 − μ/r of an
// orbit from its Cartesian state.
func SpecificEnergy(R, V []float64) float64 {
	return Norm(V)*Norm(V)/2 - μEarth/Norm(R)
}

// Apsides returns the apogee and perigee radii from the Cartesian state, via
// the vis-viva and angular momentum relations.
func Apsides(R, V []float64) (rA, rP float64) {
	ξ := SpecificEnergy(R, V)
	h := Cross(R, V)
	h2 := Dot(h, h)
	a := -μEarth / (2 * ξ)
	e := math.Sqrt(1 + (2*ξ*h2)/(μEarth*μEarth))
	return a * (1 + e), a * (1 - e)
}

// NearApsis returns whether the vehicle radius is within tolerance of the
// apogee and of the perigee radius.
func NearApsis(R, V []float64, tolerance float64) (atApogee, atPerigee bool) {
	rA, rP := Apsides(R, V)
	r := Norm(R)
	return math.Abs(r-rA) < tolerance, math.Abs(r-rP) < tolerance
}

// Radii2ae returns the semi major axis and the eccentricity from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}

// CircularVelocity returns the circular orbital speed at radius r.
func CircularVelocity(r float64) float64 {
	return math.Sqrt(μEarth / r)
}

// OrbitalPeriod returns the period of an orbit with semi major axis a.
func OrbitalPeriod(a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/μEarth)
}

// KeplerianToCartesian converts the six orbital elements (angles in radians)
// to an inertial position and velocity.
func KeplerianToCartesian(a, e, i, Ω, ω, ν float64) (R, V []float64) {
	p := a * (1 - e*e)
	sinν, cosν := math.Sincos(ν)
	r := p / (1 + e*cosν)

	rPQW := []float64{r * cosν, r * sinν, 0}
	vPQW := []float64{-math.Sqrt(μEarth/p) * sinν, math.Sqrt(μEarth/p) * (e + cosν), 0}

	// PQW to ECI via the 3-1-3 rotation sequence. R1/R3 rotate the frame,
	// so negate for active rotations.
	var t1, t2 mat64.Dense
	t1.Mul(R3(-Ω), R1(-i))
	t2.Mul(&t1, R3(-ω))
	return MxV33(&t2, rPQW), MxV33(&t2, vPQW)
}

// CartesianToKeplerian converts an inertial position and velocity to the six
// orbital elements [a, e, i, Ω, ω, ν] (angles in radians).
func CartesianToKeplerian(R, V []float64) (a, e, i, Ω, ω, ν float64) {
	h := Cross(R, V)
	hNorm := Norm(h)
	n := Cross([]float64{0, 0, 1}, h)
	nNorm := Norm(n)
	r := Norm(R)
	v := Norm(V)

	eVec := make([]float64, 3)
	for k := 0; k < 3; k++ {
		eVec[k] = ((v*v-μEarth/r)*R[k] - Dot(R, V)*V[k]) / μEarth
	}
	e = Norm(eVec)

	ξ := v*v/2 - μEarth/r
	a = -μEarth / (2 * ξ)
	i = math.Acos(h[2] / hNorm)

	if nNorm >= eccentricityε {
		Ω = math.Atan2(n[1], n[0])
		if Ω < 0 {
			Ω += 2 * math.Pi
		}
	}

	switch {
	case e < eccentricityε:
		ω = 0
	case nNorm < eccentricityε:
		ω = math.Atan2(eVec[1], eVec[0])
	default:
		ω = math.Atan2(Dot(h, Cross(eVec, n)), Dot(n, eVec))
	}
	// Note Atan2 of the scalar triple products keeps the quadrant right where
	// a plain Acos would not.
	if ω < 0 {
		ω += 2 * math.Pi
	}

	if e < eccentricityε {
		if nNorm < eccentricityε {
			ν = math.Atan2(R[1], R[0])
		} else {
			ν = math.Atan2(Dot(n, Cross(R, n)), Dot(n, R))
		}
	} else {
		ν = math.Atan2(Dot(h, Cross(eVec, R)), Dot(eVec, R))
	}
	if ν < 0 {
		ν += 2 * math.Pi
	}
	return
}

// TrueToEccentricAnomaly converts the true anomaly to eccentric anomaly.
func TrueToEccentricAnomaly(ν, e float64) float64 {
	if e < eccentricityε {
		return ν
	}
	sinν, cosν := math.Sincos(ν)
	E := math.Atan2(math.Sqrt(1-e*e)*sinν, e+cosν)
	if E < 0 {
		E += 2 * math.Pi
	}
	return E
}

// EccentricToMeanAnomaly converts the eccentric anomaly to mean anomaly.
func EccentricToMeanAnomaly(E, e float64) float64 {
	M := E - e*math.Sin(E)
	if M < 0 {
		M += 2 * math.Pi
	}
	return M
}

// MeanToEccentricAnomaly solves Kepler's equation by Newton-Raphson.
func MeanToEccentricAnomaly(M, e, tolerance float64, maxIterations int) float64 {
	if e < eccentricityε {
		return M
	}
	E := M + e/2
	if M >= math.Pi {
		E = M - e/2
	}
	for k := 0; k < maxIterations; k++ {
		δ := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= δ
		if math.Abs(δ) <= tolerance {
			break
		}
	}
	if E < 0 {
		E += 2 * math.Pi
	}
	return E
}

// EqualOrbits returns whether two Cartesian states describe the same orbit
// shape within the given tolerances on semi major axis and eccentricity.
func EqualOrbits(R1v, V1 []float64, R2v, V2 []float64, distε, eccε float64) bool {
	a1, e1, _, _, _, _ := CartesianToKeplerian(R1v, V1)
	a2, e2, _, _, _, _ := CartesianToKeplerian(R2v, V2)
	return floats.EqualWithinAbs(a1, a2, distε) && floats.EqualWithinAbs(e1, e2, eccε)
}
