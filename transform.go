package kosmoss

import (
	"math"
	"time"

	"github.com/gonum/matrix/mat64"
	"github.com/soniakeys/meeus/julian"
)

// j2000 is the Julian Date of the J2000.0 epoch.
const j2000 = 2451545.0

const arcsec2rad = math.Pi / (180 * 3600)

// GMST returns the Greenwich Mean Sidereal Time in radians at the given UTC
// time, per the IAU-82 model (Vallado Eq. 3-47).
func GMST(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	tUT1 := (jd - j2000) / 36525

	// Seconds of time; 876600 h is 3155760000 s.
	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*tUT1 +
		0.093104*tUT1*tUT1 -
		6.2e-6*tUT1*tUT1*tUT1
	gmstSec = math.Mod(gmstSec, 86400)
	if gmstSec < 0 {
		gmstSec += 86400
	}
	return gmstSec / 86400 * 2 * math.Pi
}

// ECI2ITRS rotates an inertial (GCRF) position into the Earth-fixed ITRS
// frame by composing polar motion, Earth rotation corrected by UT1-UTC, and
// the nutation-corrected precession matrix.
func ECI2ITRS(position []float64, gmst float64, eop EOPData) []float64 {
	xp := eop.XPole * arcsec2rad
	yp := eop.YPole * arcsec2rad
	var polar mat64.Dense
	polar.Mul(R2(xp), R1(yp))

	θ := gmst + eop.DUT1*EarthRotationRate
	earthRot := R3(-θ)

	eps := 23.43929111 * math.Pi / 180
	ddpsi := eop.DDPsi * arcsec2rad
	ddeps := eop.DDEps * arcsec2rad
	var t1, precNut mat64.Dense
	t1.Mul(R1(eps+ddeps), R3(ddpsi))
	precNut.Mul(&t1, R1(-eps))

	var t2, full mat64.Dense
	t2.Mul(&polar, earthRot)
	full.Mul(&t2, &precNut)
	return MxV33(&full, position)
}

// ITRS2Geodetic converts an Earth-fixed position to WGS-84 geodetic
// longitude, latitude (both degrees) and altitude (meters) by fixed-point
// iteration on the latitude.
func ITRS2Geodetic(position []float64) (longitude, latitude, altitude float64) {
	x, y, z := position[0], position[1], position[2]
	b := WGS84A * (1 - WGS84F)
	e2 := 2*WGS84F - WGS84F*WGS84F
	p := math.Sqrt(x*x + y*y)

	// On or near the rotation axis the longitude is meaningless.
	if p < 1e-10 {
		latitude = math.Pi / 2
		if z < 0 {
			latitude = -math.Pi / 2
		}
		altitude = math.Max(math.Abs(z)-b, 0)
		return 0, latitude * 180 / math.Pi, altitude
	}

	longitude = math.Atan2(y, x)
	latitude = math.Atan2(z, p*(1-e2))
	for iter := 0; iter < 5; iter++ {
		sinLat := math.Sin(latitude)
		n := WGS84A / math.Sqrt(1-e2*sinLat*sinLat)
		h := p/math.Cos(latitude) - n
		prev := latitude
		latitude = math.Atan2(z/p, 1-e2*n/(n+h))
		if math.Abs(latitude-prev) < 1e-12 {
			break
		}
	}
	sinLat := math.Sin(latitude)
	n := WGS84A / math.Sqrt(1-e2*sinLat*sinLat)
	altitude = math.Max(p/math.Cos(latitude)-n, 0)
	return longitude * 180 / math.Pi, latitude * 180 / math.Pi, altitude
}
