package kosmoss

import "math"

// Physical constants, SI units throughout (meters, kilograms, seconds).
const (
	// G is the universal gravitational constant (m³/kg/s²).
	G = 6.67430e-11
	// MEarth is the mass of the Earth (kg).
	MEarth = 5.972e24
	// REarth is the mean radius of the Earth (m).
	REarth = 6.371e6
	// μEarth is the Earth's standard gravitational parameter (m³/s²).
	μEarth = G * MEarth
	// EarthRotationRate is the Earth rotation rate (rad/s).
	EarthRotationRate = 7.2921150e-5
	// WGS84A is the WGS-84 semi-major axis (m).
	WGS84A = 6378137.0
	// WGS84F is the WGS-84 flattening.
	WGS84F = 1.0 / 298.257223563
	// VacuumPermeability is μ0 (N/A²).
	VacuumPermeability = 4 * math.Pi * 1e-7
)
