package kosmoss

import "math"

const (
	// SeaLevelDensity is the atmospheric density at sea level (kg/m³).
	SeaLevelDensity = 1.225
	// ScaleHeight is the exponential atmosphere scale height (m).
	ScaleHeight = 7200.0
	// SolarFlux is the solar irradiance at 1 AU (W/m²).
	SolarFlux = 1361.0
	// earthDipoleMoment is the Earth's magnetic dipole moment (A·m²).
	earthDipoleMoment = 7.94e22
)

// Environment is the black-box environment model evaluated at a position:
// exponential atmosphere, dipole magnetic field and solar flux.
type Environment struct {
	Altitude      float64   // m above mean radius
	Density       float64   // kg/m³
	MagneticField []float64 // T, simplified axial dipole
	SolarFlux     float64   // W/m²
}

// NewEnvironment evaluates the environment at the given inertial position.
func NewEnvironment(position []float64) Environment {
	r := Norm(position)
	altitude := r - REarth
	density := SeaLevelDensity * math.Exp(-altitude/ScaleHeight)
	b0 := (VacuumPermeability * earthDipoleMoment) / (4 * math.Pi * r * r * r)
	return Environment{
		Altitude:      altitude,
		Density:       density,
		MagneticField: []float64{0, 0, 2 * b0},
		SolarFlux:     SolarFlux,
	}
}
