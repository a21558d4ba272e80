package kosmoss

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// SpacecraftProperties defines the capability consumed by the drag model and
// by guidance mass scaling.
type SpacecraftProperties interface {
	// Mass returns the total vehicle mass in kg.
	Mass() float64
	// DragCoefficient returns the dimensionless drag coefficient.
	DragCoefficient() float64
	// ReferenceArea returns the drag reference area in m².
	ReferenceArea() float64
}

// SimpleSat constants.
const (
	SimpleSatMass   = 100.0 // kg
	SimpleSatCd     = 2.2
	SimpleSatRadius = 1.0 // m
)

// SimpleSat is the built-in spherical demo spacecraft.
type SimpleSat struct{}

// Mass implements the SpacecraftProperties interface.
func (s SimpleSat) Mass() float64 {
	return SimpleSatMass
}

// DragCoefficient implements the SpacecraftProperties interface.
func (s SimpleSat) DragCoefficient() float64 {
	return SimpleSatCd
}

// ReferenceArea implements the SpacecraftProperties interface.
func (s SimpleSat) ReferenceArea() float64 {
	return math.Pi * SimpleSatRadius * SimpleSatRadius
}

// Inertia returns the inertia tensor of SimpleSat (kg·m²).
func (s SimpleSat) Inertia() *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
}

// CustomSat is a spacecraft variant built from configuration.
type CustomSat struct {
	Name    string
	mass    float64
	cd      float64
	area    float64
	inertia *mat64.Dense
}

// NewCustomSat returns a spacecraft variant with the given properties.
// The inertia slice is the row-major 3x3 tensor.
func NewCustomSat(name string, mass, cd, area float64, inertia []float64) *CustomSat {
	return &CustomSat{name, mass, cd, area, mat64.NewDense(3, 3, inertia)}
}

// Mass implements the SpacecraftProperties interface.
func (s *CustomSat) Mass() float64 {
	return s.mass
}

// DragCoefficient implements the SpacecraftProperties interface.
func (s *CustomSat) DragCoefficient() float64 {
	return s.cd
}

// ReferenceArea implements the SpacecraftProperties interface.
func (s *CustomSat) ReferenceArea() float64 {
	return s.area
}

// Inertia returns the inertia tensor of this variant.
func (s *CustomSat) Inertia() *mat64.Dense {
	return s.inertia
}
