package kosmoss

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

const (
	r2d = 180 / math.Pi
	d2r = 1 / r2d
)

var (
	σρ    = math.Pow(5.0, 2)  // m
	σρDot = math.Pow(5e-3, 2) // m/s

	DSS34Canberra  = NewStation("DSS34Canberra", 691.750, 0, -35.398333, 148.981944, σρ, σρDot)
	DSS65Madrid    = NewStation("DSS65Madrid", 834.939, 0, 40.427222, 4.250556, σρ, σρDot)
	DSS13Goldstone = NewStation("DSS13Goldstone", 1071.14904, 0, 35.247164, 243.205, σρ, σρDot)
)

// GEO2ECEF converts a geodetic altitude (m), latitude and longitude (radians)
// to an ECEF position on a spherical Earth.
func GEO2ECEF(altitude, latitude, longitude float64) []float64 {
	sLong, cLong := math.Sincos(longitude)
	sLat, cLat := math.Sincos(latitude)
	r := altitude + REarth
	return []float64{r * cLat * cLong, r * cLat * sLong, r * sLat}
}

// ECI2ECEF converts the provided ECI vector to ECEF for the θgst given in radians.
func ECI2ECEF(R []float64, θgst float64) []float64 {
	return MxV33(R3(θgst), R)
}

// ECEF2ECI converts the provided ECEF vector to ECI for the θgst given in radians.
func ECEF2ECI(R []float64, θgst float64) []float64 {
	return ECI2ECEF(R, -θgst)
}

// Station defines a ground station tracking the vehicle.
type Station struct {
	Name                       string
	R, V                       []float64 // position and velocity in ECEF
	LatΦ, Longθ                float64   // these are stored in radians!
	Altitude, Elevation        float64
	RangeNoise, RangeRateNoise *distmv.Normal
}

// NewStation returns a new station. Angles in degrees, altitude in meters,
// noise variances in m² and (m/s)².
func NewStation(name string, altitude, elevation, latΦ, longθ, σρ, σρDot float64) Station {
	R := GEO2ECEF(altitude, latΦ*d2r, longθ*d2r)
	V := Cross([]float64{0, 0, EarthRotationRate}, R)
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	ρNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σρ}), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	ρDotNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σρDot}), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	return Station{name, R, V, latΦ * d2r, longθ * d2r, altitude, elevation, ρNoise, ρDotNoise}
}

// PerformMeasurement returns the range and range-rate measurement of the
// given state, including whether the vehicle is above the station's elevation
// mask.
func (s Station) PerformMeasurement(θgst float64, state State) Measurement {
	rECEF := ECI2ECEF(state.R, θgst)
	vECEF := ECI2ECEF(state.V, θgst)
	ρECEF, ρ, el, _ := s.RangeElAz(rECEF)
	vDiffECEF := make([]float64, 3)
	for i := 0; i < 3; i++ {
		vDiffECEF[i] = (vECEF[i] - s.V[i]) / ρ
	}
	ρDot := Dot(ρECEF, vDiffECEF)
	ρNoisy := ρ + s.RangeNoise.Rand(nil)[0]
	ρDotNoisy := ρDot + s.RangeRateNoise.Rand(nil)[0]
	return Measurement{el >= s.Elevation, ρNoisy, ρDotNoisy, ρ, ρDot, θgst, state, s}
}

// RangeElAz returns the range vector (in the SEZ frame), range, elevation and
// azimuth (in degrees) of a given R vector in ECEF.
func (s Station) RangeElAz(rECEF []float64) (ρECEF []float64, ρ, el, az float64) {
	ρECEF = make([]float64, 3)
	for i := 0; i < 3; i++ {
		ρECEF[i] = rECEF[i] - s.R[i]
	}
	ρ = Norm(ρECEF)
	rSEZ := MxV33(R3(s.Longθ), ρECEF)
	rSEZ = MxV33(R2(math.Pi/2-s.LatΦ), rSEZ)
	el = math.Asin(rSEZ[2]/ρ) * r2d
	az = (2*math.Pi + math.Atan2(rSEZ[1], -rSEZ[0])) * r2d
	return
}

func (s Station) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f m; el = %f deg", s.Name, s.LatΦ*r2d, s.Longθ*r2d, s.Altitude, s.Elevation)
}

// Measurement stores a measurement of a station.
type Measurement struct {
	Visible                  bool
	Range, RangeRate         float64
	TrueRange, TrueRangeRate float64
	Timeθgst                 float64
	State                    State
	Station                  Station
}

// CSV returns the comma separated representation of this measurement.
func (m Measurement) CSV() string {
	return fmt.Sprintf("%f,%f,%f,%f,", m.Timeθgst, m.State.MET, m.Range, m.RangeRate)
}

func (m Measurement) String() string {
	return fmt.Sprintf("%s@%f", m.Station.Name, m.Timeθgst)
}
