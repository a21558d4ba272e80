package kosmoss

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestGMSTJ2000(t *testing.T) {
	// At the J2000.0 epoch GMST is 280.4606°.
	got := GMST(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)) * 180 / math.Pi
	if !floats.EqualWithinAbs(got, 280.4606, 1e-3) {
		t.Fatalf("GMST at J2000 fail: %f", got)
	}
}

func TestGMSTRange(t *testing.T) {
	for _, dt := range []time.Time{
		time.Date(1995, 6, 1, 3, 30, 0, 0, time.UTC),
		time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC),
		time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	} {
		θ := GMST(dt)
		if θ < 0 || θ >= 2*math.Pi {
			t.Fatalf("GMST out of range at %s: %f", dt, θ)
		}
	}
}

func TestECI2ITRSIdentityCase(t *testing.T) {
	// With zeroed orientation parameters and a zero GMST the transform
	// collapses to the identity.
	pos := []float64{REarth + 400e3, 1000, -2000}
	got := ECI2ITRS(pos, 0, EOPData{})
	if !vectorsEqual(got, pos) {
		t.Fatalf("identity case fail: %+v", got)
	}
}

func TestECI2ITRSPreservesNorm(t *testing.T) {
	pos := []float64{REarth + 400e3, -350e3, 120e3}
	for _, gmst := range []float64{0, 1.1, 3.7, 6.0} {
		got := ECI2ITRS(pos, gmst, DefaultEOPData())
		if !floats.EqualWithinRel(Norm(got), Norm(pos), 1e-12) {
			t.Fatalf("rotation changed the norm at gmst %f", gmst)
		}
	}
}

func TestITRS2Geodetic(t *testing.T) {
	// A point on the equator at the reference ellipsoid.
	lon, lat, alt := ITRS2Geodetic([]float64{WGS84A, 0, 0})
	if !floats.EqualWithinAbs(lon, 0, 1e-9) || !floats.EqualWithinAbs(lat, 0, 1e-9) {
		t.Fatalf("equator point fail: lon=%f lat=%f", lon, lat)
	}
	if !floats.EqualWithinAbs(alt, 0, 1e-3) {
		t.Fatalf("equator altitude fail: %f", alt)
	}

	// 1 km above the equator at 90° east.
	lon, lat, alt = ITRS2Geodetic([]float64{0, WGS84A + 1000, 0})
	if !floats.EqualWithinAbs(lon, 90, 1e-9) || !floats.EqualWithinAbs(lat, 0, 1e-9) {
		t.Fatalf("east point fail: lon=%f lat=%f", lon, lat)
	}
	if !floats.EqualWithinAbs(alt, 1000, 1e-3) {
		t.Fatalf("east altitude fail: %f", alt)
	}

	// On the rotation axis the longitude degenerates and the latitude is
	// polar.
	b := WGS84A * (1 - WGS84F)
	lon, lat, alt = ITRS2Geodetic([]float64{0, 0, -(b + 500)})
	if lon != 0 || !floats.EqualWithinAbs(lat, -90, 1e-9) {
		t.Fatalf("pole fail: lon=%f lat=%f", lon, lat)
	}
	if !floats.EqualWithinAbs(alt, 500, 1e-6) {
		t.Fatalf("pole altitude fail: %f", alt)
	}
}
