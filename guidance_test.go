package kosmoss

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestGuidanceBeforeStartTime(t *testing.T) {
	r := REarth + 400e3
	R, V := KeplerianToCartesian(r, 0, 0, 0, 0, 0)
	g := NewApsisTargeting(REarth+800e3, Apogee, 100)
	if f := g.DesiredForce(SimpleSat{}, R, V, 50); f != nil {
		t.Fatalf("no burn before the start time: %+v", f)
	}
}

func TestGuidanceOnTarget(t *testing.T) {
	// Circular orbit already at the target radius: both apsides are within
	// tolerance, no burn.
	r := REarth + 400e3
	R, V := KeplerianToCartesian(r, 0, 0, 0, 0, 0)
	g := NewApsisTargeting(r, Apogee, 0)
	if f := g.DesiredForce(SimpleSat{}, R, V, 10); f != nil {
		t.Fatalf("no burn when already on target: %+v", f)
	}
}

func TestGuidanceBurnsAtOppositeApsis(t *testing.T) {
	// Elliptical orbit, targeting a higher apogee: the burn happens at
	// perigee, along the velocity.
	rP := REarth + 400e3
	rA := REarth + 600e3
	a, e := Radii2ae(rA, rP)
	sc := SimpleSat{}
	g := NewApsisTargeting(REarth+700e3, Apogee, 0)

	// At perigee: prograde burn.
	R, V := KeplerianToCartesian(a, e, 0, 0, 0, 0)
	f := g.DesiredForce(sc, R, V, 10)
	if f == nil {
		t.Fatal("expected a burn at perigee")
	}
	vHat := Unit(V)
	if Dot(Unit(f), vHat) < 0.999999 {
		t.Fatalf("burn must be along the velocity: %+v", f)
	}
	// F = m·Δv with Δv from the vis-viva relation at the burn radius.
	r := Norm(R)
	vTarget := math.Sqrt(μEarth * (2/r - 2/(g.TargetRadius()+r)))
	expMag := sc.Mass() * (vTarget - Norm(V))
	if !floats.EqualWithinRel(Norm(f), expMag, 1e-9) {
		t.Fatalf("burn magnitude fail: %f != %f", Norm(f), expMag)
	}

	// Away from perigee there is no burn.
	R, V = KeplerianToCartesian(a, e, 0, 0, 0, math.Pi/2)
	if f := g.DesiredForce(sc, R, V, 10); f != nil {
		t.Fatalf("no burn away from the apsis: %+v", f)
	}
}

func TestGuidanceClampsDeltaV(t *testing.T) {
	// A very ambitious raise exceeds the per-call Δv bound and is clamped.
	rP := REarth + 400e3
	rA := REarth + 600e3
	a, e := Radii2ae(rA, rP)
	sc := SimpleSat{}
	g := NewApsisTargeting(REarth+5000e3, Apogee, 0)

	R, V := KeplerianToCartesian(a, e, 0, 0, 0, 0)
	f := g.DesiredForce(sc, R, V, 10)
	if f == nil {
		t.Fatal("expected a clamped burn")
	}
	if !floats.EqualWithinRel(Norm(f), sc.Mass()*maxBurnDv, 1e-12) {
		t.Fatalf("Δv clamp fail: %f", Norm(f)/sc.Mass())
	}
}

func TestGuidancePerigeeTargetBurnsAtApogee(t *testing.T) {
	rP := REarth + 400e3
	rA := REarth + 800e3
	a, e := Radii2ae(rA, rP)
	sc := SimpleSat{}
	g := NewApsisTargeting(REarth+500e3, Perigee, 0)

	// At apogee (ν = π): retrograde burn to lift perigee... or prograde,
	// depending on the target; here the target is above the current perigee
	// so the burn is prograde.
	R, V := KeplerianToCartesian(a, e, 0, 0, 0, math.Pi)
	f := g.DesiredForce(sc, R, V, 10)
	if f == nil {
		t.Fatal("expected a burn at apogee")
	}
	if Dot(Unit(f), Unit(V)) < 0.999999 {
		t.Fatalf("perigee raise must burn prograde at apogee: %+v", f)
	}
	// At perigee, the perigee-targeting law holds fire.
	R, V = KeplerianToCartesian(a, e, 0, 0, 0, 0)
	if f := g.DesiredForce(sc, R, V, 10); f != nil {
		t.Fatalf("no burn at the targeted apsis: %+v", f)
	}
}
