package kosmoss

import (
	"math"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

func tumblingMission(duration, maneuverAt float64, guidance *ApsisTargeting) *Mission {
	sc := SimpleSat{}
	r := REarth + 400e3
	R, V := KeplerianToCartesian(r, 0, 51.6*math.Pi/180, 0, 0, 0)
	initial := NewState(sc, sc.Inertia(), R, V, IdentityQuaternion(), []float64{0.05, -0.05, 0.02},
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	logger := log.NewNopLogger()
	gov := NewGovernor(DefaultGovernorConfig(), logger)
	ctrl := NewAttitudeController(0.5, 2.0, sc.Inertia())
	return NewMission(sc, initial, initial.Epoch, duration, 0.1, gov, ctrl, guidance, maneuverAt, ExportConfig{}, logger)
}

func TestMissionPropagates(t *testing.T) {
	m := tumblingMission(30, -1, nil)
	e0 := Energy(m.State)
	m.Propagate()

	if !floats.EqualWithinAbs(m.State.MET, 30, 1e-9) {
		t.Fatalf("MET fail: %f", m.State.MET)
	}
	if d := m.State.Epoch.Sub(m.StartDT.Add(30 * time.Second)); d < -time.Millisecond || d > time.Millisecond {
		t.Fatalf("epoch fail: %s", m.State.Epoch)
	}
	// The initial tumble exceeds the detumbled rate, so the vehicle leaves
	// SafeMode on the first evaluation.
	if m.Governor.Mode() == SafeMode {
		t.Fatal("governor must have left SafeMode")
	}
	// Thirty seconds of control torque barely touch the orbital energy.
	if math.Abs((Energy(m.State)-e0)/e0) > 1e-6 {
		t.Fatal("orbital energy diverged")
	}
	// The quaternion drifts but stays near unit norm over a short run.
	if math.Abs(1-m.State.Q.Norm()) > 1e-6 {
		t.Fatalf("quaternion norm fail: %f", m.State.Q.Norm())
	}
}

func TestMissionDetumbles(t *testing.T) {
	m := tumblingMission(240, -1, nil)
	ω0 := m.State.RateNorm()
	m.Propagate()
	if m.State.RateNorm() >= ω0 {
		t.Fatalf("controller failed to damp the tumble: %f -> %f", ω0, m.State.RateNorm())
	}
}

func TestMissionRenormalization(t *testing.T) {
	m := tumblingMission(60, -1, nil)
	m.RenormEvery = 10
	m.Propagate()
	if math.Abs(1-m.State.Q.Norm()) > 1e-12 {
		t.Fatalf("renormalization fail: %g", math.Abs(1-m.State.Q.Norm()))
	}
}

func TestMissionSamplesBurnArcs(t *testing.T) {
	// Elliptical orbit starting at perigee, targeting a higher apogee. With
	// the stride effectively disabled, every telemetry row after the initial
	// one must come from a burn step.
	rP := REarth + 400e3
	rA := REarth + 600e3
	a, e := Radii2ae(rA, rP)
	R, V := KeplerianToCartesian(a, e, 0, 0, 0, 0)
	sc := SimpleSat{}
	initial := NewState(sc, sc.Inertia(), R, V, IdentityQuaternion(), []float64{0.02, 0, 0},
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	logger := log.NewNopLogger()
	gov := NewGovernor(DefaultGovernorConfig(), logger)
	ctrl := NewAttitudeController(0.5, 2.0, sc.Inertia())
	g := NewApsisTargeting(REarth+700e3, Apogee, 0)

	var samples []Sample
	conf := ExportConfig{
		Filename:     "burn",
		OutputDir:    t.TempDir(),
		AsCSV:        true,
		CSVAppend:    func(s Sample) string { samples = append(samples, s); return "0" },
		CSVAppendHdr: func() string { return "extra" },
	}
	m := NewMission(sc, initial, initial.Epoch, 12, 0.1, gov, ctrl, &g, 0.5, conf, logger)
	m.SampleEvery = 1 << 20
	m.Propagate()

	if len(samples) < 2 {
		t.Fatalf("expected burn samples beyond the initial row, got %d", len(samples))
	}
	// The state is recorded before the step it feeds.
	if samples[0].MET != 0 {
		t.Fatalf("first sample must be the initial state, got MET=%f", samples[0].MET)
	}
	for _, s := range samples[1:] {
		if Norm(s.ThrustForce) == 0 {
			t.Fatalf("off-stride sample without a burn at MET=%f", s.MET)
		}
		if s.Mode != Maneuvering {
			t.Fatalf("burn sample outside Maneuvering at MET=%f: %s", s.MET, s.Mode)
		}
	}
}

func TestMissionStationAnnotation(t *testing.T) {
	epoch := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	θ := GMST(epoch)
	st := NewStation("overhead", 0, 10, 0, 0, σρ, σρDot)
	// Vehicle straight above the station in ECEF, expressed inertially.
	R := ECEF2ECI([]float64{REarth + 500e3, 0, 0}, θ)
	sc := SimpleSat{}
	s := NewState(sc, sc.Inertia(), R, []float64{0, 7600, 0}, IdentityQuaternion(),
		[]float64{0, 0, 0}, epoch)

	m := tumblingMission(10, -1, nil)
	m.State = s
	m.Stations = []Station{st}
	m.e0 = Energy(s)
	m.h0 = Norm(AngularMomentum(s))

	smp := m.sample(nil, nil)
	if smp.Station != "overhead" {
		t.Fatalf("visible pass not annotated: %q", smp.Station)
	}
	if math.Abs(smp.Range-500e3) > 10*math.Sqrt(σρ) {
		t.Fatalf("annotated range implausible: %f", smp.Range)
	}

	// Out of sight, the annotation stays empty.
	m.State.R = ECEF2ECI([]float64{-(REarth + 500e3), 0, 0}, θ)
	smp = m.sample(nil, nil)
	if smp.Station != "" || smp.Range != 0 {
		t.Fatalf("hidden pass must not be annotated: %q %f", smp.Station, smp.Range)
	}
}

func TestMissionGuardsQuaternion(t *testing.T) {
	m := tumblingMission(10, -1, nil)
	s := m.State
	s.Q = NewQuaternion(math.NaN(), 0, 0, 0)
	defer func() {
		if recover() == nil {
			t.Fatal("a non-finite quaternion must trip the guard")
		}
	}()
	m.guard(s)
}

func TestMissionStop(t *testing.T) {
	m := tumblingMission(3600, -1, nil)
	m.StopPropagation() // queued before the loop starts
	m.Propagate()
	if m.State.MET > 1 {
		t.Fatalf("stop ignored, MET=%f", m.State.MET)
	}
}
