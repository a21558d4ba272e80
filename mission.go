package kosmoss

import (
	"math"
	"time"

	"github.com/go-kit/kit/log"
)

// collisionAltitude is the altitude below which the vehicle is considered
// lost (m).
const collisionAltitude = 0.0

// Mission propagates one spacecraft. The governor is evaluated before the
// controller and guidance each step, and their outputs feed the equations of
// motion of that step only.
type Mission struct {
	SC         SpacecraftProperties
	State      State
	StartDT    time.Time
	Duration   float64 // s
	Step       float64 // s
	Governor   *Governor
	Controller *AttitudeController
	Guidance   *ApsisTargeting
	ManeuverAt float64 // MET of the maneuver command, negative for none

	EOP         *EOPCache // nil disables geodetic annotation fetch, defaults are used
	Stations    []Station // ground stations annotating samples with tracking data
	SampleEvery int       // steps between telemetry samples
	RenormEvery int       // steps between quaternion renormalizations, 0 to disable

	logger     log.Logger
	sampleChan chan Sample
	doneChan   chan struct{}
	stopChan   chan bool
	commanded  bool
	e0, h0     float64
}

// NewMission returns a mission ready to propagate, streaming telemetry per
// the export config.
func NewMission(sc SpacecraftProperties, initial State, start time.Time, duration, step float64, gov *Governor, ctrl *AttitudeController, guidance *ApsisTargeting, maneuverAt float64, conf ExportConfig, logger log.Logger) *Mission {
	m := &Mission{
		SC:          sc,
		State:       initial,
		StartDT:     start,
		Duration:    duration,
		Step:        step,
		Governor:    gov,
		Controller:  ctrl,
		Guidance:    guidance,
		ManeuverAt:  maneuverAt,
		SampleEvery: 10,
		logger:      logger,
		stopChan:    make(chan bool, 1),
	}
	if !conf.IsUseless() {
		m.sampleChan = make(chan Sample, 1000)
		m.doneChan = make(chan struct{})
		go func() {
			StreamSamples(conf, m.sampleChan)
			close(m.doneChan)
		}()
	}
	return m
}

// LogStatus returns the current propagation status.
func (m *Mission) LogStatus() {
	m.logger.Log("level", "info", "subsys", "mission", "met", m.State.MET, "mode", m.Governor.Mode(), "altitude", m.State.Altitude())
}

// StopPropagation ends the propagation before its end time.
func (m *Mission) StopPropagation() {
	select {
	case m.stopChan <- true:
	default:
	}
}

// Propagate advances the state from MET zero to the mission duration, one
// fixed RK4 step at a time. It blocks until done and the telemetry stream is
// flushed.
func (m *Mission) Propagate() {
	m.e0 = Energy(m.State)
	m.h0 = Norm(AngularMomentum(m.State))
	m.LogStatus()

	steps := int(math.Ceil(m.Duration / m.Step))
propagation:
	for k := 0; k < steps; k++ {
		select {
		case <-m.stopChan:
			m.logger.Log("level", "notice", "subsys", "mission", "msg", "propagation stopped", "met", m.State.MET)
			break propagation
		default:
		}
		met := m.State.MET
		m.Governor.Evaluate(m.State.RateNorm(), met)
		if m.ManeuverAt >= 0 && !m.commanded && met >= m.ManeuverAt {
			m.commanded = m.Governor.CommandManeuver(met)
		}

		var torque, thrust []float64
		if m.Governor.ShouldApplyControl() {
			torque = m.Controller.ControlTorque(m.State.R, m.State.V, m.State.Q, m.State.W)
		}
		if m.Governor.ShouldApplyThrust() && m.Guidance != nil {
			thrust = m.Guidance.DesiredForce(m.SC, m.State.R, m.State.V, met)
		}

		// Sampled on the stride and on every burn step, pairing the state
		// with the inputs that were computed from it.
		if m.sampleChan != nil && (k%m.SampleEvery == 0 || thrust != nil) {
			m.sampleChan <- m.sample(torque, thrust)
		}

		rk4 := NewRK4[State](NewDynamics(thrust, torque))
		next := rk4.Step(m.State, m.Step)
		next.MET = met + m.Step
		next.Epoch = m.StartDT.Add(time.Duration(next.MET * float64(time.Second)))
		m.guard(next)
		m.State = next

		if m.RenormEvery > 0 && (k+1)%m.RenormEvery == 0 {
			m.State.Q = m.State.Q.Normalized()
		}
		if m.State.Altitude() < collisionAltitude {
			m.logger.Log("level", "crit", "subsys", "mission", "msg", "surface impact", "met", m.State.MET)
			break
		}
	}

	m.LogStatus()
	if m.sampleChan != nil {
		close(m.sampleChan)
		<-m.doneChan
	}
}

// guard panics on a non-finite state, which indicates a degenerate input the
// models cannot handle.
func (m *Mission) guard(s State) {
	q := s.Q
	for _, v := range [][]float64{s.R, s.V, s.W, {q.W, q.X, q.Y, q.Z}} {
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				panic("propagation diverged to a non-finite state")
			}
		}
	}
}

func (m *Mission) sample(torque, thrust []float64) Sample {
	if torque == nil {
		torque = []float64{0, 0, 0}
	}
	if thrust == nil {
		thrust = []float64{0, 0, 0}
	}
	eop := DefaultEOPData()
	if m.EOP != nil {
		if fresh, err := m.EOP.ForEpoch(m.State.Epoch); err == nil {
			eop = fresh
		} else {
			m.logger.Log("level", "warning", "subsys", "mission", "msg", "EOP lookup failed, using defaults", "err", err)
		}
	}
	θ := GMST(m.State.Epoch)
	itrs := ECI2ITRS(m.State.R, θ, eop)
	lon, lat, alt := ITRS2Geodetic(itrs)
	// First station with the vehicle above its elevation mask annotates the
	// sample with its tracking measurement.
	var station string
	var ρ, ρDot float64
	for _, st := range m.Stations {
		if meas := st.PerformMeasurement(θ, m.State); meas.Visible {
			station = st.Name
			ρ = meas.Range
			ρDot = meas.RangeRate
			break
		}
	}
	return Sample{
		Epoch:           m.State.Epoch,
		MET:             m.State.MET,
		State:           m.State,
		Longitude:       lon,
		Latitude:        lat,
		GeodeticAlt:     alt,
		EnergyDrift:     math.Abs((Energy(m.State) - m.e0) / m.e0),
		MomentumDrift:   math.Abs((Norm(AngularMomentum(m.State)) - m.h0) / m.h0),
		QuaternionDrift: math.Abs(1 - m.State.Q.Norm()),
		ControlTorque:   torque,
		ThrustForce:     thrust,
		Mode:            m.Governor.Mode(),
		TimeInMode:      m.Governor.TimeInMode(m.State.MET),
		Station:         station,
		Range:           ρ,
		RangeRate:       ρDot,
	}
}
