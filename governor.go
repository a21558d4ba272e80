package kosmoss

import (
	"github.com/go-kit/kit/log"
)

// Mode denotes the operating mode of the spacecraft.
type Mode uint8

const (
	// SafeMode is the passive power-positive mode the vehicle boots into.
	SafeMode Mode = iota
	// Detumbling actively damps the body rates after separation or an upset.
	Detumbling
	// NominalOperation is the standard mission mode with attitude control.
	NominalOperation
	// ManeuverPrep holds the vehicle steady before a commanded burn.
	ManeuverPrep
	// Maneuvering is the only mode in which thrust may be applied.
	Maneuvering
	// Emergency suppresses all control until the vehicle settles.
	Emergency
)

// String implements the Stringer interface.
func (m Mode) String() string {
	switch m {
	case SafeMode:
		return "Safe Mode"
	case Detumbling:
		return "Detumbling"
	case NominalOperation:
		return "Nominal Operation"
	case ManeuverPrep:
		return "Maneuver Prep"
	case Maneuvering:
		return "Maneuvering"
	case Emergency:
		return "Emergency"
	default:
		panic("unknown mode")
	}
}

// GovernorConfig holds the mode transition thresholds and dwell times. All
// rates in rad/s, all times in seconds of mission elapsed time.
type GovernorConfig struct {
	DetumbledRate     float64 // below this, the vehicle counts as settled
	EmergencyRate     float64 // above this, the vehicle tumbles into Emergency
	ManeuverPrepDwell float64 // minimum hold in ManeuverPrep before a burn
	EmergencyDwell    float64 // minimum hold in Emergency before safing
	NoticePeriod      float64 // rate limit on command rejection notices
}

// DefaultGovernorConfig returns the flight thresholds.
func DefaultGovernorConfig() GovernorConfig {
	return GovernorConfig{
		DetumbledRate:     0.01,
		EmergencyRate:     0.5,
		ManeuverPrepDwell: 5,
		EmergencyDwell:    30,
		NoticePeriod:      10,
	}
}

// Governor is the spacecraft mode state machine. It observes the angular rate
// magnitude and the mission clock, and gates whether control torque and thrust
// may be applied. One governor instance owns one vehicle's mode; it is not
// safe for concurrent evaluation, but distinct governors are independent.
type Governor struct {
	cfg             GovernorConfig
	mode            Mode
	lastStateChange float64
	lastNotice      float64
	logger          log.Logger
}

// NewGovernor returns a governor in SafeMode.
func NewGovernor(cfg GovernorConfig, logger log.Logger) *Governor {
	return &Governor{
		cfg:  cfg,
		mode: SafeMode,
		// Allows the very first rejection to be logged.
		lastNotice: -cfg.NoticePeriod,
		logger:     logger,
	}
}

// Mode returns the current operating mode.
func (g *Governor) Mode() Mode {
	return g.mode
}

// LastStateChange returns the mission elapsed time of the latest transition.
func (g *Governor) LastStateChange() float64 {
	return g.lastStateChange
}

// TimeInMode returns how long the governor has dwelt in the current mode.
func (g *Governor) TimeInMode(t float64) float64 {
	return t - g.lastStateChange
}

// Evaluate advances the state machine given the angular rate magnitude ω
// (rad/s) and the mission elapsed time t (s). It returns the mode in effect
// after evaluation.
func (g *Governor) Evaluate(ω, t float64) Mode {
	dwell := t - g.lastStateChange
	switch g.mode {
	case SafeMode:
		if ω > g.cfg.DetumbledRate {
			g.transition(Detumbling, t)
		}
	case Detumbling:
		if ω < g.cfg.DetumbledRate {
			g.transition(NominalOperation, t)
		}
	case NominalOperation:
		if ω > g.cfg.EmergencyRate {
			g.transition(Emergency, t)
		}
	case ManeuverPrep:
		if ω < g.cfg.DetumbledRate && dwell > g.cfg.ManeuverPrepDwell {
			g.transition(Maneuvering, t)
		}
	case Maneuvering:
		if ω > g.cfg.EmergencyRate {
			g.transition(Emergency, t)
		}
	case Emergency:
		if ω < g.cfg.DetumbledRate && dwell > g.cfg.EmergencyDwell {
			g.transition(SafeMode, t)
		}
	}
	return g.mode
}

// CommandManeuver requests a transition to ManeuverPrep. The command is only
// honored from NominalOperation; otherwise it is a no-op and a rate-limited
// notice is logged.
func (g *Governor) CommandManeuver(t float64) bool {
	if g.mode != NominalOperation {
		if t-g.lastNotice >= g.cfg.NoticePeriod {
			g.logger.Log("level", "info", "subsys", "governor", "msg", "maneuver command rejected", "mode", g.mode, "met", t)
			g.lastNotice = t
		}
		return false
	}
	g.transition(ManeuverPrep, t)
	return true
}

// ShouldApplyControl reports whether attitude control torque may be applied.
// Control is suppressed in the passive modes, SafeMode and Emergency.
func (g *Governor) ShouldApplyControl() bool {
	return g.mode != SafeMode && g.mode != Emergency
}

// ShouldApplyThrust reports whether guidance thrust may be applied.
func (g *Governor) ShouldApplyThrust() bool {
	return g.mode == Maneuvering
}

func (g *Governor) transition(to Mode, t float64) {
	g.logger.Log("level", "notice", "subsys", "governor", "from", g.mode, "to", to, "met", t)
	g.mode = to
	g.lastStateChange = t
}
