package kosmoss

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config gathers every tunable of a simulation run. It is loaded explicitly
// from a TOML file; there is no process-wide configuration state, so
// concurrent runs with distinct configs do not interfere.
type Config struct {
	Spacecraft SpacecraftConfig
	Control    ControlConfig
	Governor   GovernorConfig
	Guidance   GuidanceConfig
	Mission    MissionConfig
	EOPPath    string
	Export     ExportConfig
}

// SpacecraftConfig selects the vehicle variant.
type SpacecraftConfig struct {
	Variant string  // "simple" or "custom"
	Mass    float64 // kg, custom variant only
	Cd      float64
	Area    float64   // m²
	Inertia []float64 // row-major 3x3, kg·m²
}

// ControlConfig holds the attitude controller gains.
type ControlConfig struct {
	Kp, Kd float64
}

// GuidanceConfig parameterizes the apsis targeting law.
type GuidanceConfig struct {
	Enabled      bool
	TargetRadius float64 // m
	Apsis        Apsis
	StartTime    float64 // s MET
}

// MissionConfig holds the propagation loop parameters.
type MissionConfig struct {
	Duration    float64 // s
	Step        float64 // s
	SampleEvery int
	RenormEvery int
	ManeuverAt  float64 // s MET, negative for none
	DSN         bool    // annotate samples with the deep space network stations
}

// DefaultConfig returns a runnable configuration: a SimpleSat in a 400 km
// circular orbit profile, one orbit of propagation, no maneuver.
func DefaultConfig() Config {
	return Config{
		Spacecraft: SpacecraftConfig{Variant: "simple"},
		Control:    ControlConfig{Kp: 0.5, Kd: 2.0},
		Governor:   DefaultGovernorConfig(),
		Guidance:   GuidanceConfig{Enabled: false},
		Mission:    MissionConfig{Duration: 5600, Step: 0.1, SampleEvery: 100, ManeuverAt: -1},
		EOPPath:    "EOP-All.csv",
		Export:     ExportConfig{Filename: "mission", AsCSV: true},
	}
}

// LoadConfig reads a TOML configuration file. Missing keys take the defaults
// of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.Wrapf(err, "reading %s", path)
	}

	setF := func(key string, dst *float64) {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	setI := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	setS := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setB := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	setS("spacecraft.variant", &cfg.Spacecraft.Variant)
	setF("spacecraft.mass", &cfg.Spacecraft.Mass)
	setF("spacecraft.cd", &cfg.Spacecraft.Cd)
	setF("spacecraft.area", &cfg.Spacecraft.Area)
	if v.IsSet("spacecraft.inertia") {
		raw := v.Get("spacecraft.inertia").([]interface{})
		if len(raw) != 9 {
			return cfg, errors.New("spacecraft.inertia must hold nine row-major values")
		}
		cfg.Spacecraft.Inertia = make([]float64, 9)
		for i, val := range raw {
			cfg.Spacecraft.Inertia[i] = cast2float(val)
		}
	}

	setF("control.kp", &cfg.Control.Kp)
	setF("control.kd", &cfg.Control.Kd)

	setF("governor.detumbled_rate", &cfg.Governor.DetumbledRate)
	setF("governor.emergency_rate", &cfg.Governor.EmergencyRate)
	setF("governor.maneuver_prep_dwell", &cfg.Governor.ManeuverPrepDwell)
	setF("governor.emergency_dwell", &cfg.Governor.EmergencyDwell)
	setF("governor.notice_period", &cfg.Governor.NoticePeriod)

	setB("guidance.enabled", &cfg.Guidance.Enabled)
	setF("guidance.target_radius", &cfg.Guidance.TargetRadius)
	setF("guidance.start_time", &cfg.Guidance.StartTime)
	if v.IsSet("guidance.apsis") {
		switch strings.ToLower(v.GetString("guidance.apsis")) {
		case "perigee":
			cfg.Guidance.Apsis = Perigee
		case "apogee":
			cfg.Guidance.Apsis = Apogee
		default:
			return cfg, errors.Errorf("unknown apsis %q", v.GetString("guidance.apsis"))
		}
	}

	setF("mission.duration", &cfg.Mission.Duration)
	setF("mission.step", &cfg.Mission.Step)
	setI("mission.sample_every", &cfg.Mission.SampleEvery)
	setI("mission.renorm_every", &cfg.Mission.RenormEvery)
	setF("mission.maneuver_at", &cfg.Mission.ManeuverAt)
	setB("mission.dsn", &cfg.Mission.DSN)

	setS("eop.path", &cfg.EOPPath)

	setS("export.filename", &cfg.Export.Filename)
	setS("export.output_path", &cfg.Export.OutputDir)
	setB("export.csv", &cfg.Export.AsCSV)
	setB("export.timestamp", &cfg.Export.Timestamp)

	return cfg, nil
}

// SpacecraftVariant builds the configured vehicle variant.
func (c Config) SpacecraftVariant() (SpacecraftProperties, error) {
	switch c.Spacecraft.Variant {
	case "", "simple":
		return SimpleSat{}, nil
	case "custom":
		if len(c.Spacecraft.Inertia) != 9 {
			return nil, errors.New("custom spacecraft requires a nine-value inertia tensor")
		}
		return NewCustomSat("custom", c.Spacecraft.Mass, c.Spacecraft.Cd, c.Spacecraft.Area, c.Spacecraft.Inertia), nil
	default:
		return nil, errors.Errorf("unknown spacecraft variant %q", c.Spacecraft.Variant)
	}
}

func cast2float(val interface{}) float64 {
	switch x := val.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	default:
		panic("inertia values must be numeric")
	}
}
