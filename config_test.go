package kosmoss

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gonum/floats"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Governor.DetumbledRate != 0.01 || cfg.Governor.EmergencyRate != 0.5 {
		t.Fatal("default governor thresholds changed")
	}
	sc, err := cfg.SpacecraftVariant()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Mass() != SimpleSatMass {
		t.Fatal("default spacecraft must be the SimpleSat")
	}
}

func TestLoadConfig(t *testing.T) {
	toml := `
[spacecraft]
variant = "custom"
mass = 250.0
cd = 2.0
area = 4.0
inertia = [20.0, 0.0, 0.0, 0.0, 25.0, 0.0, 0.0, 0.0, 30.0]

[control]
kp = 1.5
kd = 4.0

[governor]
detumbled_rate = 0.02
emergency_dwell = 60.0

[guidance]
enabled = true
target_radius = 7000000.0
apsis = "apogee"
start_time = 120.0

[mission]
duration = 1000.0
step = 0.5
maneuver_at = 100.0

[export]
csv = false
`
	path := filepath.Join(t.TempDir(), "conf.toml")
	if err := os.WriteFile(path, []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	sc, err := cfg.SpacecraftVariant()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Mass() != 250 || sc.DragCoefficient() != 2.0 {
		t.Fatalf("custom spacecraft fail: %f %f", sc.Mass(), sc.DragCoefficient())
	}
	if cfg.Control.Kp != 1.5 || cfg.Control.Kd != 4.0 {
		t.Fatal("control gains fail")
	}
	if cfg.Governor.DetumbledRate != 0.02 || cfg.Governor.EmergencyDwell != 60 {
		t.Fatal("governor override fail")
	}
	// Unset keys keep their defaults.
	if cfg.Governor.EmergencyRate != 0.5 || cfg.Governor.NoticePeriod != 10 {
		t.Fatal("governor defaults lost")
	}
	if !cfg.Guidance.Enabled || cfg.Guidance.Apsis != Apogee {
		t.Fatal("guidance section fail")
	}
	if !floats.EqualWithinAbs(cfg.Guidance.TargetRadius, 7000e3, 1e-6) {
		t.Fatal("guidance radius fail")
	}
	if cfg.Mission.Duration != 1000 || cfg.Mission.Step != 0.5 || cfg.Mission.ManeuverAt != 100 {
		t.Fatal("mission section fail")
	}
	if cfg.Export.AsCSV {
		t.Fatal("export override fail")
	}
}

func TestLoadConfigRejectsBadApsis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.toml")
	if err := os.WriteFile(path, []byte("[guidance]\napsis = \"zenith\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("unknown apsis must be rejected")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/conf.toml"); err == nil {
		t.Fatal("missing file must error")
	}
}
