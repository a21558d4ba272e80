package main

import (
	"fmt"
	"math"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/cobra"

	kosmoss "github.com/Kosmos-Industries/KosmOSS"
)

var (
	configFile string
	altitude   float64
	tumbleRate float64
	duration   float64
	step       float64
	maneuverAt float64
	targetAlt  float64
	noCSV      bool
	dsn        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kosmoss",
		Short: "rigid-body spacecraft propagation with mode governance",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "propagate a mission",
		RunE:  runMission,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "TOML configuration file")
	runCmd.Flags().Float64Var(&altitude, "altitude", 400e3, "initial circular orbit altitude (m)")
	runCmd.Flags().Float64Var(&tumbleRate, "tumble", 0.05, "initial body rate about each axis (rad/s)")
	runCmd.Flags().Float64Var(&duration, "time", 5600, "propagation duration (s)")
	runCmd.Flags().Float64Var(&step, "dt", 0.1, "integration step (s)")
	runCmd.Flags().Float64Var(&maneuverAt, "maneuver-at", -1, "MET of the maneuver command (s), negative for none")
	runCmd.Flags().Float64Var(&targetAlt, "target-altitude", 500e3, "apogee altitude targeted by the maneuver (m)")
	runCmd.Flags().BoolVar(&noCSV, "no-csv", false, "disable telemetry export")
	runCmd.Flags().BoolVar(&dsn, "dsn", false, "annotate telemetry with DSN station tracking")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMission(cmd *cobra.Command, args []string) error {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	cfg := kosmoss.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = kosmoss.LoadConfig(configFile); err != nil {
			return err
		}
	} else {
		cfg.Mission.Duration = duration
		cfg.Mission.Step = step
		cfg.Mission.ManeuverAt = maneuverAt
		cfg.Mission.DSN = dsn
		cfg.Export.AsCSV = !noCSV
		if maneuverAt >= 0 {
			cfg.Guidance = kosmoss.GuidanceConfig{
				Enabled:      true,
				TargetRadius: kosmoss.REarth + targetAlt,
				Apsis:        kosmoss.Apogee,
				StartTime:    maneuverAt,
			}
		}
	}

	sc, err := cfg.SpacecraftVariant()
	if err != nil {
		return err
	}
	inertia := kosmoss.SimpleSat{}.Inertia()
	if custom, ok := sc.(*kosmoss.CustomSat); ok {
		inertia = custom.Inertia()
	}

	r := kosmoss.REarth + altitude
	R, V := kosmoss.KeplerianToCartesian(r, 0, 51.6*math.Pi/180, 0, 0, 0)
	w := []float64{tumbleRate, -tumbleRate, tumbleRate / 2}
	start := time.Now().UTC()
	initial := kosmoss.NewState(sc, inertia, R, V, kosmoss.IdentityQuaternion(), w, start)

	gov := kosmoss.NewGovernor(cfg.Governor, kitlog.With(logger, "subsys", "governor"))
	ctrl := kosmoss.NewAttitudeController(cfg.Control.Kp, cfg.Control.Kd, inertia)
	var guidance *kosmoss.ApsisTargeting
	if cfg.Guidance.Enabled {
		g := kosmoss.NewApsisTargeting(cfg.Guidance.TargetRadius, cfg.Guidance.Apsis, cfg.Guidance.StartTime)
		guidance = &g
	}

	mission := kosmoss.NewMission(sc, initial, start, cfg.Mission.Duration, cfg.Mission.Step,
		gov, ctrl, guidance, cfg.Mission.ManeuverAt, cfg.Export, logger)
	mission.EOP = kosmoss.NewEOPCache(cfg.EOPPath, kitlog.With(logger, "subsys", "eop"))
	if cfg.Mission.DSN {
		mission.Stations = []kosmoss.Station{kosmoss.DSS34Canberra, kosmoss.DSS65Madrid, kosmoss.DSS13Goldstone}
	}
	if cfg.Mission.SampleEvery > 0 {
		mission.SampleEvery = cfg.Mission.SampleEvery
	}
	mission.RenormEvery = cfg.Mission.RenormEvery

	mission.Propagate()
	return nil
}
