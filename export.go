package kosmoss

import (
	"fmt"
	"os"
	"time"
)

// ExportConfig configures the telemetry export of a mission run.
type ExportConfig struct {
	Filename     string
	OutputDir    string
	AsCSV        bool
	Timestamp    bool
	CSVAppend    func(s Sample) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string         // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

// Sample is one flat telemetry record of the propagation loop.
type Sample struct {
	Epoch           time.Time
	MET             float64
	State           State
	Longitude       float64 // deg
	Latitude        float64 // deg
	GeodeticAlt     float64 // m
	EnergyDrift     float64 // relative
	MomentumDrift   float64 // relative
	ControlTorque   []float64
	ThrustForce     []float64
	Mode            Mode
	TimeInMode      float64
	QuaternionDrift float64 // |1 - |q||
	Station         string  // tracking station name, empty when not visible
	Range           float64 // m
	RangeRate       float64 // m/s
}

// CSV returns the comma separated representation of this sample.
func (s Sample) CSV() string {
	q := s.State.Q
	row := fmt.Sprintf("%f,%f,%f,%f,%f,%f,%f", s.MET,
		s.State.R[0], s.State.R[1], s.State.R[2],
		s.State.V[0], s.State.V[1], s.State.V[2])
	row += fmt.Sprintf(",%f,%f,%f,%f", q.W, q.X, q.Y, q.Z)
	row += fmt.Sprintf(",%f,%f,%f", s.State.W[0], s.State.W[1], s.State.W[2])
	row += fmt.Sprintf(",%f,%f,%f,%f", s.State.FuelMass, s.Longitude, s.Latitude, s.GeodeticAlt)
	row += fmt.Sprintf(",%e,%e,%e", s.EnergyDrift, s.MomentumDrift, s.QuaternionDrift)
	row += fmt.Sprintf(",%f,%f,%f", s.ControlTorque[0], s.ControlTorque[1], s.ControlTorque[2])
	row += fmt.Sprintf(",%f,%f,%f", s.ThrustForce[0], s.ThrustForce[1], s.ThrustForce[2])
	row += fmt.Sprintf(",%s,%f", s.Mode, s.TimeInMode)
	row += fmt.Sprintf(",%s,%f,%f", s.Station, s.Range, s.RangeRate)
	return row
}

const sampleCSVHdr = "met,x,y,z,vx,vy,vz,qw,qx,qy,qz,wx,wy,wz,fuel,lon,lat,alt,energyDrift,momentumDrift,qDrift,tx,ty,tz,fx,fy,fz,mode,timeInMode,station,range,rangeRate"

// StreamSamples consumes the sample channel and writes one CSV row per
// sample. It returns when the channel is closed and the file is flushed.
// Run it as a goroutine alongside the propagation.
func StreamSamples(conf ExportConfig, sampleChan <-chan Sample) {
	if conf.IsUseless() {
		for range sampleChan {
		}
		return
	}
	f := createCSVFile(conf)
	defer f.Close()
	for sample := range sampleChan {
		f.WriteString("\n" + sample.CSV())
		if conf.CSVAppend != nil {
			f.WriteString("," + conf.CSVAppend(sample))
		}
	}
}

func createCSVFile(conf ExportConfig) *os.File {
	name := conf.Filename
	if conf.Timestamp {
		name += time.Now().Format("-2006-01-02-15.04.05")
	}
	dir := conf.OutputDir
	if dir == "" {
		dir = "."
	}
	f, err := os.Create(fmt.Sprintf("%s/prop-%s.csv", dir, name))
	if err != nil {
		panic(err)
	}
	fmt.Printf("Saving file to %s.\n", f.Name())
	hdr := sampleCSVHdr
	if conf.CSVAppendHdr != nil {
		hdr += "," + conf.CSVAppendHdr()
	}
	f.WriteString(hdr)
	return f
}
