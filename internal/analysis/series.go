package analysis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// Fields lists the telemetry channels. Series also accepts "time".
var Fields = []string{
	"displacement", "velocity", "friction", "energy_loss",
	"temperature", "stress", "magnetic_field", "control_force",
}

func field(s dynamo.Sample, name string) (float64, bool) {
	switch name {
	case "time":
		return s.Time, true
	case "displacement":
		return s.Displacement, true
	case "velocity":
		return s.Velocity, true
	case "friction":
		return s.Friction, true
	case "energy_loss":
		return s.EnergyLoss, true
	case "temperature":
		return s.Temperature, true
	case "stress":
		return s.Stress, true
	case "magnetic_field":
		return s.MagneticField, true
	case "control_force":
		return s.ControlForce, true
	}
	return 0, false
}

// Series extracts one channel. Names are case-insensitive.
func Series(samples []dynamo.Sample, name string) ([]float64, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := field(dynamo.Sample{}, name); !ok {
		return nil, fmt.Errorf("unknown field %q (want time or one of %s)", name, strings.Join(Fields, ", "))
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i], _ = field(s, name)
	}
	return out, nil
}

type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	RMS  float64 `json:"rms"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Peak float64 `json:"peak"`
}

// Summarize returns descriptive statistics; an empty series gives the zero
// Summary.
func Summarize(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean: stat.Mean(x, nil),
		Min:  floats.Min(x),
		Max:  floats.Max(x),
		RMS:  floats.Norm(x, 2) / math.Sqrt(float64(len(x))),
	}
	if len(x) > 1 {
		s.Std = stat.StdDev(x, nil)
	}
	s.Peak = math.Max(math.Abs(s.Min), math.Abs(s.Max))
	return s
}

// Report summarises every channel of a run plus the displacement spectrum.
type Report struct {
	Samples           int                `json:"samples"`
	Duration          float64            `json:"duration"`
	Fields            map[string]Summary `json:"fields"`
	DominantFrequency float64            `json:"dominant_frequency_hz"`
	DominantAmplitude float64            `json:"dominant_amplitude"`
}

func Analyze(samples []dynamo.Sample, dt float64) Report {
	r := Report{
		Samples: len(samples),
		Fields:  make(map[string]Summary, len(Fields)),
	}
	if len(samples) == 0 {
		return r
	}
	r.Duration = samples[len(samples)-1].Time - samples[0].Time + dt

	for _, name := range Fields {
		x, _ := Series(samples, name)
		r.Fields[name] = Summarize(x)
	}
	x, _ := Series(samples, "displacement")
	r.DominantFrequency, r.DominantAmplitude = DominantFrequency(x, dt)
	return r
}
