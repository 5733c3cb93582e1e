package dynamo

import "math"

// Dt is the fixed logical timestep of the rig in seconds.
const Dt = 0.01

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

// Sample is the observable state of the rig after one tick.
type Sample struct {
	Time          float64 `json:"time"`
	Displacement  float64 `json:"displacement"`
	Velocity      float64 `json:"velocity"`
	Friction      float64 `json:"friction"`
	EnergyLoss    float64 `json:"energy_loss"`
	Temperature   float64 `json:"temperature"`
	Stress        float64 `json:"stress"`
	MagneticField float64 `json:"magnetic_field"`
	ControlForce  float64 `json:"control_force"`
}

func (s Sample) IsValid() bool {
	return State{s.Displacement, s.Velocity, s.Friction, s.EnergyLoss,
		s.Temperature, s.Stress, s.MagneticField, s.ControlForce}.IsValid()
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last sample, or the zero sample for an empty result.
func (r *Result) Final() Sample {
	if r == nil || len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Clamp bounds v to [min, max]. NaN and infinities are substituted with min.
func Clamp(v, min, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return min
	}
	return math.Max(min, math.Min(max, v))
}
