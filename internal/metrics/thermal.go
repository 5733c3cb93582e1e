package metrics

import (
	"math"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// EnergyLoss reports the cumulative energy loss at the last observed tick.
type EnergyLoss struct {
	name string
	last float64
}

func NewEnergyLoss() *EnergyLoss {
	return &EnergyLoss{name: "energy_loss"}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s dynamo.Sample) {
	e.last = s.EnergyLoss
}

func (e *EnergyLoss) Value() float64 { return e.last }

func (e *EnergyLoss) Reset() { e.last = 0 }

// PeakTemperature tracks the hottest bearing temperature seen.
type PeakTemperature struct {
	name string
	peak float64
	seen bool
}

func NewPeakTemperature() *PeakTemperature {
	return &PeakTemperature{name: "peak_temperature"}
}

func (p *PeakTemperature) Name() string { return p.name }

func (p *PeakTemperature) Observe(s dynamo.Sample) {
	if !p.seen {
		p.peak = s.Temperature
		p.seen = true
		return
	}
	p.peak = math.Max(p.peak, s.Temperature)
}

func (p *PeakTemperature) Value() float64 { return p.peak }

func (p *PeakTemperature) Reset() {
	p.peak = 0
	p.seen = false
}

// Defaults returns the metric set attached to every rig run.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyLoss(),
		NewPeakTemperature(),
		NewControlEffort(),
		NewStability(0.005),
	}
}
