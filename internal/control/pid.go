package control

import (
	"math"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// Gain limits and PID bounds.
const (
	MaxKp = 2000.0
	MaxKi = 50.0
	MaxKd = 100.0

	DefaultKp = 1000.0
	DefaultKi = 10.0
	DefaultKd = 50.0

	maxError      = 0.01
	windupBand    = 0.005
	maxIntegral   = 100.0
	maxDerivative = 100.0
	maxOutput     = 1000.0
)

// PID regulates a position toward a fixed setpoint at the rig timestep.
// When the error leaves the windup band the integral is discarded before the
// current step is accumulated.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Setpoint float64
	integral float64
	prevErr  float64
}

func NewPID(kp, ki, kd float64) *PID {
	p := &PID{}
	p.SetKp(kp)
	p.SetKi(ki)
	p.SetKd(kd)
	return p
}

// Compute returns the corrective force for position x.
func (p *PID) Compute(x float64) float64 {
	err := dynamo.Clamp(p.Setpoint-x, -maxError, maxError)
	if math.Abs(err) > windupBand {
		p.integral = 0
	}
	p.integral = dynamo.Clamp(p.integral+err*dynamo.Dt, -maxIntegral, maxIntegral)
	derivative := dynamo.Clamp((err-p.prevErr)/dynamo.Dt, -maxDerivative, maxDerivative)
	p.prevErr = err

	return dynamo.Clamp(p.Kp*err+p.Ki*p.integral+p.Kd*derivative, -maxOutput, maxOutput)
}

// SetKp clamps to [0, MaxKp]; NaN and Inf become 0.
func (p *PID) SetKp(v float64) { p.Kp = dynamo.Clamp(v, 0, MaxKp) }

// SetKi clamps to [0, MaxKi]; NaN and Inf become 0.
func (p *PID) SetKi(v float64) { p.Ki = dynamo.Clamp(v, 0, MaxKi) }

// SetKd clamps to [0, MaxKd]; NaN and Inf become 0.
func (p *PID) SetKd(v float64) { p.Kd = dynamo.Clamp(v, 0, MaxKd) }

func (p *PID) Integral() float64      { return p.integral }
func (p *PID) PreviousError() float64 { return p.prevErr }

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp": p.Kp,
		"ki": p.Ki,
		"kd": p.Kd,
	}
}

// SetParam adjusts a PID gain, clamped like the dedicated setters.
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.SetKp(value)
	case "ki":
		p.SetKi(value)
	case "kd":
		p.SetKd(value)
	default:
		return dynamo.ErrUnknownParam
	}
	return nil
}
