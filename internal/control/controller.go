package control

import (
	"math"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// Controller is the bearing position controller: a scalar Kalman estimator
// feeding a PID stage with a zero setpoint.
//
// Its state is independent of the engine. Resetting the engine does not
// reset the controller.
type Controller struct {
	estimator *Estimator
	pid       *PID
}

func NewController() *Controller {
	return NewControllerWithGains(DefaultKp, DefaultKi, DefaultKd)
}

func NewControllerWithGains(kp, ki, kd float64) *Controller {
	return &Controller{
		estimator: NewEstimator(),
		pid:       NewPID(kp, ki, kd),
	}
}

// Update consumes one measurement pair and returns the force to apply on the
// next tick. A NaN input returns 0 and leaves all state untouched.
func (c *Controller) Update(measuredDisplacement, measuredVelocity float64) float64 {
	if math.IsNaN(measuredDisplacement) || math.IsNaN(measuredVelocity) {
		return 0
	}
	displacement, _ := c.estimator.Update(measuredDisplacement, measuredVelocity)
	return c.pid.Compute(displacement)
}

// Compute adapts Update to the dynamo.Controller interface; x is
// [displacement, velocity].
func (c *Controller) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) < 2 {
		return dynamo.Control{0}
	}
	return dynamo.Control{c.Update(x[0], x[1])}
}

func (c *Controller) SetKp(v float64) { c.pid.SetKp(v) }
func (c *Controller) SetKi(v float64) { c.pid.SetKi(v) }
func (c *Controller) SetKd(v float64) { c.pid.SetKd(v) }

func (c *Controller) Kp() float64 { return c.pid.Kp }
func (c *Controller) Ki() float64 { return c.pid.Ki }
func (c *Controller) Kd() float64 { return c.pid.Kd }

func (c *Controller) Estimator() *Estimator { return c.estimator }
func (c *Controller) PID() *PID             { return c.pid }

// Reset clears estimator and integrator state. Gains are kept.
func (c *Controller) Reset() {
	c.estimator.Reset()
	c.pid.Reset()
}

func (c *Controller) GetParams() map[string]float64 { return c.pid.GetParams() }

func (c *Controller) SetParam(name string, value float64) error {
	return c.pid.SetParam(name, value)
}
