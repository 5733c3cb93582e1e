package control

import "github.com/san-kum/bearingsim/internal/dynamo"

// Manual holds a constant operator-set force, for disturbance experiments.
type Manual struct {
	Force float64
}

func NewManual(force float64) *Manual {
	return &Manual{Force: force}
}

// SetForce replaces the held force.
func (c *Manual) SetForce(force float64) {
	c.Force = force
}

func (c *Manual) Compute(state dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{c.Force}
}

func (c *Manual) GetParams() map[string]float64 {
	return map[string]float64{"force": c.Force}
}

func (c *Manual) SetParam(name string, value float64) error {
	if name != "force" {
		return dynamo.ErrUnknownParam
	}
	c.Force = value
	return nil
}
