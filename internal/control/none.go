package control

import "github.com/san-kum/bearingsim/internal/dynamo"

// None applies no force. The rig uses it for open-loop runs.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(x dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{0}
}
