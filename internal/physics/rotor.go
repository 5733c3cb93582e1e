package physics

import (
	"math"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/dynamo"
)

// Coil and core constants of the electromagnet.
const (
	Mu0         = 4 * math.Pi * 1e-7 // H/m
	CoilTurns   = 100.0
	CoilCurrent = 10.0 // A
	CoilRadius  = 0.05 // m

	forceScale = 0.01
)

// Force, motion and stiffness limits.
const (
	MaxForce        = 1000.0 // N
	MaxAcceleration = 1000.0 // m/s^2
	MinStiffness    = 1e6    // N/m
	MaxStiffness    = 1e9    // N/m
	DampingRatio    = 0.05
	GyroCoefficient = 0.01
)

// CoilFieldStrength is the field at the centre of the bearing coil, in tesla.
func CoilFieldStrength() float64 {
	return Mu0 * CoilTurns * CoilCurrent / (2 * CoilRadius)
}

// FieldStrength returns the field produced by a bearing of type t.
func FieldStrength(t bearing.Type) float64 {
	if !t.IsMagnetic() {
		return 0
	}
	return CoilFieldStrength()
}

// MagneticForce returns the levitation force of a bearing of type t. It is a
// pure function; the engine records the field strength separately.
func MagneticForce(t bearing.Type) float64 {
	if !t.IsMagnetic() {
		return 0
	}
	return dynamo.Clamp(CoilFieldStrength()*CoilCurrent*forceScale, -MaxForce, MaxForce)
}

// Rotor is the lumped rotor equation of motion. State is
// [displacement, velocity]; control is [force].
type Rotor struct {
	Model *bearing.Model
}

func NewRotor(model *bearing.Model) *Rotor {
	return &Rotor{Model: model}
}

func (r *Rotor) StateDim() int   { return 2 }
func (r *Rotor) ControlDim() int { return 1 }

// Stiffness derives support stiffness from Young's modulus.
func (r *Rotor) Stiffness() float64 {
	return dynamo.Clamp(r.Model.YoungsModulus()*1e9*0.01, MinStiffness, MaxStiffness)
}

func (r *Rotor) Damping() float64 {
	return DampingRatio * math.Sqrt(r.Stiffness()*r.Model.Mass())
}

func (r *Rotor) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	displacement, velocity := x[0], x[1]
	control := 0.0
	if len(u) > 0 {
		control = u[0]
	}

	mass := r.Model.Mass()
	stiffness := r.Stiffness()
	damping := DampingRatio * math.Sqrt(stiffness*mass)
	gyro := dynamo.Clamp(GyroCoefficient*r.Model.SpindleSpeed()*velocity, -MaxForce, MaxForce)
	magnetic := MagneticForce(r.Model.Type())

	accel := (-stiffness*displacement - damping*velocity + magnetic + control - gyro) / mass
	if math.IsNaN(accel) || math.IsInf(accel, 0) {
		accel = 0
	}
	return dynamo.State{velocity, dynamo.Clamp(accel, -MaxAcceleration, MaxAcceleration)}
}
