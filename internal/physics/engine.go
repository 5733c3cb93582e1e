package physics

import (
	"math"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/integrators"
)

// State bounds.
const (
	MaxDisplacement  = 0.01 // m
	MaxVelocity      = 10.0 // m/s
	MaxFriction      = 1000.0
	MaxEnergyLoss    = 1e6 // J
	AmbientTemp      = 20.0
	MaxTemperature   = 500.0
	MaxMagneticField = 10.0 // T
	MaxStress        = 1e9  // Pa
)

// Contact, loss and thermal constants.
const (
	ContactRadius         = 0.01 // m
	FrictionCoefficient   = 0.05
	ReferenceSpeed        = 10000.0 // rpm
	CoreVolume            = 0.001   // m^3
	CoreResistivity       = 1e-6    // ohm*m
	eddyScale             = 0.01
	MaxEddyLoss           = 1000.0
	MagneticHeatScale     = 0.1
	MaxMagneticHeat       = 1000.0
	ConvectionCoefficient = 25.0 // W/(m^2*K)
	SurfaceArea           = 0.01 // m^2
	ConductionLength      = 0.01 // m
	MaxHeatDissipation    = 10000.0
)

// conductionMaterial is the material used for the conduction path. Every
// bearing type uses ceramic here.
const conductionMaterial = "ceramic"

// Engine owns the rotor simulation state and advances it by dynamo.Dt per
// Step. It performs no I/O and holds no locks.
type Engine struct {
	model *bearing.Model
	rotor *Rotor
	integ *integrators.RK4

	t             float64
	displacement  float64
	velocity      float64
	friction      float64
	energyLoss    float64
	temperature   float64
	magneticField float64
	stress        float64
	controlForce  float64
}

// NewEngine builds an engine at rest reading configuration from model. The
// engine keeps the pointer, so later changes to model apply on the next Step.
func NewEngine(model *bearing.Model) *Engine {
	e := &Engine{
		model: model,
		rotor: NewRotor(model),
		integ: integrators.NewRK4(),
	}
	e.Reset()
	return e
}

// Model returns the configuration the engine reads from.
func (e *Engine) Model() *bearing.Model { return e.model }

// Rotor returns the equation of motion used by Step.
func (e *Engine) Rotor() *Rotor { return e.rotor }

// Step advances the simulation by exactly one tick.
func (e *Engine) Step() {
	const dt = dynamo.Dt
	bt := e.model.Type()

	next := e.integ.Step(e.rotor,
		dynamo.State{e.displacement, e.velocity},
		dynamo.Control{e.controlForce},
		e.t, dt)
	e.displacement = dynamo.Clamp(next[0], -MaxDisplacement, MaxDisplacement)
	e.velocity = dynamo.Clamp(next[1], -MaxVelocity, MaxVelocity)

	field := FieldStrength(bt)
	speed := math.Abs(e.velocity)
	load := e.model.Load()

	contactArea := math.Pi * ContactRadius * ContactRadius
	e.stress = dynamo.Clamp(load/contactArea, 0, MaxStress)
	e.friction = dynamo.Clamp(FrictionCoefficient*load*(e.model.SpindleSpeed()/ReferenceSpeed), 0, MaxFriction)

	e.energyLoss += e.friction * speed * dt
	if bt.IsMagnetic() {
		e.energyLoss += EddyCurrentLoss(field)
	}
	e.energyLoss = dynamo.Clamp(e.energyLoss, 0, MaxEnergyLoss)

	heat := e.friction * speed
	if bt.IsMagnetic() {
		heat += dynamo.Clamp(MagneticHeatScale*field*field, 0, MaxMagneticHeat)
	}
	e.temperature += (heat - HeatDissipation(e.temperature)) * dt / (e.model.SpecificHeat() * e.model.Mass())
	e.temperature = dynamo.Clamp(e.temperature, AmbientTemp, MaxTemperature)

	if bt.IsMagnetic() {
		e.magneticField = dynamo.Clamp(field, 0, MaxMagneticField)
	} else {
		e.magneticField = 0
	}

	e.t += dt
}

// EddyCurrentLoss is the per-tick core loss for a field strength, in joules.
func EddyCurrentLoss(field float64) float64 {
	loss := field * field * CoreVolume / CoreResistivity * eddyScale
	return dynamo.Clamp(loss, 0, MaxEddyLoss)
}

// HeatDissipation is convective plus conductive heat flow to ambient, in watts.
func HeatDissipation(temperature float64) float64 {
	delta := temperature - AmbientTemp
	conduction := ThermalConductivity(conductionMaterial) * SurfaceArea * delta / ConductionLength
	return dynamo.Clamp(ConvectionCoefficient*SurfaceArea*delta+conduction, 0, MaxHeatDissipation)
}

// ApplyControlForce sets the force held for subsequent ticks. NaN and Inf
// become -MaxForce.
func (e *Engine) ApplyControlForce(force float64) {
	e.controlForce = dynamo.Clamp(force, -MaxForce, MaxForce)
}

// Reset returns the simulation to rest. Configuration is untouched.
func (e *Engine) Reset() {
	e.t = 0
	e.displacement = 0
	e.velocity = 0
	e.friction = 0
	e.energyLoss = 0
	e.temperature = AmbientTemp
	e.magneticField = 0
	e.stress = 0
	e.controlForce = 0
}

func (e *Engine) Time() float64                  { return e.t }
func (e *Engine) RotorDisplacement() float64     { return e.displacement }
func (e *Engine) RotorVelocity() float64         { return e.velocity }
func (e *Engine) FrictionForce() float64         { return e.friction }
func (e *Engine) EnergyLoss() float64            { return e.energyLoss }
func (e *Engine) Temperature() float64           { return e.temperature }
func (e *Engine) MagneticFieldStrength() float64 { return e.magneticField }
func (e *Engine) Stress() float64                { return e.stress }
func (e *Engine) ControlForce() float64          { return e.controlForce }

// Snapshot copies every state field into a sample.
func (e *Engine) Snapshot() dynamo.Sample {
	return dynamo.Sample{
		Time:          e.t,
		Displacement:  e.displacement,
		Velocity:      e.velocity,
		Friction:      e.friction,
		EnergyLoss:    e.energyLoss,
		Temperature:   e.temperature,
		Stress:        e.stress,
		MagneticField: e.magneticField,
		ControlForce:  e.controlForce,
	}
}
