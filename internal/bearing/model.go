// Package bearing holds the mutable bearing configuration shared by the
// rotor engine and the presentation layer.
package bearing

import (
	"strings"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// Type selects which force and loss terms the engine applies.
type Type int

const (
	Magnetic Type = iota
	Ceramic
	Hybrid
)

// Types lists every bearing type in presentation order.
var Types = []Type{Magnetic, Ceramic, Hybrid}

func (t Type) String() string {
	switch t {
	case Magnetic:
		return "Magnetic"
	case Ceramic:
		return "Ceramic"
	case Hybrid:
		return "Hybrid"
	default:
		return "Hybrid"
	}
}

// IsMagnetic reports whether the bearing carries an electromagnet.
func (t Type) IsMagnetic() bool {
	return t == Magnetic || t == Hybrid
}

// ParseType maps a case-insensitive name to a Type. Unknown names fall back to
// Hybrid and ok is false.
func ParseType(name string) (t Type, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "magnetic":
		return Magnetic, true
	case "ceramic":
		return Ceramic, true
	case "hybrid":
		return Hybrid, true
	default:
		return Hybrid, false
	}
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	*t, _ = ParseType(string(text))
	return nil
}

// Declared operating ranges.
const (
	MinSpindleSpeed  = 500.0
	MaxSpindleSpeed  = 20000.0
	MinLoad          = 100.0
	MaxLoad          = 1000.0
	MinYoungsModulus = 100.0
	MaxYoungsModulus = 500.0
)

// Defaults match a nominal hybrid spindle bearing.
const (
	DefaultType          = Hybrid
	DefaultSpindleSpeed  = 10000.0
	DefaultLoad          = 500.0
	DefaultYoungsModulus = 380.0
	DefaultMass          = 1.0
	DefaultSpecificHeat  = 900.0
	DefaultBearingY      = 100.0
	DefaultRotorY        = 160.0
)

// Model is the bearing configuration. Setters clamp into the declared ranges
// so the engine never sees out-of-range physics; NaN or Inf takes the range
// minimum. Mass and specific heat are fixed at construction.
type Model struct {
	bearingType   Type
	spindleSpeed  float64 // rpm
	load          float64 // N
	youngsModulus float64 // GPa
	mass          float64 // kg
	specificHeat  float64 // J/(kg*K)
	bearingY      float64
	rotorY        float64
}

func NewModel() *Model {
	return &Model{
		bearingType:   DefaultType,
		spindleSpeed:  DefaultSpindleSpeed,
		load:          DefaultLoad,
		youngsModulus: DefaultYoungsModulus,
		mass:          DefaultMass,
		specificHeat:  DefaultSpecificHeat,
		bearingY:      DefaultBearingY,
		rotorY:        DefaultRotorY,
	}
}

// Clone returns an independent copy, used when a comparison run must not
// disturb the caller's configuration.
func (m *Model) Clone() *Model {
	c := *m
	return &c
}

func (m *Model) Type() Type             { return m.bearingType }
func (m *Model) SetType(t Type)         { m.bearingType = t }
func (m *Model) SpindleSpeed() float64  { return m.spindleSpeed }
func (m *Model) Load() float64          { return m.load }
func (m *Model) YoungsModulus() float64 { return m.youngsModulus }
func (m *Model) Mass() float64          { return m.mass }
func (m *Model) SpecificHeat() float64  { return m.specificHeat }
func (m *Model) BearingY() float64      { return m.bearingY }
func (m *Model) RotorY() float64        { return m.rotorY }

func (m *Model) SetSpindleSpeed(rpm float64) {
	m.spindleSpeed = dynamo.Clamp(rpm, MinSpindleSpeed, MaxSpindleSpeed)
}

func (m *Model) SetLoad(n float64) {
	m.load = dynamo.Clamp(n, MinLoad, MaxLoad)
}

func (m *Model) SetYoungsModulus(gpa float64) {
	m.youngsModulus = dynamo.Clamp(gpa, MinYoungsModulus, MaxYoungsModulus)
}

func (m *Model) SetBearingY(y float64) { m.bearingY = y }
func (m *Model) SetRotorY(y float64)   { m.rotorY = y }

// Rigidity is the lumped support stiffness in N/m before the engine's
// stability clamp.
func (m *Model) Rigidity() float64 {
	return m.youngsModulus * 1e9 * 0.01
}

// GetParams exposes the tunable physical fields for live adjustment.
func (m *Model) GetParams() map[string]float64 {
	return map[string]float64{
		"speed":   m.spindleSpeed,
		"load":    m.load,
		"modulus": m.youngsModulus,
	}
}

// SetParam adjusts a physical field by name.
func (m *Model) SetParam(name string, value float64) error {
	switch name {
	case "speed":
		m.SetSpindleSpeed(value)
	case "load":
		m.SetLoad(value)
	case "modulus":
		m.SetYoungsModulus(value)
	default:
		return dynamo.ErrUnknownParam
	}
	return nil
}
