package physics

import (
	"math"
	"testing"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/dynamo"
)

func hybridScenario() *bearing.Model {
	m := bearing.NewModel()
	m.SetType(bearing.Hybrid)
	m.SetYoungsModulus(380)
	m.SetLoad(500)
	m.SetSpindleSpeed(10000)
	return m
}

func TestEngineStartsAtRest(t *testing.T) {
	e := NewEngine(bearing.NewModel())
	want := dynamo.Sample{Temperature: AmbientTemp}
	if got := e.Snapshot(); got != want {
		t.Errorf("initial snapshot = %+v, want %+v", got, want)
	}
}

func TestEngineDeterminism(t *testing.T) {
	run := func(e *Engine) []dynamo.Sample {
		out := make([]dynamo.Sample, 0, 300)
		for i := 0; i < 300; i++ {
			e.Step()
			out = append(out, e.Snapshot())
		}
		return out
	}

	e := NewEngine(hybridScenario())
	first := run(e)
	e.Reset()
	second := run(e)
	third := run(NewEngine(hybridScenario()))

	for i := range first {
		if first[i] != second[i] || first[i] != third[i] {
			t.Fatalf("tick %d diverged: %+v vs %+v vs %+v", i, first[i], second[i], third[i])
		}
	}
}

func TestEngineTimeAdvancesByFixedStep(t *testing.T) {
	e := NewEngine(bearing.NewModel())
	for i := 0; i < 50; i++ {
		e.Step()
	}
	if math.Abs(e.Time()-0.5) > 1e-9 {
		t.Errorf("time after 50 ticks = %f, want 0.5", e.Time())
	}
}

func TestEnergyLossMonotonic(t *testing.T) {
	for _, bt := range bearing.Types {
		m := hybridScenario()
		m.SetType(bt)
		e := NewEngine(m)
		prev := e.EnergyLoss()
		for i := 0; i < 2000; i++ {
			e.Step()
			if e.EnergyLoss() < prev {
				t.Fatalf("%s tick %d: energy loss decreased %g -> %g", bt, i, prev, e.EnergyLoss())
			}
			if e.EnergyLoss() > MaxEnergyLoss {
				t.Fatalf("%s tick %d: energy loss above cap", bt, i)
			}
			prev = e.EnergyLoss()
		}
	}
}

func TestEnergyLossSaturatesAtCap(t *testing.T) {
	// Eddy-current loss alone exceeds the remaining headroom every tick.
	for _, bt := range []bearing.Type{bearing.Magnetic, bearing.Hybrid} {
		m := hybridScenario()
		m.SetType(bt)
		e := NewEngine(m)
		e.energyLoss = MaxEnergyLoss - 0.0005
		e.ApplyControlForce(MaxForce)

		for i := 0; i < 5; i++ {
			e.Step()
			if e.EnergyLoss() != MaxEnergyLoss {
				t.Fatalf("%s tick %d: energy loss = %.6f, want %.0f", bt, i, e.EnergyLoss(), MaxEnergyLoss)
			}
		}
	}
}

func TestApplyControlForceClamps(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 250, 250},
		{"above", 5000, 1000},
		{"below", -5000, -1000},
		{"NaN", math.NaN(), -1000},
		{"+Inf", math.Inf(1), -1000},
		{"-Inf", math.Inf(-1), -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(bearing.NewModel())
			e.ApplyControlForce(tt.in)
			if got := e.ControlForce(); got != tt.want {
				t.Errorf("ControlForce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngineReset(t *testing.T) {
	e := NewEngine(hybridScenario())
	e.ApplyControlForce(300)
	for i := 0; i < 25; i++ {
		e.Step()
	}
	e.Reset()

	want := dynamo.Sample{Temperature: AmbientTemp}
	if got := e.Snapshot(); got != want {
		t.Errorf("snapshot after reset = %+v, want %+v", got, want)
	}
}

func TestHybridScenario(t *testing.T) {
	e := NewEngine(hybridScenario())
	for i := 0; i < 100; i++ {
		e.Step()
		if math.Abs(e.RotorDisplacement()) > MaxDisplacement {
			t.Fatalf("tick %d: displacement %g out of bounds", i, e.RotorDisplacement())
		}
		if e.Temperature() < AmbientTemp || e.Temperature() > MaxTemperature {
			t.Fatalf("tick %d: temperature %g out of bounds", i, e.Temperature())
		}
		if math.Abs(e.RotorVelocity()) > MaxVelocity {
			t.Fatalf("tick %d: velocity %g out of bounds", i, e.RotorVelocity())
		}
	}

	wantField := 4 * math.Pi * 1e-7 * 100 * 10 / (2 * 0.05)
	if math.Abs(e.MagneticFieldStrength()-wantField) > 1e-9 {
		t.Errorf("field = %g, want %g", e.MagneticFieldStrength(), wantField)
	}
	if math.Abs(e.MagneticFieldStrength()-0.01257) > 1e-5 {
		t.Errorf("field = %g, want about 0.01257 T", e.MagneticFieldStrength())
	}
	if e.Temperature() <= AmbientTemp {
		t.Errorf("hybrid bearing should warm up, temperature %g", e.Temperature())
	}
	if math.Abs(e.Stress()-500/(math.Pi*1e-4)) > 1e-3 {
		t.Errorf("stress = %g", e.Stress())
	}
	if math.Abs(e.FrictionForce()-25) > 1e-9 {
		t.Errorf("friction = %g, want 25", e.FrictionForce())
	}
}

func TestCeramicHasNoField(t *testing.T) {
	m := hybridScenario()
	m.SetType(bearing.Ceramic)
	e := NewEngine(m)
	for i := 0; i < 10; i++ {
		e.Step()
		if e.MagneticFieldStrength() != 0 {
			t.Fatalf("tick %d: ceramic field %g", i, e.MagneticFieldStrength())
		}
	}
	// At rest with no magnetic preload and no control, nothing moves.
	if e.RotorDisplacement() != 0 || e.EnergyLoss() != 0 {
		t.Errorf("ceramic rotor moved: x=%g loss=%g", e.RotorDisplacement(), e.EnergyLoss())
	}
}

func TestEngineFollowsConfigurationChanges(t *testing.T) {
	m := hybridScenario()
	e := NewEngine(m)
	e.Step()
	if e.MagneticFieldStrength() == 0 {
		t.Fatal("expected field for hybrid bearing")
	}

	m.SetType(bearing.Ceramic)
	e.Step()
	if e.MagneticFieldStrength() != 0 {
		t.Errorf("field should drop to 0 after switching to ceramic, got %g", e.MagneticFieldStrength())
	}
}

func TestMagneticForceIsPure(t *testing.T) {
	e := NewEngine(hybridScenario())
	_ = MagneticForce(bearing.Hybrid)
	_ = e.Rotor().Derive(dynamo.State{0, 0}, dynamo.Control{0}, 0)
	if e.MagneticFieldStrength() != 0 {
		t.Errorf("evaluating the force changed engine field to %g", e.MagneticFieldStrength())
	}

	want := CoilFieldStrength() * CoilCurrent * 0.01
	if got := MagneticForce(bearing.Magnetic); math.Abs(got-want) > 1e-15 {
		t.Errorf("magnetic force = %g, want %g", got, want)
	}
	if MagneticForce(bearing.Ceramic) != 0 {
		t.Error("ceramic bearing should produce no magnetic force")
	}
}

func TestRotorDerive(t *testing.T) {
	m := hybridScenario()
	m.SetType(bearing.Ceramic)
	r := NewRotor(m)

	if got := r.Stiffness(); got != MaxStiffness {
		t.Errorf("stiffness = %g, want clamp %g", got, MaxStiffness)
	}

	d := r.Derive(dynamo.State{0, 0}, dynamo.Control{0}, 0)
	if d[0] != 0 || d[1] != 0 {
		t.Errorf("rest derivative = %v", d)
	}

	d = r.Derive(dynamo.State{0, 0}, dynamo.Control{1000}, 0)
	if d[1] != 1000 {
		t.Errorf("acceleration = %g, want 1000", d[1])
	}

	d = r.Derive(dynamo.State{0, 3}, dynamo.Control{math.NaN()}, 0)
	if d[0] != 3 || d[1] != 0 {
		t.Errorf("NaN force should give zero acceleration, got %v", d)
	}

	d = r.Derive(dynamo.State{0.001, 0}, dynamo.Control{0}, 0)
	if d[1] != -MaxAcceleration {
		t.Errorf("stiff restoring acceleration should clamp, got %g", d[1])
	}
}

func TestHeatDissipation(t *testing.T) {
	if HeatDissipation(AmbientTemp) != 0 {
		t.Error("no dissipation at ambient")
	}
	if got := HeatDissipation(21); math.Abs(got-30.25) > 1e-9 {
		t.Errorf("dissipation at 21C = %g, want 30.25", got)
	}
	if got := HeatDissipation(MaxTemperature); got != MaxHeatDissipation {
		t.Errorf("dissipation should clamp at %g, got %g", MaxHeatDissipation, got)
	}
}

func TestEddyCurrentLoss(t *testing.T) {
	b := CoilFieldStrength()
	want := b * b * 0.001 / 1e-6 * 0.01
	if got := EddyCurrentLoss(b); math.Abs(got-want) > 1e-12 {
		t.Errorf("eddy loss = %g, want %g", got, want)
	}
	if got := EddyCurrentLoss(1e6); got != MaxEddyLoss {
		t.Errorf("eddy loss should clamp, got %g", got)
	}
}
