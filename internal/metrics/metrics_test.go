package metrics

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	if m.Value() != 0 {
		t.Error("expected zero effort with no samples")
	}

	m.Observe(dynamo.Sample{ControlForce: 10})
	m.Observe(dynamo.Sample{ControlForce: -30})
	if math.Abs(m.Value()-20) > 1e-12 {
		t.Errorf("expected mean |u| 20, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(0.005)
	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(dynamo.Sample{Displacement: 0.001})
	m.Observe(dynamo.Sample{Displacement: -0.002})
	m.Observe(dynamo.Sample{Displacement: -0.01})
	m.Observe(dynamo.Sample{Displacement: 0.004})

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}
}

func TestEnergyLossTracksLastSample(t *testing.T) {
	m := NewEnergyLoss()
	m.Observe(dynamo.Sample{EnergyLoss: 1.5})
	m.Observe(dynamo.Sample{EnergyLoss: 4.0})
	if m.Value() != 4.0 {
		t.Errorf("expected 4.0, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestPeakTemperature(t *testing.T) {
	m := NewPeakTemperature()
	for _, temp := range []float64{20, 31.5, 25} {
		m.Observe(dynamo.Sample{Temperature: temp})
	}
	if m.Value() != 31.5 {
		t.Errorf("expected peak 31.5, got %f", m.Value())
	}
}

func TestDefaultsHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
}

func TestGauges(t *testing.T) {
	g := NewGauges("Hybrid")
	g.OnStep(dynamo.Sample{Temperature: 21.5, MagneticField: 0.0125})
	g.OnStep(dynamo.Sample{Temperature: 22.0, MagneticField: 0.0125})

	if got := testutil.ToFloat64(g.temperature.WithLabelValues("Hybrid")); got != 22.0 {
		t.Errorf("temperature gauge = %f, want 22", got)
	}
	if got := testutil.ToFloat64(g.ticks.WithLabelValues("Hybrid")); got != 2 {
		t.Errorf("tick counter = %f, want 2", got)
	}

	path := filepath.Join(t.TempDir(), "bearingsim.prom")
	if err := g.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `bearingsim_temperature_celsius{bearing="Hybrid"} 22`) {
		t.Errorf("textfile missing temperature series:\n%s", data)
	}
}
