package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// Gauges mirrors the latest rig sample into Prometheus gauges labelled by
// bearing type. It implements dynamo.Observer.
type Gauges struct {
	registry *prometheus.Registry
	bearing  string

	displacement *prometheus.GaugeVec
	velocity     *prometheus.GaugeVec
	friction     *prometheus.GaugeVec
	energyLoss   *prometheus.GaugeVec
	temperature  *prometheus.GaugeVec
	field        *prometheus.GaugeVec
	controlForce *prometheus.GaugeVec
	ticks        *prometheus.CounterVec
}

func newGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bearingsim",
			Name:      name,
			Help:      help,
		},
		[]string{"bearing"},
	)
}

// NewGauges registers the rig gauges on a private registry.
func NewGauges(bearing string) *Gauges {
	g := &Gauges{
		registry:     prometheus.NewRegistry(),
		bearing:      bearing,
		displacement: newGauge("rotor_displacement_meters", "Rotor displacement from the bearing centre"),
		velocity:     newGauge("rotor_velocity_meters_per_second", "Rotor radial velocity"),
		friction:     newGauge("friction_force_newtons", "Contact friction force"),
		energyLoss:   newGauge("energy_loss_joules", "Cumulative energy loss"),
		temperature:  newGauge("temperature_celsius", "Bearing temperature"),
		field:        newGauge("magnetic_field_tesla", "Magnetic field strength at the coil"),
		controlForce: newGauge("control_force_newtons", "Corrective force applied by the controller"),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bearingsim",
				Name:      "ticks_total",
				Help:      "Simulation ticks observed",
			},
			[]string{"bearing"},
		),
	}
	g.registry.MustRegister(g.displacement, g.velocity, g.friction, g.energyLoss,
		g.temperature, g.field, g.controlForce, g.ticks)
	return g
}

// SetBearing switches the label used for subsequent samples.
func (g *Gauges) SetBearing(bearing string) { g.bearing = bearing }

func (g *Gauges) OnStep(s dynamo.Sample) {
	g.displacement.WithLabelValues(g.bearing).Set(s.Displacement)
	g.velocity.WithLabelValues(g.bearing).Set(s.Velocity)
	g.friction.WithLabelValues(g.bearing).Set(s.Friction)
	g.energyLoss.WithLabelValues(g.bearing).Set(s.EnergyLoss)
	g.temperature.WithLabelValues(g.bearing).Set(s.Temperature)
	g.field.WithLabelValues(g.bearing).Set(s.MagneticField)
	g.controlForce.WithLabelValues(g.bearing).Set(s.ControlForce)
	g.ticks.WithLabelValues(g.bearing).Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (g *Gauges) Registry() *prometheus.Registry { return g.registry }

// WriteTextfile dumps the gauges in the node-exporter textfile format.
func (g *Gauges) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, g.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
